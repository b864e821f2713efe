package rcc

import "l0hal-go/x/conv"

// Hertz is a frequency in Hz.
type Hertz uint32

// Frequency units; write 8 * rcc.MHz.
const (
	Hz  Hertz = 1
	KHz Hertz = 1_000
	MHz Hertz = 1_000_000
)

// String renders h in the largest unit that divides it exactly ("32MHz",
// "400kHz", "32768Hz").
func (h Hertz) String() string {
	var b [24]byte
	out := b[:0]
	switch {
	case h != 0 && h%MHz == 0:
		out = append(conv.AppendUint(out, uint64(h/MHz)), "MHz"...)
	case h != 0 && h%KHz == 0:
		out = append(conv.AppendUint(out, uint64(h/KHz)), "kHz"...)
	default:
		out = append(conv.AppendUint(out, uint64(h)), "Hz"...)
	}
	return string(out)
}
