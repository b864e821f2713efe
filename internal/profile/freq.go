package profile

import (
	"strings"

	"gopkg.in/yaml.v3"

	"l0hal-go/errcode"
	"l0hal-go/hal/rcc"
)

// Freq is a frequency written either as a bare number of hertz or with a
// unit suffix: "16000000", "32MHz", "400kHz", "2.097MHz".
type Freq rcc.Hertz

func (f Freq) Hertz() rcc.Hertz { return rcc.Hertz(f) }

func (f Freq) String() string { return rcc.Hertz(f).String() }

func (f *Freq) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return errcode.New(errcode.InvalidParams, "profile.freq", "line "+itoa(n.Line)+": frequency must be a scalar")
	}
	h, err := ParseHertz(n.Value)
	if err != nil {
		return err
	}
	*f = Freq(h)
	return nil
}

func (f Freq) MarshalYAML() (any, error) { return f.String(), nil }

var units = []struct {
	suffix string
	mult   uint64
}{
	{"mhz", 1_000_000},
	{"khz", 1_000},
	{"hz", 1},
}

// ParseHertz parses a frequency. Fractions are allowed as long as the result
// is a whole number of hertz that fits in 32 bits.
func ParseHertz(s string) (rcc.Hertz, error) {
	const op = "profile.hertz"
	in := strings.ToLower(strings.TrimSpace(s))
	mult := uint64(1)
	for _, u := range units {
		if strings.HasSuffix(in, u.suffix) {
			in = strings.TrimSpace(strings.TrimSuffix(in, u.suffix))
			mult = u.mult
			break
		}
	}
	in = strings.ReplaceAll(in, "_", "")
	if in == "" {
		return 0, errcode.New(errcode.InvalidParams, op, "empty frequency "+quote(s))
	}

	var num, den uint64 = 0, 1
	seenDot := false
	for _, c := range in {
		switch {
		case c == '.' && !seenDot:
			seenDot = true
		case c >= '0' && c <= '9':
			num = num*10 + uint64(c-'0')
			if seenDot {
				den *= 10
			}
			if num > 1<<40 || den > 1<<40 {
				return 0, errcode.New(errcode.InvalidParams, op, "frequency out of range "+quote(s))
			}
		default:
			return 0, errcode.New(errcode.InvalidParams, op, "bad frequency "+quote(s))
		}
	}
	v := num * mult
	if v%den != 0 {
		return 0, errcode.New(errcode.InvalidParams, op, quote(s)+" is not a whole number of hertz")
	}
	v /= den
	if v > 1<<32-1 {
		return 0, errcode.New(errcode.InvalidParams, op, "frequency out of range "+quote(s))
	}
	return rcc.Hertz(v), nil
}

// ParseHSE parses an oscillator flag of the form "crystal:8MHz" or
// "clock:12MHz".
func ParseHSE(s string) (HSE, error) {
	kind, freq, ok := strings.Cut(s, ":")
	if !ok {
		return HSE{}, errcode.New(errcode.InvalidParams, "profile.hse", "want kind:freq, got "+quote(s))
	}
	var h HSE
	if err := h.Kind.set(kind); err != nil {
		return HSE{}, err
	}
	f, err := ParseHertz(freq)
	if err != nil {
		return HSE{}, err
	}
	h.Freq = Freq(f)
	return h, nil
}

func quote(s string) string { return "\"" + s + "\"" }
