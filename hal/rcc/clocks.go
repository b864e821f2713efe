package rcc

import (
	"l0hal-go/errcode"
	"l0hal-go/x/conv"
)

// Clocks is the frozen clock tree. Only Freeze creates one; it has no
// mutators and is shared by pointer for the rest of the program.
type Clocks struct {
	sysclk Hertz
	hclk   Hertz
	pclk1  Hertz
	pclk2  Hertz
	ppre1  uint8
	ppre2  uint8
	src    Source
	pll    bool
	hsi16  bool
}

func newClocks(t Tree) *Clocks {
	return &Clocks{
		sysclk: t.SYSCLK,
		hclk:   t.HCLK,
		pclk1:  t.PCLK1,
		pclk2:  t.PCLK2,
		ppre1:  uint8(t.PPRE1.Ratio()),
		ppre2:  uint8(t.PPRE2.Ratio()),
		src:    t.SW(),
		pll:    t.PLL,
		hsi16:  t.Input == SourceHSI16,
	}
}

func (c *Clocks) SYSCLK() Hertz { return c.sysclk }
func (c *Clocks) HCLK() Hertz   { return c.hclk }
func (c *Clocks) PCLK1() Hertz  { return c.pclk1 }
func (c *Clocks) PCLK2() Hertz  { return c.pclk2 }

// PPRE1 returns the APB1 division ratio (1, 2, 4, 8 or 16).
func (c *Clocks) PPRE1() uint8 { return c.ppre1 }

// PPRE2 returns the APB2 division ratio.
func (c *Clocks) PPRE2() uint8 { return c.ppre2 }

// Source returns what drives SYSCLK.
func (c *Clocks) Source() Source { return c.src }

// PLL reports whether SYSCLK comes from the PLL.
func (c *Clocks) PLL() bool { return c.pll }

// HSI16Running reports whether HSI16 was left enabled.
func (c *Clocks) HSI16Running() bool { return c.hsi16 }

// TimerClock1 is the kernel clock of APB1 timers: PCLK1, doubled when APB1
// is divided.
func (c *Clocks) TimerClock1() Hertz { return timerClock(c.pclk1, c.ppre1) }

// TimerClock2 is the kernel clock of APB2 timers.
func (c *Clocks) TimerClock2() Hertz { return timerClock(c.pclk2, c.ppre2) }

func timerClock(pclk Hertz, ppre uint8) Hertz {
	if ppre == 1 {
		return pclk
	}
	return 2 * pclk
}

// LPUARTKernel returns the LPUART1 kernel clock for a CCIPR selection. LSE is
// not managed by this package, and HSI16 only counts when it was left on.
func (c *Clocks) LPUARTKernel(sel LPUARTClock) (Hertz, error) {
	switch sel {
	case LPUARTClockAPB:
		return c.pclk1, nil
	case LPUARTClockSYSCLK:
		return c.sysclk, nil
	case LPUARTClockHSI16:
		if c.hsi16 {
			return HSI16Freq, nil
		}
		return 0, errcode.New(errcode.Unsupported, "rcc.lpuart_kernel", "HSI16 is off")
	default:
		return 0, errcode.New(errcode.Unsupported, "rcc.lpuart_kernel", "LSE is not managed")
	}
}

// String renders the snapshot as one line of key=value pairs:
//
//	clocks sysclk=32MHz hclk=32MHz pclk1=16MHz pclk2=32MHz ppre1=2 ppre2=1 src=pll
func (c *Clocks) String() string {
	b := make([]byte, 0, 96)
	b = append(b, "clocks sysclk="...)
	b = append(b, c.sysclk.String()...)
	b = append(b, " hclk="...)
	b = append(b, c.hclk.String()...)
	b = append(b, " pclk1="...)
	b = append(b, c.pclk1.String()...)
	b = append(b, " pclk2="...)
	b = append(b, c.pclk2.String()...)
	b = append(b, " ppre1="...)
	b = conv.AppendUint(b, uint64(c.ppre1))
	b = append(b, " ppre2="...)
	b = conv.AppendUint(b, uint64(c.ppre2))
	b = append(b, " src="...)
	b = append(b, c.src.String()...)
	return string(b)
}
