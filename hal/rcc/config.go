package rcc

// HSEType tells whether the HSE pin carries a clock signal or a crystal.
type HSEType uint8

const (
	// HSEClock is an external clock signal (HSE bypass), up to 32 MHz.
	HSEClock HSEType = iota + 1
	// HSECrystal is a crystal or ceramic resonator, up to 24 MHz.
	HSECrystal
)

func (k HSEType) String() string {
	switch k {
	case HSEClock:
		return "clock"
	case HSECrystal:
		return "crystal"
	default:
		return "unknown"
	}
}

// Target is an optional requested frequency.
type Target struct {
	Hz  Hertz
	Set bool
}

// Targets is everything the caller asked for, as recorded by Config.
type Targets struct {
	SYSCLK       Target
	HCLK         Target
	PCLK1        Target
	PCLK2        Target
	AlternatePLL bool
}

// Config accumulates clock constraints. Each method takes and returns the
// value, so a configuration reads as one chain ending in Freeze. Nothing is
// validated here and no register is touched; Resolve does the checking.
type Config struct {
	regs *Registers

	hse     HSEType
	hseFreq Hertz
	t       Targets
}

// NewConfig returns a selector detached from hardware. It resolves like any
// other Config but cannot be frozen.
func NewConfig() Config { return Config{} }

// ExternalOscillator feeds the clock tree from HSE instead of HSI16.
func (c Config) ExternalOscillator(kind HSEType, freq Hertz) Config {
	c.hse = kind
	c.hseFreq = freq
	return c
}

// AlternatePLL runs the PLL at the fixed 96 MHz USB-class target.
func (c Config) AlternatePLL(on bool) Config {
	c.t.AlternatePLL = on
	return c
}

// SYSCLK requests a system clock frequency.
func (c Config) SYSCLK(f Hertz) Config {
	c.t.SYSCLK = Target{Hz: f, Set: true}
	return c
}

// HCLK requests an AHB (core bus) frequency.
func (c Config) HCLK(f Hertz) Config {
	c.t.HCLK = Target{Hz: f, Set: true}
	return c
}

// PCLK1 requests an APB1 frequency.
func (c Config) PCLK1(f Hertz) Config {
	c.t.PCLK1 = Target{Hz: f, Set: true}
	return c
}

// PCLK2 requests an APB2 frequency.
func (c Config) PCLK2(f Hertz) Config {
	c.t.PCLK2 = Target{Hz: f, Set: true}
	return c
}

// HSE returns the recorded external oscillator, if any.
func (c Config) HSE() (HSEType, Hertz, bool) {
	return c.hse, c.hseFreq, c.hse != 0
}

// Targets returns the recorded frequency requests.
func (c Config) Targets() Targets { return c.t }
