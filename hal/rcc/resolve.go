package rcc

import (
	"l0hal-go/errcode"
	"l0hal-go/hal/flash"
	"l0hal-go/x/mathx"
)

// Fixed frequencies and device limits (voltage range 1).
const (
	HSI16Freq Hertz = 16 * MHz

	MaxSYSCLK     Hertz = 32 * MHz // every stage, any source
	MaxHSEClock   Hertz = 32 * MHz // external clock signal
	MaxHSECrystal Hertz = 24 * MHz // crystal, and everything it feeds
	MinPLLInput   Hertz = 2 * MHz
	MaxPLLInput   Hertz = 24 * MHz
	MaxPLLOutput  Hertz = 96 * MHz

	// AlternatePLLFreq is the PLL output used for USB-class timing.
	AlternatePLLFreq Hertz = 96 * MHz
)

const opResolve = "rcc.resolve"

// ceiling returns the highest frequency any stage may run at.
func (c Config) ceiling() Hertz {
	if c.hse == HSECrystal {
		return MaxHSECrystal
	}
	return MaxSYSCLK
}

// Resolve derives register settings for the recorded constraints. It is a
// pure function of the Config: no register is read or written, and the same
// Config always yields the same Tree.
func (c Config) Resolve() (Tree, error) {
	var t Tree
	if err := c.validate(); err != nil {
		return t, err
	}
	ceil := c.ceiling()

	// PLL input.
	pllIn := HSI16Freq
	t.Input = SourceHSI16
	if c.hse != 0 {
		pllIn = c.hseFreq
		t.Input = SourceHSE
		t.HSEBypass = c.hse == HSEClock
		if pllIn > ceil {
			return Tree{}, overCeiling("HSE", pllIn, ceil)
		}
	}

	// PLL output. Computed wide so an absurd target cannot wrap.
	var pllOut uint64
	switch {
	case c.t.AlternatePLL:
		pllOut = uint64(AlternatePLLFreq)
	case c.t.SYSCLK.Set:
		pllOut = 2 * uint64(c.t.SYSCLK.Hz)
	default:
		pllOut = 2 * uint64(pllIn)
	}

	// SYSCLK.
	var sysclk uint64
	switch {
	case c.t.SYSCLK.Set:
		sysclk = uint64(c.t.SYSCLK.Hz)
	case pllOut > uint64(96*MHz):
		sysclk = pllOut / 4
	case pllOut > uint64(64*MHz):
		sysclk = pllOut / 3
	default:
		sysclk = pllOut / 2
	}
	if sysclk > uint64(ceil) {
		return Tree{}, overCeiling("SYSCLK", Hertz(mathx.Min(sysclk, 1<<32-1)), ceil)
	}

	// Multiplier and divider must both be exact hardware ratios.
	mul, okMul := mathx.DivExact(pllOut, uint64(pllIn))
	div, okDiv := mathx.DivExact(pllOut, sysclk)
	if !okMul || !okDiv {
		return Tree{}, errcode.New(errcode.Unreachable, opResolve,
			"SYSCLK "+Hertz(sysclk).String()+" is not an integer PLL ratio of "+pllIn.String())
	}
	if mul == 2 && div == 2 && !c.t.AlternatePLL {
		t.SYSCLK = pllIn
	} else {
		m, ok := pllMulFor(uint32(mul))
		if !ok || mul != uint64(uint32(mul)) {
			return Tree{}, errcode.New(errcode.Unreachable, opResolve,
				"no PLL multiplier for "+pllIn.String()+" to "+Hertz(pllOut).String())
		}
		d, ok := pllDivFor(uint32(div))
		if !ok {
			return Tree{}, errcode.New(errcode.Unreachable, opResolve,
				"no PLL divider for "+Hertz(pllOut).String()+" to "+Hertz(sysclk).String())
		}
		if !mathx.Between(pllIn, MinPLLInput, MaxPLLInput) {
			return Tree{}, errcode.New(errcode.Unreachable, opResolve,
				"PLL input "+pllIn.String()+" outside 2MHz..24MHz")
		}
		if pllOut > uint64(MaxPLLOutput) {
			return Tree{}, overCeiling("PLLCLK", Hertz(pllOut), MaxPLLOutput)
		}
		t.PLL = true
		t.PLLMul = m
		t.PLLDiv = d
		t.PLLCLK = Hertz(pllOut)
		t.SYSCLK = Hertz(sysclk)
	}

	// Bus prescalers.
	ratio, err := busRatio("HCLK", t.SYSCLK, c.t.HCLK)
	if err != nil {
		return Tree{}, err
	}
	t.HPRE = ahbPrescalerFor(ratio)
	t.HCLK = t.SYSCLK / Hertz(t.HPRE.Ratio())

	ratio, err = busRatio("PCLK1", t.HCLK, c.t.PCLK1)
	if err != nil {
		return Tree{}, err
	}
	t.PPRE1 = apbPrescalerFor(ratio)
	t.PCLK1 = t.HCLK / Hertz(t.PPRE1.Ratio())

	ratio, err = busRatio("PCLK2", t.HCLK, c.t.PCLK2)
	if err != nil {
		return Tree{}, err
	}
	t.PPRE2 = apbPrescalerFor(ratio)
	t.PCLK2 = t.HCLK / Hertz(t.PPRE2.Ratio())

	for _, s := range [...]struct {
		name string
		f    Hertz
	}{{"HCLK", t.HCLK}, {"PCLK1", t.PCLK1}, {"PCLK2", t.PCLK2}} {
		if s.f > ceil {
			return Tree{}, overCeiling(s.name, s.f, ceil)
		}
	}

	t.FlashWaitState = flash.NeedsWaitState(uint32(t.SYSCLK))
	return t, nil
}

func (c Config) validate() error {
	if c.hse != 0 {
		if c.hse != HSEClock && c.hse != HSECrystal {
			return errcode.New(errcode.InvalidParams, opResolve, "unknown HSE type")
		}
		if c.hseFreq == 0 {
			return errcode.New(errcode.InvalidParams, opResolve, "HSE frequency is zero")
		}
	}
	for _, s := range [...]struct {
		name string
		t    Target
	}{{"SYSCLK", c.t.SYSCLK}, {"HCLK", c.t.HCLK}, {"PCLK1", c.t.PCLK1}, {"PCLK2", c.t.PCLK2}} {
		if s.t.Set && s.t.Hz == 0 {
			return errcode.New(errcode.InvalidParams, opResolve, s.name+" target is zero")
		}
	}
	return nil
}

// busRatio returns the division a bus needs to come down to its target. No
// target means the bus runs at its upstream frequency.
func busRatio(name string, upstream Hertz, want Target) (uint32, error) {
	if !want.Set {
		return 1, nil
	}
	if want.Hz > upstream {
		return 0, errcode.New(errcode.TargetAboveSource, opResolve,
			name+" target "+want.Hz.String()+" above its source "+upstream.String())
	}
	return mathx.CeilDiv(uint32(upstream), uint32(want.Hz)), nil
}

func overCeiling(stage string, f, limit Hertz) error {
	return errcode.New(errcode.OverCeiling, opResolve, stage+" "+f.String()+" exceeds "+limit.String())
}
