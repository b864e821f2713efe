package rcc_test

import (
	"errors"
	"testing"

	"l0hal-go/errcode"
	"l0hal-go/hal/rcc"
)

func mustResolve(t *testing.T, c rcc.Config) rcc.Tree {
	t.Helper()
	tr, err := c.Resolve()
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return tr
}

func TestResolve_DefaultIsHSI16Bypass(t *testing.T) {
	tr := mustResolve(t, rcc.NewConfig())
	if tr.PLL || tr.Input != rcc.SourceHSI16 || tr.SW() != rcc.SourceHSI16 {
		t.Fatalf("want HSI16 direct, got %+v", tr)
	}
	if tr.SYSCLK != 16*rcc.MHz || tr.HCLK != 16*rcc.MHz || tr.PCLK1 != 16*rcc.MHz || tr.PCLK2 != 16*rcc.MHz {
		t.Fatalf("frequencies: %+v", tr)
	}
	if tr.HPRE != rcc.AHBDiv1 || tr.PPRE1 != rcc.APBDiv1 || tr.PPRE2 != rcc.APBDiv1 {
		t.Fatalf("prescalers: %+v", tr)
	}
	if tr.FlashWaitState {
		t.Fatal("16MHz must not need a wait state")
	}
	if tr.PLLCLK != 0 {
		t.Fatalf("PLLCLK with PLL bypassed: %v", tr.PLLCLK)
	}
}

func TestResolve_CrystalCeilingAppliesDownstream(t *testing.T) {
	_, err := rcc.NewConfig().ExternalOscillator(rcc.HSECrystal, 8*rcc.MHz).SYSCLK(32 * rcc.MHz).Resolve()
	if !errors.Is(err, errcode.OverCeiling) {
		t.Fatalf("want over_ceiling, got %v", err)
	}
}

func TestResolve_ClockSignalAllows32MHz(t *testing.T) {
	tr := mustResolve(t, rcc.NewConfig().ExternalOscillator(rcc.HSEClock, 8*rcc.MHz).SYSCLK(32*rcc.MHz))
	if !tr.PLL || tr.PLLMul.Factor() != 8 || tr.PLLDiv.Factor() != 2 {
		t.Fatalf("want PLL x8 /2, got mul=%d div=%d pll=%v", tr.PLLMul.Factor(), tr.PLLDiv.Factor(), tr.PLL)
	}
	if tr.Input != rcc.SourceHSE || !tr.HSEBypass {
		t.Fatalf("want HSE bypass input, got %+v", tr)
	}
	if tr.SYSCLK != 32*rcc.MHz || tr.PLLCLK != 64*rcc.MHz || !tr.FlashWaitState {
		t.Fatalf("got %+v", tr)
	}
}

func TestResolve_RatioSevenSelectsDiv8(t *testing.T) {
	tr := mustResolve(t, rcc.NewConfig().ExternalOscillator(rcc.HSEClock, 14*rcc.MHz).PCLK1(2*rcc.MHz))
	if tr.HCLK != 14*rcc.MHz {
		t.Fatalf("HCLK = %v", tr.HCLK)
	}
	if tr.PPRE1 != rcc.APBDiv8 || tr.PCLK1 != 1_750_000 {
		t.Fatalf("want /8 -> 1.75MHz, got code=%03b pclk1=%d", tr.PPRE1, tr.PCLK1)
	}
	if tr.PPRE2 != rcc.APBDiv1 {
		t.Fatalf("PCLK2 without a target must be /1, got %03b", tr.PPRE2)
	}
}

func TestResolve_PLLSettings(t *testing.T) {
	cases := []struct {
		name   string
		cfg    rcc.Config
		mul    uint32
		div    uint32
		sysclk rcc.Hertz
		pllclk rcc.Hertz
	}{
		{"hsi16 32MHz", rcc.NewConfig().SYSCLK(32 * rcc.MHz), 4, 2, 32 * rcc.MHz, 64 * rcc.MHz},
		{"hsi16 24MHz", rcc.NewConfig().SYSCLK(24 * rcc.MHz), 3, 2, 24 * rcc.MHz, 48 * rcc.MHz},
		{"crystal 8MHz to 24MHz", rcc.NewConfig().ExternalOscillator(rcc.HSECrystal, 8*rcc.MHz).SYSCLK(24 * rcc.MHz), 6, 2, 24 * rcc.MHz, 48 * rcc.MHz},
		{"alternate from hsi16", rcc.NewConfig().AlternatePLL(true), 6, 3, 32 * rcc.MHz, 96 * rcc.MHz},
		{"alternate from hse 8MHz at 24MHz", rcc.NewConfig().ExternalOscillator(rcc.HSEClock, 8*rcc.MHz).AlternatePLL(true).SYSCLK(24 * rcc.MHz), 12, 4, 24 * rcc.MHz, 96 * rcc.MHz},
		{"hse 2MHz to 32MHz", rcc.NewConfig().ExternalOscillator(rcc.HSEClock, 2*rcc.MHz).SYSCLK(32 * rcc.MHz), 32, 2, 32 * rcc.MHz, 64 * rcc.MHz},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tr := mustResolve(t, tc.cfg)
			if !tr.PLL {
				t.Fatal("PLL not enabled")
			}
			if tr.PLLMul.Factor() != tc.mul || tr.PLLDiv.Factor() != tc.div {
				t.Fatalf("mul/div = %d/%d, want %d/%d", tr.PLLMul.Factor(), tr.PLLDiv.Factor(), tc.mul, tc.div)
			}
			if tr.SYSCLK != tc.sysclk || tr.PLLCLK != tc.pllclk {
				t.Fatalf("sysclk=%v pllclk=%v", tr.SYSCLK, tr.PLLCLK)
			}
		})
	}
}

func TestResolve_Errors(t *testing.T) {
	cases := []struct {
		name string
		cfg  rcc.Config
		want errcode.Code
	}{
		{"not an integer ratio", rcc.NewConfig().SYSCLK(20 * rcc.MHz), errcode.Unreachable},
		{"multiplier 1", rcc.NewConfig().SYSCLK(8 * rcc.MHz), errcode.Unreachable},
		{"multiplier 10", rcc.NewConfig().ExternalOscillator(rcc.HSEClock, 2*rcc.MHz).SYSCLK(10 * rcc.MHz), errcode.Unreachable},
		{"pll input too slow", rcc.NewConfig().ExternalOscillator(rcc.HSEClock, 1*rcc.MHz).SYSCLK(3 * rcc.MHz), errcode.Unreachable},
		{"sysclk above device", rcc.NewConfig().SYSCLK(48 * rcc.MHz), errcode.OverCeiling},
		{"crystal above 24MHz", rcc.NewConfig().ExternalOscillator(rcc.HSECrystal, 25*rcc.MHz), errcode.OverCeiling},
		{"clock above 32MHz", rcc.NewConfig().ExternalOscillator(rcc.HSEClock, 33*rcc.MHz), errcode.OverCeiling},
		{"zero hse", rcc.NewConfig().ExternalOscillator(rcc.HSEClock, 0), errcode.InvalidParams},
		{"unknown hse type", rcc.NewConfig().ExternalOscillator(rcc.HSEType(9), 8*rcc.MHz), errcode.InvalidParams},
		{"zero sysclk", rcc.NewConfig().SYSCLK(0), errcode.InvalidParams},
		{"zero pclk2", rcc.NewConfig().PCLK2(0), errcode.InvalidParams},
		{"hclk above sysclk", rcc.NewConfig().HCLK(20 * rcc.MHz), errcode.TargetAboveSource},
		{"pclk1 above hclk", rcc.NewConfig().HCLK(8 * rcc.MHz).PCLK1(16 * rcc.MHz), errcode.TargetAboveSource},
		{"huge sysclk", rcc.NewConfig().SYSCLK(4_000_000_000), errcode.OverCeiling},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.cfg.Resolve()
			if got := errcode.Of(err); got != tc.want {
				t.Fatalf("code = %q (%v), want %q", got, err, tc.want)
			}
		})
	}
}

func TestResolve_CeilingSweep(t *testing.T) {
	kinds := []struct {
		kind rcc.HSEType
		ceil rcc.Hertz
	}{{rcc.HSEClock, 32 * rcc.MHz}, {rcc.HSECrystal, 24 * rcc.MHz}}
	for _, k := range kinds {
		for _, in := range []rcc.Hertz{2 * rcc.MHz, 4 * rcc.MHz, 8 * rcc.MHz, 12 * rcc.MHz, 16 * rcc.MHz} {
			for sys := rcc.MHz; sys <= 64*rcc.MHz; sys += rcc.MHz {
				tr, err := rcc.NewConfig().ExternalOscillator(k.kind, in).SYSCLK(sys).Resolve()
				if sys > k.ceil {
					if !errors.Is(err, errcode.OverCeiling) {
						t.Fatalf("%v %v -> %v: want over_ceiling, got %v", k.kind, in, sys, err)
					}
					continue
				}
				if err != nil {
					continue
				}
				for _, f := range []rcc.Hertz{tr.SYSCLK, tr.HCLK, tr.PCLK1, tr.PCLK2} {
					if f > k.ceil {
						t.Fatalf("%v %v -> %v: stage at %v above %v", k.kind, in, sys, f, k.ceil)
					}
				}
			}
		}
	}
}

func TestResolve_CodesStayInHardwareTables(t *testing.T) {
	muls := map[uint32]bool{3: true, 4: true, 6: true, 8: true, 12: true, 16: true, 24: true, 32: true, 48: true}
	hpre := map[rcc.AHBPrescaler]bool{
		rcc.AHBDiv1: true, rcc.AHBDiv2: true, rcc.AHBDiv4: true, rcc.AHBDiv8: true, rcc.AHBDiv16: true,
		rcc.AHBDiv64: true, rcc.AHBDiv128: true, rcc.AHBDiv256: true, rcc.AHBDiv512: true,
	}
	ppre := map[rcc.APBPrescaler]bool{
		rcc.APBDiv1: true, rcc.APBDiv2: true, rcc.APBDiv4: true, rcc.APBDiv8: true, rcc.APBDiv16: true,
	}
	for _, alt := range []bool{false, true} {
		for _, in := range []rcc.Hertz{0, 2 * rcc.MHz, 4 * rcc.MHz, 8 * rcc.MHz, 16 * rcc.MHz, 24 * rcc.MHz} {
			for sys := 500 * rcc.KHz; sys <= 32*rcc.MHz; sys += 500 * rcc.KHz {
				c := rcc.NewConfig().AlternatePLL(alt).SYSCLK(sys).HCLK(sys / 3).PCLK1(sys / 7).PCLK2(sys / 13)
				if in != 0 {
					c = c.ExternalOscillator(rcc.HSEClock, in)
				}
				tr, err := c.Resolve()
				if err != nil {
					continue
				}
				if tr.PLL {
					if !muls[tr.PLLMul.Factor()] {
						t.Fatalf("mul %d outside table", tr.PLLMul.Factor())
					}
					if d := tr.PLLDiv.Factor(); d < 2 || d > 4 {
						t.Fatalf("div %d outside table", d)
					}
				} else if alt || tr.PLLCLK != 0 {
					t.Fatalf("bypass with alternate=%v pllclk=%v", alt, tr.PLLCLK)
				}
				if !hpre[tr.HPRE] || !ppre[tr.PPRE1] || !ppre[tr.PPRE2] {
					t.Fatalf("prescaler code outside table: %+v", tr)
				}
			}
		}
	}
}

func TestResolve_Idempotent(t *testing.T) {
	c := rcc.NewConfig().ExternalOscillator(rcc.HSEClock, 8*rcc.MHz).SYSCLK(32 * rcc.MHz).HCLK(16 * rcc.MHz).PCLK1(4 * rcc.MHz)
	a := mustResolve(t, c)
	b := mustResolve(t, c)
	if a != b {
		t.Fatalf("two resolutions differ:\n%+v\n%+v", a, b)
	}
}

func TestResolve_HigherTargetNeverDividesMore(t *testing.T) {
	base := rcc.NewConfig().SYSCLK(32 * rcc.MHz)
	prevAHB, prevAPB := uint32(1<<31), uint32(1<<31)
	for f := 50 * rcc.KHz; f <= 32*rcc.MHz; f += 50 * rcc.KHz {
		tr := mustResolve(t, base.HCLK(f))
		if r := tr.HPRE.Ratio(); r > prevAHB {
			t.Fatalf("HCLK %v: ratio %d above previous %d", f, r, prevAHB)
		} else {
			prevAHB = r
		}
		if f < 2*rcc.MHz {
			continue
		}
		tr = mustResolve(t, base.PCLK1(f))
		if r := tr.PPRE1.Ratio(); r > prevAPB {
			t.Fatalf("PCLK1 %v: ratio %d above previous %d", f, r, prevAPB)
		} else {
			prevAPB = r
		}
	}
}

func TestResolve_AHBBuckets(t *testing.T) {
	base := rcc.NewConfig().SYSCLK(32 * rcc.MHz)
	cases := []struct {
		hclk rcc.Hertz
		code rcc.AHBPrescaler
		got  rcc.Hertz
	}{
		{32 * rcc.MHz, rcc.AHBDiv1, 32 * rcc.MHz},
		{16 * rcc.MHz, rcc.AHBDiv2, 16 * rcc.MHz},
		{12 * rcc.MHz, rcc.AHBDiv4, 8 * rcc.MHz},
		{4 * rcc.MHz, rcc.AHBDiv8, 4 * rcc.MHz},
		{1 * rcc.MHz, rcc.AHBDiv16, 2 * rcc.MHz},
		{500 * rcc.KHz, rcc.AHBDiv64, 500 * rcc.KHz},
		{250 * rcc.KHz, rcc.AHBDiv128, 250 * rcc.KHz},
		{100 * rcc.KHz, rcc.AHBDiv256, 125 * rcc.KHz},
		{62500, rcc.AHBDiv512, 62500},
	}
	for _, tc := range cases {
		tr := mustResolve(t, base.HCLK(tc.hclk))
		if tr.HPRE != tc.code || tr.HCLK != tc.got {
			t.Fatalf("HCLK(%v): code=%04b hclk=%v, want %04b %v", tc.hclk, tr.HPRE, tr.HCLK, tc.code, tc.got)
		}
	}
}

func TestConfig_BuilderIsByValue(t *testing.T) {
	c := rcc.NewConfig()
	d := c.SYSCLK(32 * rcc.MHz).ExternalOscillator(rcc.HSECrystal, 8*rcc.MHz)
	if c.Targets().SYSCLK.Set {
		t.Fatal("builder mutated its receiver")
	}
	if _, _, ok := c.HSE(); ok {
		t.Fatal("receiver gained an HSE")
	}
	kind, f, ok := d.HSE()
	if !ok || kind != rcc.HSECrystal || f != 8*rcc.MHz {
		t.Fatalf("HSE() = %v %v %v", kind, f, ok)
	}
	if got := d.Targets().SYSCLK; !got.Set || got.Hz != 32*rcc.MHz {
		t.Fatalf("SYSCLK target = %+v", got)
	}
}

func TestStrings(t *testing.T) {
	cases := map[string]string{
		(32 * rcc.MHz).String():   "32MHz",
		(400 * rcc.KHz).String():  "400kHz",
		rcc.Hertz(32768).String(): "32768Hz",
		rcc.Hertz(0).String():     "0Hz",
		rcc.SourcePLL.String():    "pll",
		rcc.SourceHSI16.String():  "hsi16",
		rcc.HSECrystal.String():   "crystal",
		rcc.HSEClock.String():     "clock",
	}
	for got, want := range cases {
		if got != want {
			t.Fatalf("got %q, want %q", got, want)
		}
	}
}
