package main

import (
	"github.com/spf13/cobra"

	"l0hal-go/hal/rcc"
	"l0hal-go/internal/profile"
)

// clockFlags are the target flags shared by resolve, simulate and verify.
// Explicit flags override the profile.
type clockFlags struct {
	profile string
	hse     string
	sysclk  string
	hclk    string
	pclk1   string
	pclk2   string
	altPLL  bool
}

func (f *clockFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.profile, "profile", "p", "", "board profile: a YAML file or a built-in board name")
	fl.StringVar(&f.hse, "hse", "", "external oscillator, kind:freq (crystal:8MHz, clock:8MHz)")
	fl.StringVar(&f.sysclk, "sysclk", "", "SYSCLK target")
	fl.StringVar(&f.hclk, "hclk", "", "AHB (HCLK) target")
	fl.StringVar(&f.pclk1, "pclk1", "", "APB1 (PCLK1) target")
	fl.StringVar(&f.pclk2, "pclk2", "", "APB2 (PCLK2) target")
	fl.BoolVar(&f.altPLL, "alt-pll", false, "run the PLL at 96MHz")
}

// build merges the profile file with the explicit flags.
func (f *clockFlags) build() (profile.Profile, error) {
	var p profile.Profile
	if f.profile != "" {
		var err error
		if p, err = profile.Load(f.profile); err != nil {
			return p, err
		}
	}
	if f.hse != "" {
		h, err := profile.ParseHSE(f.hse)
		if err != nil {
			return p, err
		}
		p.HSE = &h
	}
	for _, t := range []struct {
		in  string
		out *profile.Freq
	}{
		{f.sysclk, &p.SYSCLK},
		{f.hclk, &p.HCLK},
		{f.pclk1, &p.PCLK1},
		{f.pclk2, &p.PCLK2},
	} {
		if t.in == "" {
			continue
		}
		h, err := profile.ParseHertz(t.in)
		if err != nil {
			return p, err
		}
		*t.out = profile.Freq(h)
	}
	if f.altPLL {
		p.AlternatePLL = true
	}
	return p, nil
}

// config returns the merged configuration recorded on base.
func (f *clockFlags) config(base rcc.Config) (profile.Profile, rcc.Config, error) {
	p, err := f.build()
	if err != nil {
		return p, base, err
	}
	return p, p.Apply(base), nil
}
