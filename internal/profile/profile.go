// Package profile loads board clock profiles from YAML and turns them into
// rcc configurations for the host tools.
//
//	name: nucleo-l073rz
//	hse:
//	  kind: clock
//	  freq: 8MHz
//	sysclk: 32MHz
//	pclk1: 16MHz
package profile

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"l0hal-go/errcode"
	"l0hal-go/hal/rcc"
	"l0hal-go/x/conv"
)

//go:embed boards.yaml
var rawBoards []byte

var boards []Profile

// Kind is the HSE type as written in a profile: "crystal" or "clock".
type Kind rcc.HSEType

func (k Kind) String() string { return rcc.HSEType(k).String() }

func (k *Kind) set(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "crystal", "xtal":
		*k = Kind(rcc.HSECrystal)
	case "clock", "bypass":
		*k = Kind(rcc.HSEClock)
	default:
		return errcode.New(errcode.InvalidParams, "profile.hse", "unknown HSE kind "+quote(s))
	}
	return nil
}

func (k *Kind) UnmarshalYAML(n *yaml.Node) error { return k.set(n.Value) }

func (k Kind) MarshalYAML() (any, error) { return k.String(), nil }

// HSE describes the external oscillator.
type HSE struct {
	Kind Kind `yaml:"kind"`
	Freq Freq `yaml:"freq"`
}

// Profile is one board's clock requirements. Zero frequencies are left for
// the resolver to choose.
type Profile struct {
	Name         string `yaml:"name"`
	Description  string `yaml:"description,omitempty"`
	HSE          *HSE   `yaml:"hse,omitempty"`
	SYSCLK       Freq   `yaml:"sysclk,omitempty"`
	HCLK         Freq   `yaml:"hclk,omitempty"`
	PCLK1        Freq   `yaml:"pclk1,omitempty"`
	PCLK2        Freq   `yaml:"pclk2,omitempty"`
	AlternatePLL bool   `yaml:"alternate_pll,omitempty"`
}

// Apply records the profile on c and returns the result. Fields already set
// on c are overwritten only where the profile names a value.
func (p Profile) Apply(c rcc.Config) rcc.Config {
	if p.HSE != nil {
		c = c.ExternalOscillator(rcc.HSEType(p.HSE.Kind), p.HSE.Freq.Hertz())
	}
	if p.AlternatePLL {
		c = c.AlternatePLL(true)
	}
	if p.SYSCLK != 0 {
		c = c.SYSCLK(p.SYSCLK.Hertz())
	}
	if p.HCLK != 0 {
		c = c.HCLK(p.HCLK.Hertz())
	}
	if p.PCLK1 != 0 {
		c = c.PCLK1(p.PCLK1.Hertz())
	}
	if p.PCLK2 != 0 {
		c = c.PCLK2(p.PCLK2.Hertz())
	}
	return c
}

// Config returns a detached configuration for the profile.
func (p Profile) Config() rcc.Config { return p.Apply(rcc.NewConfig()) }

func (p Profile) validate() error {
	if p.HSE != nil && p.HSE.Freq == 0 {
		return errcode.New(errcode.InvalidParams, "profile.parse", p.Name+": hse.freq is required")
	}
	if p.HSE != nil && p.HSE.Kind == 0 {
		return errcode.New(errcode.InvalidParams, "profile.parse", p.Name+": hse.kind is required")
	}
	return nil
}

// Parse decodes a single profile document.
func Parse(data []byte) (Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("profile: %w", err)
	}
	if err := p.validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Load reads a profile from a file, or a built-in board when path has no
// file behind it and names one.
func Load(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if p, ok := Find(path); ok {
			return p, nil
		}
		return Profile{}, fmt.Errorf("profile %s: %w", path, err)
	}
	p, err := Parse(data)
	if err != nil {
		return Profile{}, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// Boards returns the built-in profiles sorted by name.
func Boards() []Profile {
	out := append([]Profile(nil), boards...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Find returns the built-in profile with the given name.
func Find(name string) (Profile, bool) {
	for _, b := range boards {
		if strings.EqualFold(b.Name, name) {
			return b, true
		}
	}
	return Profile{}, false
}

func itoa(n int) string { return conv.Uitoa(uint64(n)) }

func init() {
	var t struct {
		Boards []Profile `yaml:"boards"`
	}
	if err := yaml.Unmarshal(rawBoards, &t); err != nil {
		panic(err)
	}
	for _, b := range t.Boards {
		if err := b.validate(); err != nil {
			panic(err)
		}
	}
	boards = t.Boards
}
