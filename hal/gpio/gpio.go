// Package gpio splits a GPIO port into pin handles. A port is split once;
// each pin is then claimed by one owner at a time, and only a claimed pin can
// be reconfigured or driven.
package gpio

import (
	"sync"

	"l0hal-go/errcode"
	"l0hal-go/hal/mmio"
	"l0hal-go/hal/rcc"
)

// Port identifies a GPIO port. The values are the port letters' offsets from
// A, which is also the EXTICR source encoding.
type Port uint8

const (
	PortA Port = 0
	PortB Port = 1
	PortC Port = 2
	PortD Port = 3
	PortE Port = 4
	PortH Port = 7
)

func (p Port) String() string {
	if p > PortH {
		return "?"
	}
	return string(rune('A' + p))
}

func (p Port) iop() (rcc.IOPPort, bool) {
	switch p {
	case PortA:
		return rcc.IOPA, true
	case PortB:
		return rcc.IOPB, true
	case PortC:
		return rcc.IOPC, true
	case PortD:
		return rcc.IOPD, true
	case PortE:
		return rcc.IOPE, true
	case PortH:
		return rcc.IOPH, true
	}
	return 0, false
}

// Mode is the MODER encoding.
type Mode uint8

const (
	ModeInput Mode = iota
	ModeOutput
	ModeAlternate
	ModeAnalog
)

// Pull is the PUPDR encoding.
type Pull uint8

const (
	PullNone Pull = iota
	PullUp
	PullDown
)

// Speed is the OSPEEDR encoding.
type Speed uint8

const (
	SpeedLow Speed = iota
	SpeedMedium
	SpeedHigh
	SpeedVeryHigh
)

// AF is an alternate function number.
type AF uint8

const (
	AF0 AF = iota
	AF1
	AF2
	AF3
	AF4
	AF5
	AF6
	AF7
)

// AltConfig are the electrical settings of a pin in alternate mode.
type AltConfig struct {
	OpenDrain bool
	Pull      Pull
	Speed     Speed
}

// Registers is one GPIO port's register block.
type Registers struct {
	MODER, OTYPER, OSPEEDR, PUPDR mmio.Register
	IDR, ODR, BSRR                mmio.Register
	AFRL, AFRH                    mmio.Register

	taken bool
}

// GPIO is a split port. It tracks which pins are claimed.
type GPIO struct {
	port Port
	r    *Registers

	mu     sync.Mutex
	owners [16]string
}

// Split takes ownership of a port: its IOP clock is enabled and the port is
// pulse-reset before the handle is returned. A port splits once.
func Split(port Port, regs *Registers, iop *rcc.IOP) (*GPIO, error) {
	bit, ok := port.iop()
	if !ok {
		return nil, errcode.New(errcode.InvalidParams, "gpio.split", "no port "+port.String())
	}
	if regs.taken {
		return nil, errcode.New(errcode.AlreadyTaken, "gpio.split", "GPIO"+port.String()+" already split")
	}
	regs.taken = true
	iop.Enable(bit)
	iop.Reset(bit)
	return &GPIO{port: port, r: regs}, nil
}

// Port returns the port this handle owns.
func (g *GPIO) Port() Port { return g.port }

// Claim hands pin n to owner. A pin has one owner until released.
func (g *GPIO) Claim(owner string, n uint8) (*Pin, error) {
	if n > 15 {
		return nil, errcode.New(errcode.InvalidParams, "gpio.claim", "pin number out of range")
	}
	if owner == "" {
		return nil, errcode.New(errcode.InvalidParams, "gpio.claim", "empty owner")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	id := NewPinID(g.port, n)
	if o := g.owners[n]; o != "" {
		return nil, errcode.New(errcode.PinInUse, "gpio.claim", id.String()+" held by "+o)
	}
	g.owners[n] = owner
	return &Pin{g: g, id: id, n: n, owner: owner}, nil
}

// Release returns a pin to analog mode (its reset state) and frees it. A pin
// handed to a port that did not issue it, or held by a stale owner, is left
// alone.
func (g *GPIO) Release(p *Pin) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p.g != g || g.owners[p.n] != p.owner {
		return
	}
	g.setMode(p.n, ModeAnalog)
	g.owners[p.n] = ""
	p.g = nil
}

// Owner returns who holds pin n, or "".
func (g *GPIO) Owner(n uint8) string {
	if n > 15 {
		return ""
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.owners[n]
}

func (g *GPIO) setMode(n uint8, m Mode) {
	mmio.ReplaceBits(g.r.MODER, uint32(m), 0b11, 2*n)
}

func (g *GPIO) setAF(n uint8, af AF) {
	if n < 8 {
		mmio.ReplaceBits(g.r.AFRL, uint32(af), 0xF, 4*n)
		return
	}
	mmio.ReplaceBits(g.r.AFRH, uint32(af), 0xF, 4*(n-8))
}

func (g *GPIO) af(n uint8) AF {
	if n < 8 {
		return AF(g.r.AFRL.Get() >> (4 * n) & 0xF)
	}
	return AF(g.r.AFRH.Get() >> (4 * (n - 8)) & 0xF)
}
