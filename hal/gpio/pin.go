package gpio

import (
	"l0hal-go/errcode"
	"l0hal-go/hal/mmio"
)

// PinID names a pin by port and number, packed as port<<4 | number.
type PinID uint8

// NewPinID returns the PinID of pin n on port.
func NewPinID(port Port, n uint8) PinID { return PinID(uint8(port)<<4 | n&0xF) }

func (id PinID) Port() Port { return Port(id >> 4) }
func (id PinID) Num() uint8 { return uint8(id) & 0xF }

// String returns the datasheet name, e.g. "PB6".
func (id PinID) String() string {
	n := id.Num()
	b := []byte{'P', id.Port().String()[0]}
	if n >= 10 {
		b = append(b, '1')
		n -= 10
	}
	return string(append(b, byte('0'+n)))
}

const (
	PA0 PinID = iota | PinID(PortA)<<4
	PA1
	PA2
	PA3
	PA4
	PA5
	PA6
	PA7
	PA8
	PA9
	PA10
	PA11
	PA12
	PA13
	PA14
	PA15
)

const (
	PB0 PinID = iota | PinID(PortB)<<4
	PB1
	PB2
	PB3
	PB4
	PB5
	PB6
	PB7
	PB8
	PB9
	PB10
	PB11
	PB12
	PB13
	PB14
	PB15
)

const (
	PC0 PinID = iota | PinID(PortC)<<4
	PC1
	PC2
	PC3
	PC4
	PC5
	PC6
	PC7
	PC8
	PC9
	PC10
	PC11
	PC12
	PC13
	PC14
	PC15
)

const (
	PD2 PinID = 2 | PinID(PortD)<<4
	PH0 PinID = 0 | PinID(PortH)<<4
	PH1 PinID = 1 | PinID(PortH)<<4
)

// Pin is a claimed pin. Its methods are valid until the pin is released.
type Pin struct {
	g     *GPIO
	id    PinID
	n     uint8
	owner string
}

var errReleased = errcode.New(errcode.NotConstrained, "gpio.pin", "pin was released")

// ID returns the pin's name.
func (p *Pin) ID() PinID { return p.id }

// Number returns the pin number within its port.
func (p *Pin) Number() int { return int(p.n) }

func (p *Pin) String() string { return p.id.String() }

// ConfigureInput makes the pin a digital input with the given pull.
func (p *Pin) ConfigureInput(pull Pull) error {
	if p.g == nil {
		return errReleased
	}
	p.g.mu.Lock()
	defer p.g.mu.Unlock()
	mmio.ReplaceBits(p.g.r.PUPDR, uint32(pull), 0b11, 2*p.n)
	p.g.setMode(p.n, ModeInput)
	return nil
}

// ConfigureOutput makes the pin a push-pull output, driving initial first so
// the pin never glitches to the other level.
func (p *Pin) ConfigureOutput(initial bool) error {
	if p.g == nil {
		return errReleased
	}
	p.Set(initial)
	p.g.mu.Lock()
	defer p.g.mu.Unlock()
	mmio.ClearBits(p.g.r.OTYPER, 1<<p.n)
	mmio.ReplaceBits(p.g.r.PUPDR, uint32(PullNone), 0b11, 2*p.n)
	p.g.setMode(p.n, ModeOutput)
	return nil
}

// ConfigureAlternate hands the pin to a peripheral through alternate
// function af.
func (p *Pin) ConfigureAlternate(af AF, cfg AltConfig) error {
	if p.g == nil {
		return errReleased
	}
	if af > AF7 {
		return errcode.New(errcode.InvalidParams, "gpio.alternate", "no alternate function above AF7")
	}
	p.g.mu.Lock()
	defer p.g.mu.Unlock()
	if cfg.OpenDrain {
		mmio.SetBits(p.g.r.OTYPER, 1<<p.n)
	} else {
		mmio.ClearBits(p.g.r.OTYPER, 1<<p.n)
	}
	mmio.ReplaceBits(p.g.r.OSPEEDR, uint32(cfg.Speed), 0b11, 2*p.n)
	mmio.ReplaceBits(p.g.r.PUPDR, uint32(cfg.Pull), 0b11, 2*p.n)
	p.g.setAF(p.n, af)
	p.g.setMode(p.n, ModeAlternate)
	return nil
}

// ConfigureAnalog puts the pin in analog mode, the lowest-power state.
func (p *Pin) ConfigureAnalog() error {
	if p.g == nil {
		return errReleased
	}
	p.g.mu.Lock()
	defer p.g.mu.Unlock()
	p.g.setMode(p.n, ModeAnalog)
	return nil
}

// Released reports whether the pin has been handed back to its port.
func (p *Pin) Released() bool { return p.g == nil }

// Mode reads the pin's current mode. A released pin reads as analog, the
// state Release leaves it in.
func (p *Pin) Mode() Mode {
	if p.g == nil {
		return ModeAnalog
	}
	return Mode(p.g.r.MODER.Get() >> (2 * p.n) & 0b11)
}

// AF reads the pin's alternate function; ok is false unless the pin is in
// alternate mode.
func (p *Pin) AF() (af AF, ok bool) {
	if p.g == nil || p.Mode() != ModeAlternate {
		return 0, false
	}
	return p.g.af(p.n), true
}

// Set drives the output latch through BSRR, which needs no read-modify-write.
// It does nothing on a released pin.
func (p *Pin) Set(level bool) {
	if p.g == nil {
		return
	}
	if level {
		p.g.r.BSRR.Set(1 << p.n)
	} else {
		p.g.r.BSRR.Set(1 << (p.n + 16))
	}
}

// Get reads the input level; a released pin reads low.
func (p *Pin) Get() bool {
	if p.g == nil {
		return false
	}
	return mmio.HasBits(p.g.r.IDR, 1<<p.n)
}

// Toggle inverts the output latch.
func (p *Pin) Toggle() {
	if p.g == nil {
		return
	}
	p.Set(!mmio.HasBits(p.g.r.ODR, 1<<p.n))
}
