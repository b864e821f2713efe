// Package gpiosim models a GPIO port's registers on the host: BSRR drives
// ODR, and IDR reads back ODR for outputs and Input for everything else.
package gpiosim

import (
	"l0hal-go/hal/gpio"
	"l0hal-go/hal/mmio"
)

// Port is a simulated GPIO port.
type Port struct {
	Regs *gpio.Registers

	MODER, OTYPER, OSPEEDR, PUPDR *mmio.Reg
	IDR, ODR, BSRR                *mmio.Reg
	AFRL, AFRH                    *mmio.Reg

	// Input is the level the outside world drives on each pin.
	Input uint16
}

// New returns a port in its reset state (all pins analog).
func New() *Port {
	p := &Port{
		MODER:   mmio.NewReg("MODER", 0xFFFF_FFFF),
		OTYPER:  mmio.NewReg("OTYPER", 0),
		OSPEEDR: mmio.NewReg("OSPEEDR", 0),
		PUPDR:   mmio.NewReg("PUPDR", 0),
		IDR:     mmio.NewReg("IDR", 0),
		ODR:     mmio.NewReg("ODR", 0),
		BSRR:    mmio.NewReg("BSRR", 0),
		AFRL:    mmio.NewReg("AFRL", 0),
		AFRH:    mmio.NewReg("AFRH", 0),
	}
	p.BSRR.OnWrite = func(_, v uint32) uint32 {
		odr := p.ODR.Peek()
		odr &^= v >> 16
		odr |= v & 0xFFFF
		p.ODR.Poke(odr)
		return 0
	}
	p.IDR.OnRead = func(uint32) uint32 {
		var out uint32
		moder := p.MODER.Peek()
		for n := 0; n < 16; n++ {
			bit := uint32(1) << n
			if gpio.Mode(moder>>(2*n)&0b11) == gpio.ModeOutput {
				out |= p.ODR.Peek() & bit
			} else {
				out |= uint32(p.Input) & bit
			}
		}
		return out
	}
	p.Regs = &gpio.Registers{
		MODER: p.MODER, OTYPER: p.OTYPER, OSPEEDR: p.OSPEEDR, PUPDR: p.PUPDR,
		IDR: p.IDR, ODR: p.ODR, BSRR: p.BSRR,
		AFRL: p.AFRL, AFRH: p.AFRH,
	}
	return p
}
