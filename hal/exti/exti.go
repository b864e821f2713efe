// Package exti drives EXTI lines 0..15, the lines SYSCFG can route to a GPIO
// port.
package exti

import (
	"l0hal-go/errcode"
	"l0hal-go/hal/gpio"
	"l0hal-go/hal/mmio"
	"l0hal-go/hal/rcc"
)

// Edge selects which transitions raise the line.
type Edge uint8

const (
	EdgeRising Edge = iota + 1
	EdgeFalling
	EdgeBoth
)

// Registers is the EXTI block plus the four SYSCFG EXTICR routing registers.
type Registers struct {
	IMR, EMR, RTSR, FTSR, SWIER, PR mmio.Register
	EXTICR                          [4]mmio.Register

	taken bool
}

// EXTI is the constrained controller. It hands out each line once.
type EXTI struct {
	r     *Registers
	lines uint16
}

// Line is one GPIO interrupt line.
type Line struct {
	r *Registers
	n uint8
}

// Constrain takes ownership of the EXTI block. It succeeds once.
func Constrain(regs *Registers) (*EXTI, error) {
	if regs.taken {
		return nil, errcode.New(errcode.AlreadyTaken, "exti.constrain", "EXTI already constrained")
	}
	regs.taken = true
	return &EXTI{r: regs}, nil
}

// Line issues line n (0..15).
func (e *EXTI) Line(n uint8) (*Line, error) {
	if n > 15 {
		return nil, errcode.New(errcode.InvalidParams, "exti.line", "GPIO lines are 0..15")
	}
	if e.lines&(1<<n) != 0 {
		return nil, errcode.New(errcode.AlreadyTaken, "exti.line", "line already issued")
	}
	e.lines |= 1 << n
	return &Line{r: e.r, n: n}, nil
}

// Pending returns the pending mask of lines 0..15.
func (e *EXTI) Pending() uint16 { return uint16(e.r.PR.Get()) }

// Number returns the line number.
func (l *Line) Number() uint8 { return l.n }

// sourceCode is the EXTICR encoding of a port.
func sourceCode(p gpio.Port) (uint32, bool) {
	switch p {
	case gpio.PortA, gpio.PortB, gpio.PortC, gpio.PortD, gpio.PortE:
		return uint32(p), true
	case gpio.PortH:
		return 0b0101, true
	}
	return 0, false
}

// ConfigureGPIO routes the line to the same-numbered pin of port, sets its
// trigger edges and unmasks it. The SYSCFG clock is enabled on APB2 first.
func (l *Line) ConfigureGPIO(apb2 *rcc.APB2, port gpio.Port, edge Edge) error {
	code, ok := sourceCode(port)
	if !ok {
		return errcode.New(errcode.InvalidParams, "exti.configure", "port "+port.String()+" cannot drive EXTI")
	}
	if edge < EdgeRising || edge > EdgeBoth {
		return errcode.New(errcode.InvalidParams, "exti.configure", "unknown edge")
	}
	apb2.Enable(rcc.APB2SYSCFG)
	mmio.ReplaceBits(l.r.EXTICR[l.n/4], code, 0xF, 4*(l.n%4))
	mmio.SetBits(l.r.IMR, l.bit())
	if edge == EdgeRising || edge == EdgeBoth {
		mmio.SetBits(l.r.RTSR, l.bit())
	} else {
		mmio.ClearBits(l.r.RTSR, l.bit())
	}
	if edge == EdgeFalling || edge == EdgeBoth {
		mmio.SetBits(l.r.FTSR, l.bit())
	} else {
		mmio.ClearBits(l.r.FTSR, l.bit())
	}
	return nil
}

// ConfigurePin is ConfigureGPIO for a claimed pin; the pin number must match
// the line.
func (l *Line) ConfigurePin(apb2 *rcc.APB2, pin *gpio.Pin, edge Edge) error {
	if pin.Released() {
		return errcode.New(errcode.InvalidPinout, "exti.configure", pin.String()+" was released")
	}
	if uint8(pin.Number()) != l.n {
		return errcode.New(errcode.InvalidPinout, "exti.configure", pin.String()+" cannot drive a different line")
	}
	return l.ConfigureGPIO(apb2, pin.ID().Port(), edge)
}

func (l *Line) bit() uint32 { return 1 << l.n }

// Mask stops the line from raising interrupts.
func (l *Line) Mask() { mmio.ClearBits(l.r.IMR, l.bit()) }

// Unmask lets the line raise interrupts.
func (l *Line) Unmask() { mmio.SetBits(l.r.IMR, l.bit()) }

// IsPending reports whether the line has a pending edge.
func (l *Line) IsPending() bool { return mmio.HasBits(l.r.PR, l.bit()) }

// ClearPending acknowledges the line. PR is write-1-to-clear, so only this
// line's bit is written.
func (l *Line) ClearPending() { l.r.PR.Set(l.bit()) }

// Trigger raises the line from software.
func (l *Line) Trigger() { l.r.SWIER.Set(l.bit()) }
