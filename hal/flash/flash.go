// Package flash owns the FLASH access-control register. The only thing the
// rest of the HAL needs from it is the wait-state (LATENCY) bit, which the
// clock sequencer programs around a SYSCLK change.
package flash

import (
	"l0hal-go/errcode"
	"l0hal-go/hal/mmio"
)

// ACR bits.
const (
	acrLatency = 1 << 0 // one wait state
	acrPrften  = 1 << 1 // prefetch
)

// MaxZeroWaitHz is the highest SYSCLK (range 1) that reads flash without a
// wait state.
const MaxZeroWaitHz = 16_000_000

// Registers is the FLASH register block used by the HAL.
type Registers struct {
	ACR mmio.Register

	taken bool
}

// Flash is the constrained FLASH peripheral.
type Flash struct {
	ACR *ACR
}

// ACR is the token granting access to the access-control register.
type ACR struct {
	r mmio.Register
}

// Constrain takes ownership of the FLASH block. It succeeds once per block.
func Constrain(regs *Registers) (*Flash, error) {
	if regs.taken {
		return nil, errcode.New(errcode.AlreadyTaken, "flash.constrain", "FLASH already constrained")
	}
	regs.taken = true
	return &Flash{ACR: &ACR{r: regs.ACR}}, nil
}

// WaitState reports whether one wait state is configured.
func (a *ACR) WaitState() bool { return mmio.HasBits(a.r, acrLatency) }

// SetWaitState programs LATENCY and spins until the read-back matches, as the
// reference manual requires before the new frequency may be used.
func (a *ACR) SetWaitState(on bool) {
	if on {
		mmio.SetBits(a.r, acrLatency)
		for !mmio.HasBits(a.r, acrLatency) {
		}
		return
	}
	mmio.ClearBits(a.r, acrLatency)
	for mmio.HasBits(a.r, acrLatency) {
	}
}

// SetPrefetch enables or disables the prefetch buffer.
func (a *ACR) SetPrefetch(on bool) {
	if on {
		mmio.SetBits(a.r, acrPrften)
	} else {
		mmio.ClearBits(a.r, acrPrften)
	}
}

// NeedsWaitState reports whether SYSCLK hz requires one wait state.
func NeedsWaitState(hz uint32) bool { return hz > MaxZeroWaitHz }
