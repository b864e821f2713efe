package rcc

import "l0hal-go/hal/mmio"

// LPUARTClock is the LPUART1 kernel clock selection in CCIPR.
type LPUARTClock uint8

const (
	LPUARTClockAPB LPUARTClock = iota
	LPUARTClockSYSCLK
	LPUARTClockHSI16
	LPUARTClockLSE
)

// CCIPR is the token for the peripheral independent clock register.
type CCIPR struct {
	r mmio.Register
}

// SetLPUARTClock selects the LPUART1 kernel clock. Only the LPUART1SEL field
// is written.
func (c *CCIPR) SetLPUARTClock(sel LPUARTClock) {
	CCIPR_LPUART1SEL.Write(c.r, uint32(sel))
}

// LPUARTClock returns the current LPUART1 kernel clock selection.
func (c *CCIPR) LPUARTClock() LPUARTClock {
	return LPUARTClock(CCIPR_LPUART1SEL.Read(c.r))
}
