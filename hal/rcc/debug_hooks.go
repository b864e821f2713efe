//go:build rccdebug

package rcc

import "l0hal-go/x/conv"

// dbgStep prints each sequencer step with the registers it starts from.
func dbgStep(step string, r *Registers) {
	println("rcc:", step, "cr="+conv.Hex32(r.CR.Get()), "cfgr="+conv.Hex32(r.CFGR.Get()))
}
