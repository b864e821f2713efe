package rcc

import (
	"l0hal-go/errcode"
	"l0hal-go/hal/flash"
	"l0hal-go/hal/mmio"
)

const opFreeze = "rcc.freeze"

// Freeze resolves the configuration and applies it to the RCC, returning the
// snapshot peripherals compute their timings from. Nothing is written unless
// resolution succeeds. A register block can be frozen once.
//
// Every wait on a ready or lock flag spins without a timeout: a flag that
// never sets is a hardware fault and the call does not return.
func (c Config) Freeze(acr *flash.ACR) (*Clocks, error) {
	if c.regs == nil {
		return nil, errcode.New(errcode.NotConstrained, opFreeze, "config was not obtained from rcc.Constrain")
	}
	if acr == nil {
		return nil, errcode.New(errcode.NotConstrained, opFreeze, "FLASH ACR token is nil")
	}
	if c.regs.frozen {
		return nil, errcode.New(errcode.Frozen, opFreeze, "clock tree already frozen")
	}
	t, err := c.Resolve()
	if err != nil {
		return nil, err
	}
	apply(c.regs, acr, t)
	c.regs.frozen = true
	return newClocks(t), nil
}

// MustFreeze is Freeze for firmware start-up, where a bad clock
// configuration leaves nothing sensible to run.
func (c Config) MustFreeze(acr *flash.ACR) *Clocks {
	clk, err := c.Freeze(acr)
	if err != nil {
		panic(err.Error())
	}
	return clk
}

// apply programs the tree. The order keeps SYSCLK on a running source at
// all times and keeps flash latency at or above what the current frequency
// needs.
func apply(r *Registers, acr *flash.ACR, t Tree) {
	// HSEBYP only latches while HSE is stopped, so an HSE left running in the
	// other mode has to come down first.
	restartHSE := t.Input == SourceHSE && mmio.HasBits(r.CR, CR_HSEON) &&
		mmio.HasBits(r.CR, CR_HSEBYP) != t.HSEBypass

	// Move off the PLL so it can be reprogrammed, and off HSE if it restarts.
	if sws := Source(CFGR_SWS.Read(r.CFGR)); sws == SourcePLL || (restartHSE && sws == SourceHSE) {
		dbgStep("park on HSI16", r)
		mmio.SetBits(r.CR, CR_HSI16ON)
		for !mmio.HasBits(r.CR, CR_HSI16RDYF) {
		}
		CFGR_SW.Write(r.CFGR, uint32(SourceHSI16))
		for Source(CFGR_SWS.Read(r.CFGR)) != SourceHSI16 {
		}
	}

	if mmio.HasBits(r.CR, CR_PLLON) {
		dbgStep("pll off", r)
		mmio.ClearBits(r.CR, CR_PLLON)
		for mmio.HasBits(r.CR, CR_PLLRDY) {
		}
	}

	if restartHSE {
		dbgStep("hse off", r)
		mmio.ClearBits(r.CR, CR_HSEON)
		for mmio.HasBits(r.CR, CR_HSERDY) {
		}
	}

	if t.FlashWaitState && !acr.WaitState() {
		dbgStep("flash latency 1", r)
		acr.SetWaitState(true)
	}

	if t.PLL {
		dbgStep("pll program", r)
		v := r.CFGR.Get()
		v = CFGR_PLLMUL.Put(v, uint32(t.PLLMul))
		v = CFGR_PLLDIV.Put(v, uint32(t.PLLDiv))
		if t.Input == SourceHSE {
			v |= CFGR_PLLSRC
		} else {
			v &^= CFGR_PLLSRC
		}
		r.CFGR.Set(v)
	}

	on, ready := t.oscillator()
	if t.Input == SourceHSE && !mmio.HasBits(r.CR, CR_HSEON) && mmio.HasBits(r.CR, CR_HSEBYP) != t.HSEBypass {
		if t.HSEBypass {
			mmio.SetBits(r.CR, CR_HSEBYP)
		} else {
			mmio.ClearBits(r.CR, CR_HSEBYP)
		}
	}
	if t.PLL {
		on |= CR_PLLON
	}
	dbgStep("oscillators on", r)
	mmio.SetBits(r.CR, on)
	for !mmio.HasBits(r.CR, ready) {
	}
	if t.PLL {
		for !mmio.HasBits(r.CR, CR_PLLRDY) {
		}
	}

	dbgStep("switch", r)
	sw := t.SW()
	v := r.CFGR.Get()
	v = CFGR_SW.Put(v, uint32(sw))
	v = CFGR_HPRE.Put(v, uint32(t.HPRE))
	v = CFGR_PPRE1.Put(v, uint32(t.PPRE1))
	v = CFGR_PPRE2.Put(v, uint32(t.PPRE2))
	r.CFGR.Set(v)
	for Source(CFGR_SWS.Read(r.CFGR)) != sw {
	}

	if !t.FlashWaitState && acr.WaitState() {
		dbgStep("flash latency 0", r)
		acr.SetWaitState(false)
	}

	off := uint32(CR_MSION)
	if t.Input == SourceHSE {
		off |= CR_HSI16ON
	} else {
		off |= CR_HSEON
	}
	mmio.ClearBits(r.CR, off)
	dbgStep("done", r)
}
