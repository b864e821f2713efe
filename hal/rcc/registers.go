package rcc

import (
	"l0hal-go/errcode"
	"l0hal-go/hal/mmio"
)

// RCC_CR bits.
const (
	CR_HSI16ON   = 1 << 0
	CR_HSI16RDYF = 1 << 2
	CR_MSION     = 1 << 8
	CR_MSIRDY    = 1 << 9
	CR_HSEON     = 1 << 16
	CR_HSERDY    = 1 << 17
	CR_HSEBYP    = 1 << 18
	CR_PLLON     = 1 << 24
	CR_PLLRDY    = 1 << 25
)

// RCC_CFGR fields.
var (
	CFGR_SW     = mmio.Field{Pos: 0, Width: 2}
	CFGR_SWS    = mmio.Field{Pos: 2, Width: 2}
	CFGR_HPRE   = mmio.Field{Pos: 4, Width: 4}
	CFGR_PPRE1  = mmio.Field{Pos: 8, Width: 3}
	CFGR_PPRE2  = mmio.Field{Pos: 11, Width: 3}
	CFGR_PLLMUL = mmio.Field{Pos: 18, Width: 4}
	CFGR_PLLDIV = mmio.Field{Pos: 22, Width: 2}
)

// CFGR_PLLSRC selects HSE (set) or HSI16 (clear) as PLL input.
const CFGR_PLLSRC = 1 << 16

// CCIPR_LPUART1SEL is the LPUART1 kernel clock selector.
var CCIPR_LPUART1SEL = mmio.Field{Pos: 10, Width: 2}

// Registers is the slice of the RCC block this HAL drives.
type Registers struct {
	CR    mmio.Register
	CFGR  mmio.Register
	CCIPR mmio.Register

	AHBENR, AHBRSTR   mmio.Register
	APB1ENR, APB1RSTR mmio.Register
	APB2ENR, APB2RSTR mmio.Register
	IOPENR, IOPRSTR   mmio.Register

	taken  bool
	frozen bool
}

// RCC is the constrained peripheral: one token per bus gate, the kernel
// clock selector and the clock configuration builder.
type RCC struct {
	AHB    *AHB
	APB1   *APB1
	APB2   *APB2
	IOP    *IOP
	CCIPR  *CCIPR
	Config Config
}

// Constrain takes ownership of the RCC block and hands out its tokens. It
// succeeds once per register block; the tokens are the only path to the
// enable/reset registers afterwards.
func Constrain(regs *Registers) (*RCC, error) {
	if regs.taken {
		return nil, errcode.New(errcode.AlreadyTaken, "rcc.constrain", "RCC already constrained")
	}
	regs.taken = true
	return &RCC{
		AHB:    &AHB{gate{regs.AHBENR, regs.AHBRSTR}},
		APB1:   &APB1{gate{regs.APB1ENR, regs.APB1RSTR}},
		APB2:   &APB2{gate{regs.APB2ENR, regs.APB2RSTR}},
		IOP:    &IOP{gate{regs.IOPENR, regs.IOPRSTR}},
		CCIPR:  &CCIPR{r: regs.CCIPR},
		Config: Config{regs: regs},
	}, nil
}
