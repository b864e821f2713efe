package rcc_test

import (
	"testing"

	"l0hal-go/hal/rcc"
)

func TestGates_TouchOnlyTheirBit(t *testing.T) {
	s, r, _ := setup(t)
	s.RCC.APB1ENR.Set(uint32(rcc.APB1PWR))
	s.RCC.IOPENR.Set(uint32(rcc.IOPA))

	r.APB1.Enable(rcc.APB1I2C1)
	r.IOP.Enable(rcc.IOPC)
	r.APB2.Enable(rcc.APB2SYSCFG)
	r.AHB.Enable(rcc.AHBDMA)

	if got, want := s.RCC.APB1ENR.Get(), uint32(rcc.APB1PWR|rcc.APB1I2C1); got != want {
		t.Fatalf("APB1ENR = %#x, want %#x", got, want)
	}
	if got, want := s.RCC.IOPENR.Get(), uint32(rcc.IOPA|rcc.IOPC); got != want {
		t.Fatalf("IOPENR = %#x, want %#x", got, want)
	}
	if s.RCC.APB2ENR.Get() != uint32(rcc.APB2SYSCFG) || s.RCC.AHBENR.Get() != uint32(rcc.AHBDMA) {
		t.Fatalf("APB2ENR=%#x AHBENR=%#x", s.RCC.APB2ENR.Get(), s.RCC.AHBENR.Get())
	}
}

func TestGates_ResetPulses(t *testing.T) {
	s, r, _ := setup(t)
	s.RCC.APB1RSTR.Set(uint32(rcc.APB1USB))
	s.Trace = nil

	r.APB1.Reset(rcc.APB1LPUART1)

	if len(s.Trace) != 2 {
		t.Fatalf("want set+clear, got %v", s.Trace)
	}
	set, clr := s.Trace[0], s.Trace[1]
	if set.Reg != "APB1RSTR" || set.New != uint32(rcc.APB1USB|rcc.APB1LPUART1) {
		t.Fatalf("assert write = %v", set)
	}
	if clr.New != uint32(rcc.APB1USB) {
		t.Fatalf("release write = %v", clr)
	}
}

func TestCCIPR_LPUARTSelection(t *testing.T) {
	s, r, _ := setup(t)
	s.CCIPR.Poke(0x3) // USART1SEL bits
	r.CCIPR.SetLPUARTClock(rcc.LPUARTClockHSI16)
	if got := s.CCIPR.Peek(); got != 0x3|2<<10 {
		t.Fatalf("CCIPR = %#x", got)
	}
	if r.CCIPR.LPUARTClock() != rcc.LPUARTClockHSI16 {
		t.Fatal("read-back mismatch")
	}
}
