package rccsim

import (
	"testing"

	"l0hal-go/hal/mmio"
	"l0hal-go/hal/rcc"
)

func TestResetState(t *testing.T) {
	s := New()
	if s.SYSCLK() != MSIFreq || s.WaitState() {
		t.Fatalf("sysclk=%v ws=%v", s.SYSCLK(), s.WaitState())
	}
	if !mmio.HasBits(s.CR, rcc.CR_MSIRDY) {
		t.Fatal("MSI not ready at reset")
	}
}

func TestReadyFlagsFollowEnables(t *testing.T) {
	s := New()
	s.CR.Set(rcc.CR_MSION | rcc.CR_HSI16RDYF) // ready bits are read-only
	if s.CR.Get()&rcc.CR_HSI16RDYF != 0 {
		t.Fatal("HSI16RDYF writable")
	}
	mmio.SetBits(s.CR, rcc.CR_HSI16ON)
	if !mmio.HasBits(s.CR, rcc.CR_HSI16RDYF) {
		t.Fatal("HSI16 not ready after enable")
	}

	s.PLLLockDelay = 2
	mmio.SetBits(s.CR, rcc.CR_PLLON)
	reads := 0
	for !mmio.HasBits(s.CR, rcc.CR_PLLRDY) {
		reads++
	}
	if reads != 2 {
		t.Fatalf("PLL locked after %d extra reads, want 2", reads)
	}
	mmio.ClearBits(s.CR, rcc.CR_PLLON)
	if mmio.HasBits(s.CR, rcc.CR_PLLRDY) {
		t.Fatal("PLLRDY survived PLLON clear")
	}
}

func TestViolations(t *testing.T) {
	s := New()
	rcc.CFGR_SW.Write(s.CFGR, uint32(rcc.SourcePLL))
	if len(s.Violations) != 1 {
		t.Fatalf("switch to an off PLL not flagged: %v", s.Violations)
	}
	if rcc.CFGR_SWS.Read(s.CFGR) != uint32(rcc.SourceMSI) {
		t.Fatal("SWS moved to a source that is not ready")
	}

	s = New()
	s.StartOnPLL(rcc.PLLMul4, rcc.PLLDiv2)
	rcc.CFGR_PLLMUL.Write(s.CFGR, uint32(rcc.PLLMul8))
	s.ACR.Set(0)
	mmio.ClearBits(s.CR, rcc.CR_PLLON)
	if len(s.Violations) != 3 {
		t.Fatalf("want reprogram, latency and source-off violations, got %v", s.Violations)
	}
}

func TestPollLimit(t *testing.T) {
	s := New()
	s.PollLimit = 5
	defer func() {
		if r := recover(); r != ErrStillWaiting {
			t.Fatalf("recover() = %v", r)
		}
	}()
	for !mmio.HasBits(s.CR, rcc.CR_PLLRDY) {
	}
}
