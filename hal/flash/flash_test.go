package flash

import (
	"testing"

	"l0hal-go/errcode"
	"l0hal-go/hal/mmio"
)

func TestConstrainOnce(t *testing.T) {
	regs := &Registers{ACR: mmio.NewReg("ACR", 0)}
	if _, err := Constrain(regs); err != nil {
		t.Fatalf("first constrain: %v", err)
	}
	if _, err := Constrain(regs); errcode.Of(err) != errcode.AlreadyTaken {
		t.Fatalf("second constrain: got %v want already_taken", err)
	}
}

func TestWaitStateAndPrefetch(t *testing.T) {
	acr := mmio.NewReg("ACR", 0)
	f, err := Constrain(&Registers{ACR: acr})
	if err != nil {
		t.Fatal(err)
	}
	f.ACR.SetPrefetch(true)
	f.ACR.SetWaitState(true)
	if acr.Peek() != acrLatency|acrPrften || !f.ACR.WaitState() {
		t.Fatalf("ACR = %#x", acr.Peek())
	}
	f.ACR.SetWaitState(false)
	if acr.Peek() != acrPrften || f.ACR.WaitState() {
		t.Fatalf("ACR = %#x after clearing latency", acr.Peek())
	}
}

func TestNeedsWaitState(t *testing.T) {
	if NeedsWaitState(16_000_000) {
		t.Fatal("16 MHz runs without a wait state")
	}
	if !NeedsWaitState(16_000_001) {
		t.Fatal("above 16 MHz needs a wait state")
	}
}
