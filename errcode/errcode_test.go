package errcode

import (
	"errors"
	"testing"
)

func TestCodesAreStableStrings(t *testing.T) {
	cases := map[string]Code{
		"clock_unreachable":   Unreachable,
		"over_ceiling":        OverCeiling,
		"target_above_source": TargetAboveSource,
		"clock_frozen":        Frozen,
		"not_constrained":     NotConstrained,
		"already_taken":       AlreadyTaken,
		"pin_in_use":          PinInUse,
		"invalid_pinout":      InvalidPinout,
		"bus_error":           BusError,
		"arbitration_lost":    Arbitration,
		"nack":                Nack,
		"invalid_params":      InvalidParams,
	}
	for want, c := range cases {
		if c.Error() != want {
			t.Fatalf("code %q mismatch: got %q", want, c.Error())
		}
	}
}

func TestE_FormatsOpCodeAndMessage(t *testing.T) {
	e := New(OverCeiling, "rcc.resolve", "SYSCLK 32MHz above 24MHz")
	if got, want := e.Error(), "rcc.resolve: over_ceiling: SYSCLK 32MHz above 24MHz"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if (&E{C: Nack}).Error() != "nack" {
		t.Fatalf("bare code formatting changed")
	}
}

func TestOf_AndErrorsIs(t *testing.T) {
	cause := errors.New("boom")
	e := &E{C: BusError, Op: "i2c.tx", Err: cause}

	if Of(nil) != OK {
		t.Fatal("Of(nil) != OK")
	}
	if Of(Nack) != Nack {
		t.Fatal("Of(Code) lost the code")
	}
	if Of(e) != BusError {
		t.Fatalf("Of(*E) = %q", Of(e))
	}
	if Of(cause) != Error {
		t.Fatal("plain errors must map to Error")
	}
	if !errors.Is(e, BusError) {
		t.Fatal("errors.Is(*E, code) should match")
	}
	if errors.Is(e, Nack) {
		t.Fatal("errors.Is matched the wrong code")
	}
	if !errors.Is(e, cause) {
		t.Fatal("cause not reachable through Unwrap")
	}
}
