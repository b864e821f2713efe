package conv

import "testing"

func TestUtoaAndAppend(t *testing.T) {
	var b [20]byte
	if got := string(Utoa(b[:], 0)); got != "0" {
		t.Fatalf("Utoa(0) = %q", got)
	}
	if got := string(Utoa(b[:], 32_000_000)); got != "32000000" {
		t.Fatalf("Utoa = %q", got)
	}
	if got := string(AppendUint([]byte("hz="), 16_000_000)); got != "hz=16000000" {
		t.Fatalf("AppendUint = %q", got)
	}
	if Uitoa(18446744073709551615) != "18446744073709551615" {
		t.Fatal("Uitoa max uint64")
	}
}

func TestHex(t *testing.T) {
	if got := Hex32(0x0300); got != "0x00000300" {
		t.Fatalf("Hex32 = %q", got)
	}
	if got := string(U32Hex(make([]byte, 4), 1)); got != "" {
		t.Fatalf("short buffer should yield empty, got %q", got)
	}
}
