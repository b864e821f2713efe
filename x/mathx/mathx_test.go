package mathx

import "testing"

func TestClampAndBetween(t *testing.T) {
	if got := Clamp(300, 0, 255); got != 255 {
		t.Fatalf("Clamp high: %d", got)
	}
	if got := Clamp(-1, 255, 0); got != 0 {
		t.Fatalf("Clamp swapped bounds: %d", got)
	}
	if !Between(uint32(5), 10, 1) || Between(11, 1, 10) {
		t.Fatal("Between wrong")
	}
	if Min(3, 4) != 3 || Max(uint8(3), 4) != 4 {
		t.Fatal("Min/Max wrong")
	}
}

func TestIntegerDivision(t *testing.T) {
	if CeilDiv(uint32(7), 2) != 4 || CeilDiv(uint32(8), 2) != 4 {
		t.Fatal("CeilDiv wrong")
	}
	if RoundDiv(uint64(7), 2) != 4 || RoundDiv(uint64(5), 3) != 2 {
		t.Fatal("RoundDiv wrong")
	}
	if CeilDiv(uint32(1), 0) != 0 || RoundDiv(uint32(1), 0) != 0 {
		t.Fatal("division by zero must yield 0")
	}
	if q, ok := DivExact(uint32(64_000_000), 8_000_000); !ok || q != 8 {
		t.Fatalf("DivExact exact: %d %v", q, ok)
	}
	if _, ok := DivExact(uint32(40_000_000), 16_000_000); ok {
		t.Fatal("DivExact reported exact for a remainder")
	}
	if _, ok := DivExact(uint32(1), 0); ok {
		t.Fatal("DivExact by zero must fail")
	}
}
