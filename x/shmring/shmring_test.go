package shmring

import "testing"

func TestOrderAcrossWrap(t *testing.T) {
	r := New(64)

	const N = 2000
	src := make([]byte, N)
	for i := range src {
		src[i] = byte(i)
	}

	// The producer offers 7 bytes per round and the consumer drains up to 17,
	// so indices wrap at every alignment.
	dst := make([]byte, 0, N)
	next := 0
	for len(dst) < N {
		for k := 0; k < 7 && next < N; k++ {
			if !r.Put(src[next]) {
				break
			}
			next++
		}
		var tmp [17]byte
		n := r.ReadInto(tmp[:])
		dst = append(dst, tmp[:n]...)
	}

	if r.Drops() != 0 {
		t.Fatalf("drops = %d", r.Drops())
	}
	for i := 0; i < N; i++ {
		if dst[i] != src[i] {
			t.Fatalf("mismatch at %d: got=%d want=%d", i, dst[i], src[i])
		}
	}
}

func TestPutGetAndDrops(t *testing.T) {
	r := New(4)
	for i := 0; i < 4; i++ {
		if !r.Put(byte(i)) {
			t.Fatalf("Put %d refused", i)
		}
	}
	if r.Put(9) || r.Drops() != 1 || r.Available() != 4 {
		t.Fatalf("full ring: drops=%d available=%d", r.Drops(), r.Available())
	}
	for i := 0; i < 4; i++ {
		b, ok := r.Get()
		if !ok || b != byte(i) {
			t.Fatalf("Get = %d %v, want %d", b, ok, i)
		}
	}
	if _, ok := r.Get(); ok || r.Available() != 0 {
		t.Fatal("empty ring returned data")
	}
}

func TestReadableEdge(t *testing.T) {
	r := New(8)
	select {
	case <-r.Readable():
		t.Fatal("unexpected Readable on empty ring")
	default:
	}
	for _, b := range []byte{1, 2, 3} {
		r.Put(b)
	}
	select {
	case <-r.Readable():
	default:
		t.Fatal("expected Readable")
	}
	r.Put(4)
	select {
	case <-r.Readable():
		t.Fatal("Readable fired without an empty -> non-empty edge")
	default:
	}
}

func TestNewRejectsOddSizes(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("New(6) did not panic")
		}
	}()
	New(6)
}
