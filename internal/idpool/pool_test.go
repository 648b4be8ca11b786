package idpool

import (
	"testing"
)

func TestPoolAcquireAscending(t *testing.T) {
	p := New(1, 100)

	for i := uint32(1); i <= 100; i++ {
		n, err := p.Acquire()
		if err != nil {
			t.Fatalf("pool exhausted prematurely at %d: %v", i, err)
		}
		if n != i {
			t.Fatalf("expected ascending ids, got %d want %d", n, i)
		}
	}
	if _, err := p.Acquire(); err != ErrExhausted {
		t.Fatalf("expected ErrExhausted on full pool, got %v", err)
	}
}

func TestPoolReleaseLIFO(t *testing.T) {
	p := New(1, 10)
	var acquired []uint32
	for i := 0; i < 10; i++ {
		n, err := p.Acquire()
		if err != nil {
			t.Fatal(err)
		}
		acquired = append(acquired, n)
	}
	for i := len(acquired) - 1; i >= 0; i-- {
		p.Release(acquired[i])
	}
	for i := uint32(1); i <= 10; i++ {
		n, err := p.Acquire()
		if err != nil {
			t.Fatalf("pool should be fully reusable after release: %v", err)
		}
		if n != i {
			t.Fatalf("got %d want %d after full release/reacquire cycle", n, i)
		}
	}
}

func TestPoolReleaseOutOfOrder(t *testing.T) {
	p := New(1, 4)
	ids := make([]uint32, 4)
	for i := range ids {
		n, err := p.Acquire()
		if err != nil {
			t.Fatal(err)
		}
		ids[i] = n
	}

	// Release the middle one first; it can't be reused until the ids
	// above it are also released, since the pool keeps a contiguous
	// high-water mark.
	p.Release(ids[1])
	if _, err := p.Acquire(); err != ErrExhausted {
		t.Fatalf("expected pool to stay full until contiguous run unwinds, got %v", err)
	}

	p.Release(ids[3])
	p.Release(ids[2])

	n, err := p.Acquire()
	if err != nil {
		t.Fatalf("expected an id to become available: %v", err)
	}
	if n != ids[1] {
		t.Fatalf("got %d want %d (the released id)", n, ids[1])
	}
}

func TestPoolNeverDoubleIssues(t *testing.T) {
	p := New(1, 0xFFFE)
	seen := make(map[uint32]bool)

	for i := 0; i < 5000; i++ {
		n, err := p.Acquire()
		if err != nil {
			t.Fatal(err)
		}
		if seen[n] {
			t.Fatalf("id %d issued twice without an intervening release", n)
		}
		seen[n] = true
		if i%3 == 0 {
			p.Release(n)
			delete(seen, n)
		}
	}
}
