package pool

import (
	"errors"
	"testing"
)

// go test -run ^TestChunkedGrowth$ ./pool -count 1
func TestChunkedGrowth(t *testing.T) {
	p, err := NewChunked[byte](8, 4)
	if err != nil {
		t.Fatalf("NewChunked: %v", err)
	}
	refs := make([]Ref, 0, 5)
	for i := 0; i < 5; i++ {
		r := p.Acquire()
		if r == NilRef {
			t.Fatalf("acquire %d returned NilRef", i)
		}
		refs = append(refs, r)
	}
	if p.Chunks() != 2 {
		t.Fatalf("expected 2 chunks after 5 acquires, got %d", p.Chunks())
	}
	for _, r := range refs {
		if !p.Release(r) {
			t.Fatalf("release of %d failed", r)
		}
	}
	p.Reset()
	for i := 0; i < 5; i++ {
		if p.Acquire() == NilRef {
			t.Fatalf("acquire %d after reset returned NilRef", i)
		}
	}
	if p.Chunks() != 2 {
		t.Errorf("reset cycle allocated a new chunk: %d chunks", p.Chunks())
	}
	if p.Len() != 5 {
		t.Errorf("expected 5 live elements, got %d", p.Len())
	}
}

// go test -run ^TestChunkedStableBlocks$ ./pool -count 1
func TestChunkedStableBlocks(t *testing.T) {
	p, _ := NewChunked[int](2, 2)
	first := p.Acquire()
	blk := p.Get(first)
	blk[0], blk[1] = 7, 9
	for i := 0; i < 10; i++ {
		p.Acquire()
	}
	again := p.Get(first)
	if &again[0] != &blk[0] {
		t.Fatal("block moved after the pool grew")
	}
	if again[0] != 7 || again[1] != 9 {
		t.Errorf("block contents changed: %v", again)
	}
}

// go test -run ^TestChunkedRelease$ ./pool -count 1
func TestChunkedRelease(t *testing.T) {
	p, _ := NewChunked[byte](4, 4)
	r := p.Acquire()
	copy(p.Get(r), []byte{1, 2, 3, 4})

	t.Run("DoubleRelease", func(t *testing.T) {
		if !p.Release(r) {
			t.Fatal("first release failed")
		}
		if p.Release(r) {
			t.Fatal("second release of the same ref succeeded")
		}
		if p.Get(r) != nil {
			t.Fatal("Get returned a block for a released ref")
		}
	})

	t.Run("ReuseIsZeroed", func(t *testing.T) {
		r2 := p.Acquire()
		if r2 != r {
			t.Fatalf("expected LIFO reuse of %d, got %d", r, r2)
		}
		for i, b := range p.Get(r2) {
			if b != 0 {
				t.Fatalf("byte %d not zeroed: %d", i, b)
			}
		}
	})

	t.Run("UnknownRef", func(t *testing.T) {
		if p.Release(NilRef) || p.Release(Ref(1000)) {
			t.Fatal("release of an unknown ref succeeded")
		}
		if p.Get(Ref(1000)) != nil {
			t.Fatal("Get of an unknown ref returned a block")
		}
	})
}

// go test -run ^TestStaticExhaustion$ ./pool -count 1
func TestStaticExhaustion(t *testing.T) {
	p, err := NewStatic[uint64](2, 3, 2)
	if err != nil {
		t.Fatalf("NewStatic: %v", err)
	}
	if p.Cap() != 6 {
		t.Fatalf("expected cap 6, got %d", p.Cap())
	}
	var refs []Ref
	for i := 0; i < 6; i++ {
		r := p.Acquire()
		if r == NilRef {
			t.Fatalf("acquire %d failed before the limit", i)
		}
		refs = append(refs, r)
	}
	if p.Acquire() != NilRef {
		t.Fatal("acquire past the limit succeeded")
	}
	if p.Acquire() != NilRef {
		t.Fatal("exhaustion is not permanent while nothing is released")
	}
	if p.Blocks() != 2 {
		t.Errorf("expected 2 blocks, got %d", p.Blocks())
	}
	p.Release(refs[3])
	if p.Acquire() != refs[3] {
		t.Error("released element was not handed out again")
	}
	p.Reset()
	if p.Len() != 0 {
		t.Errorf("expected 0 live after reset, got %d", p.Len())
	}
	for i := 0; i < 6; i++ {
		if p.Acquire() == NilRef {
			t.Fatalf("acquire %d after reset failed", i)
		}
	}
}

// go test -run ^TestInvalidSizes$ ./pool -count 1
func TestInvalidSizes(t *testing.T) {
	if _, err := NewChunked[byte](0, 4); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("zero element length: got %v", err)
	}
	if _, err := NewChunked[byte](4, 0); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("zero chunk size: got %v", err)
	}
	if _, err := NewStatic[byte](4, 4, 0); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("zero block count: got %v", err)
	}
}

func BenchmarkChunkedAcquireRelease(b *testing.B) {
	p, _ := NewChunked[byte](16, 1024)
	b.ReportAllocs()
	for b.Loop() {
		r := p.Acquire()
		p.Release(r)
	}
}
