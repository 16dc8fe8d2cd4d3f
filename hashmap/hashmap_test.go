package hashmap

import (
	"encoding/binary"
	"errors"
	"testing"
)

func u64(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

func newMap(t *testing.T, maxElements int, opts ...Option) *Map {
	t.Helper()
	m, err := New(8, 8, maxElements, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

// go test -run ^TestInsertFind$ ./hashmap -count 1
func TestInsertFind(t *testing.T) {
	m := newMap(t, 16)
	if !m.Insert(u64(1), u64(100)) {
		t.Fatal("insert failed")
	}
	v := m.Find(u64(1))
	if v == nil || binary.LittleEndian.Uint64(v) != 100 {
		t.Fatalf("find returned %v", v)
	}
	if m.Find(u64(2)) != nil {
		t.Fatal("found a key that was never inserted")
	}

	t.Run("Duplicate", func(t *testing.T) {
		if m.Insert(u64(1), u64(200)) {
			t.Fatal("duplicate insert succeeded")
		}
		if binary.LittleEndian.Uint64(m.Find(u64(1))) != 100 {
			t.Fatal("duplicate insert overwrote the value")
		}
	})

	t.Run("WrongSizes", func(t *testing.T) {
		if m.Insert(nil, u64(1)) || m.Insert([]byte{1}, u64(1)) || m.Insert(u64(3), []byte{1}) {
			t.Fatal("insert with mismatched sizes succeeded")
		}
	})

	t.Run("InPlaceWrite", func(t *testing.T) {
		binary.LittleEndian.PutUint64(m.Find(u64(1)), 300)
		if binary.LittleEndian.Uint64(m.Find(u64(1))) != 300 {
			t.Fatal("value written through Find was lost")
		}
	})
}

// go test -run ^TestCeiling$ ./hashmap -count 1
func TestCeiling(t *testing.T) {
	m := newMap(t, 3)
	for i := uint64(0); i < 3; i++ {
		if !m.Insert(u64(i), u64(i)) {
			t.Fatalf("insert %d failed", i)
		}
	}
	if m.Insert(u64(9), u64(9)) {
		t.Fatal("insert past the ceiling succeeded")
	}
	m.Remove(u64(0))
	if !m.Insert(u64(9), u64(9)) {
		t.Fatal("insert after a removal failed")
	}
	if _, err := New(8, 8, MaxElements+1); !errors.Is(err, ErrInvalidCapacity) {
		t.Errorf("expected ErrInvalidCapacity, got %v", err)
	}
	if _, err := New(0, 8, 8); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("expected ErrInvalidSize, got %v", err)
	}
}

// go test -run ^TestRehash$ ./hashmap -count 1
func TestRehash(t *testing.T) {
	m := newMap(t, 1000, WithBuckets(2))
	for i := uint64(0); i < 500; i++ {
		if !m.Insert(u64(i), u64(i*3)) {
			t.Fatalf("insert %d failed", i)
		}
	}
	if m.Buckets() <= 2 {
		t.Fatalf("map never grew: %d buckets", m.Buckets())
	}
	if float32(m.Len()) > float32(m.Buckets())*DefaultLoadFactor {
		t.Errorf("load factor exceeded: %d entries in %d buckets", m.Len(), m.Buckets())
	}
	for i := uint64(0); i < 500; i++ {
		v := m.Find(u64(i))
		if v == nil || binary.LittleEndian.Uint64(v) != i*3 {
			t.Fatalf("entry %d lost or corrupted after rehash", i)
		}
	}
}

// go test -run ^TestCollisions$ ./hashmap -count 1
func TestCollisions(t *testing.T) {
	m := newMap(t, 64, WithHasher(func([]byte) uint64 { return 7 }))
	for i := uint64(0); i < 10; i++ {
		m.Insert(u64(i), u64(i))
	}
	if !m.Remove(u64(5)) || !m.Remove(u64(0)) || !m.Remove(u64(9)) {
		t.Fatal("removal from a shared chain failed")
	}
	if m.Remove(u64(5)) {
		t.Fatal("second removal succeeded")
	}
	for _, i := range []uint64{1, 2, 3, 4, 6, 7, 8} {
		if v := m.Find(u64(i)); v == nil || binary.LittleEndian.Uint64(v) != i {
			t.Fatalf("chain entry %d lost", i)
		}
	}
	if m.Count(u64(0)) != 0 || m.Count(u64(1)) != 1 {
		t.Error("Count disagrees with Find")
	}
}

// go test -run ^TestByHash$ ./hashmap -count 1
func TestByHash(t *testing.T) {
	m := newMap(t, 8)
	key := u64(77)
	h := Hash(key)
	if !m.InsertByHash(h, key, u64(1)) {
		t.Fatal("InsertByHash failed")
	}
	if m.Find(key) == nil {
		t.Fatal("entry inserted by hash is not found by key")
	}
	if m.FindByHash(h, key) == nil {
		t.Fatal("FindByHash failed")
	}
	if !m.RemoveByHash(h, key) || m.Len() != 0 {
		t.Fatal("RemoveByHash failed")
	}
}

// go test -run ^TestIteration$ ./hashmap -count 1
func TestIteration(t *testing.T) {
	m := newMap(t, 32)
	for i := uint64(0); i < 8; i++ {
		m.Insert(u64(i), u64(i+10))
	}
	m.Remove(u64(2))
	seen := map[uint64]uint64{}
	for i := 0; i < m.Len(); i++ {
		k, v := m.At(i)
		seen[binary.LittleEndian.Uint64(k)] = binary.LittleEndian.Uint64(v)
	}
	if len(seen) != 7 {
		t.Fatalf("expected 7 entries, iterated %d", len(seen))
	}
	if _, ok := seen[2]; ok {
		t.Fatal("removed key still iterated")
	}
	for k, v := range seen {
		if v != k+10 {
			t.Errorf("key %d maps to %d", k, v)
		}
	}
	// the moved record must still be reachable through its chain
	if m.Find(u64(7)) == nil {
		t.Error("record moved by removal is no longer found")
	}
	k, v := m.At(m.Len())
	if k != nil || v != nil {
		t.Error("out of range At returned data")
	}

	m.Clear()
	if m.Len() != 0 || m.Find(u64(1)) != nil {
		t.Error("Clear left entries behind")
	}
	if !m.Insert(u64(1), u64(1)) {
		t.Error("insert after Clear failed")
	}
}

func BenchmarkFind(b *testing.B) {
	m, _ := New(8, 8, 4096)
	for i := uint64(0); i < 4096; i++ {
		m.Insert(u64(i), u64(i))
	}
	key := u64(1234)
	b.ReportAllocs()
	for b.Loop() {
		_ = m.Find(key)
	}
}
