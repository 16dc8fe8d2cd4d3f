// Package hashmap implements a separate-chaining hash map over fixed-size
// byte keys and values. Keys, values and chain nodes are all drawn from
// pools, and a dense record array allows iteration without walking buckets.
//
// Callers that already hold a 64-bit hash of a key can insert, look up and
// remove through the *ByHash variants to skip hashing the key again.
package hashmap

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/edwinsyarief/archecs/pool"
)

// MaxElements is the largest element ceiling a Map accepts.
const MaxElements = 26_339_984

const (
	// DefaultLoadFactor is the load factor used when none is configured.
	DefaultLoadFactor float32 = 0.75
	defaultBuckets            = 16
	elementsPerChunk          = 64
)

var (
	// ErrInvalidSize is returned when the key or value size is not positive.
	ErrInvalidSize = errors.New("hashmap: key and value sizes must be positive")
	// ErrInvalidCapacity is returned when the element ceiling is out of range.
	ErrInvalidCapacity = errors.New("hashmap: element ceiling out of range")
)

// Hash is the default key hasher.
func Hash(key []byte) uint64 { return xxhash.Sum64(key) }

type node struct {
	hash   uint64
	record int
	prev   pool.Ref
	next   pool.Ref
}

type bucket struct {
	head pool.Ref
	tail pool.Ref
}

type record struct {
	key   pool.Ref
	value pool.Ref
	node  pool.Ref
}

// Map is a pooled hash map with an element ceiling fixed at creation. The
// zero value is not usable; create maps with New.
type Map struct {
	hasher      func([]byte) uint64
	keys        *pool.Chunked[byte]
	values      *pool.Chunked[byte]
	nodes       *pool.Chunked[node]
	buckets     []bucket
	records     []record
	keySize     int
	valueSize   int
	maxElements int
	maxBuckets  int
	factor      float32
}

// Option configures a Map.
type Option func(*Map)

// WithHasher replaces the default xxhash hasher.
func WithHasher(h func([]byte) uint64) Option {
	return func(m *Map) {
		if h != nil {
			m.hasher = h
		}
	}
}

// WithLoadFactor sets the load factor that triggers a rehash.
func WithLoadFactor(f float32) Option {
	return func(m *Map) {
		if f > 0 {
			m.factor = f
		}
	}
}

// WithBuckets sets the initial bucket count, rounded up to a power of two.
func WithBuckets(n int) Option {
	return func(m *Map) {
		if n > 0 {
			m.buckets = make([]bucket, nextPow2(n))
		}
	}
}

// New creates a map for keys of keySize bytes and values of valueSize bytes
// holding at most maxElements entries.
func New(keySize, valueSize, maxElements int, opts ...Option) (*Map, error) {
	if keySize <= 0 || valueSize <= 0 {
		return nil, ErrInvalidSize
	}
	if maxElements <= 0 || maxElements > MaxElements {
		return nil, fmt.Errorf("%w: %d not in (0, %d]", ErrInvalidCapacity, maxElements, MaxElements)
	}
	m := &Map{
		hasher:      Hash,
		keySize:     keySize,
		valueSize:   valueSize,
		maxElements: maxElements,
		factor:      DefaultLoadFactor,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.buckets == nil {
		m.buckets = make([]bucket, defaultBuckets)
	}
	m.maxBuckets = nextPow2(int(float32(maxElements)/m.factor) + 1)
	if len(m.buckets) > m.maxBuckets {
		m.buckets = m.buckets[:m.maxBuckets]
	}
	resetBuckets(m.buckets)

	perChunk := min(elementsPerChunk, maxElements)
	var err error
	if m.keys, err = pool.NewChunked[byte](keySize, perChunk); err != nil {
		return nil, err
	}
	if m.values, err = pool.NewChunked[byte](valueSize, perChunk); err != nil {
		return nil, err
	}
	if m.nodes, err = pool.NewChunked[node](1, perChunk); err != nil {
		return nil, err
	}
	return m, nil
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.records) }

// MaxElements returns the element ceiling.
func (m *Map) MaxElements() int { return m.maxElements }

// Buckets returns the current bucket count.
func (m *Map) Buckets() int { return len(m.buckets) }

// KeySize returns the fixed key size in bytes.
func (m *Map) KeySize() int { return m.keySize }

// ValueSize returns the fixed value size in bytes.
func (m *Map) ValueSize() int { return m.valueSize }

// Insert adds key with a copy of value. It reports false for a key or value
// of the wrong size, a key that is already present, or a full map.
func (m *Map) Insert(key, value []byte) bool {
	return m.InsertByHash(m.hasher(key), key, value)
}

// InsertByHash is Insert with a precomputed hash of key.
func (m *Map) InsertByHash(hash uint64, key, value []byte) bool {
	if len(key) == 0 || len(key) != m.keySize || len(value) != m.valueSize {
		return false
	}
	if len(m.records) >= m.maxElements {
		return false
	}
	if m.find(hash, key) != pool.NilRef {
		return false
	}
	if float32(len(m.records)+1) > float32(len(m.buckets))*m.factor {
		m.grow()
	}

	kr := m.keys.Acquire()
	vr := m.values.Acquire()
	nr := m.nodes.Acquire()
	if kr == pool.NilRef || vr == pool.NilRef || nr == pool.NilRef {
		m.keys.Release(kr)
		m.values.Release(vr)
		m.nodes.Release(nr)
		return false
	}
	copy(m.keys.Get(kr), key)
	copy(m.values.Get(vr), value)

	n := m.node(nr)
	n.hash = hash
	n.record = len(m.records)
	m.records = append(m.records, record{key: kr, value: vr, node: nr})
	m.link(nr)
	return true
}

// Find returns the stored value for key, or nil if it is absent. The slice
// aliases pooled storage and may be written in place.
func (m *Map) Find(key []byte) []byte {
	return m.FindByHash(m.hasher(key), key)
}

// FindByHash is Find with a precomputed hash of key.
func (m *Map) FindByHash(hash uint64, key []byte) []byte {
	if len(key) != m.keySize {
		return nil
	}
	nr := m.find(hash, key)
	if nr == pool.NilRef {
		return nil
	}
	return m.values.Get(m.records[m.node(nr).record].value)
}

// Count returns 1 if key is present and 0 otherwise.
func (m *Map) Count(key []byte) int {
	if m.Find(key) == nil {
		return 0
	}
	return 1
}

// Remove deletes key. It reports false if key is absent.
func (m *Map) Remove(key []byte) bool {
	return m.RemoveByHash(m.hasher(key), key)
}

// RemoveByHash is Remove with a precomputed hash of key.
func (m *Map) RemoveByHash(hash uint64, key []byte) bool {
	if len(key) != m.keySize {
		return false
	}
	nr := m.find(hash, key)
	if nr == pool.NilRef {
		return false
	}
	m.unlink(nr)

	idx := m.node(nr).record
	rec := m.records[idx]
	m.keys.Release(rec.key)
	m.values.Release(rec.value)
	m.nodes.Release(nr)

	last := len(m.records) - 1
	if idx != last {
		moved := m.records[last]
		m.records[idx] = moved
		m.node(moved.node).record = idx
	}
	m.records = m.records[:last]
	return true
}

// At returns the key and value of the i-th entry in iteration order, or nils
// when i is out of range. Removal moves the last entry into the removed
// entry's position.
func (m *Map) At(i int) (key, value []byte) {
	if i < 0 || i >= len(m.records) {
		return nil, nil
	}
	rec := m.records[i]
	return m.keys.Get(rec.key), m.values.Get(rec.value)
}

// Clear removes every entry. Pooled storage is kept for reuse.
func (m *Map) Clear() {
	m.keys.Reset()
	m.values.Reset()
	m.nodes.Reset()
	m.records = m.records[:0]
	resetBuckets(m.buckets)
}

func (m *Map) node(r pool.Ref) *node {
	return &m.nodes.Get(r)[0]
}

func (m *Map) find(hash uint64, key []byte) pool.Ref {
	b := &m.buckets[hash&uint64(len(m.buckets)-1)]
	for nr := b.head; nr != pool.NilRef; {
		n := m.node(nr)
		if n.hash == hash && bytes.Equal(m.keys.Get(m.records[n.record].key), key) {
			return nr
		}
		nr = n.next
	}
	return pool.NilRef
}

// link appends the node to the tail of its bucket's chain.
func (m *Map) link(nr pool.Ref) {
	n := m.node(nr)
	b := &m.buckets[n.hash&uint64(len(m.buckets)-1)]
	n.prev = b.tail
	n.next = pool.NilRef
	if b.tail == pool.NilRef {
		b.head = nr
	} else {
		m.node(b.tail).next = nr
	}
	b.tail = nr
}

func (m *Map) unlink(nr pool.Ref) {
	n := m.node(nr)
	b := &m.buckets[n.hash&uint64(len(m.buckets)-1)]
	if n.prev == pool.NilRef {
		b.head = n.next
	} else {
		m.node(n.prev).next = n.next
	}
	if n.next == pool.NilRef {
		b.tail = n.prev
	} else {
		m.node(n.next).prev = n.prev
	}
	n.prev, n.next = pool.NilRef, pool.NilRef
}

// grow doubles the bucket count and relinks every node. Stored hashes are
// reused, so no key is hashed again.
func (m *Map) grow() {
	if len(m.buckets) >= m.maxBuckets {
		return
	}
	m.buckets = make([]bucket, len(m.buckets)*2)
	resetBuckets(m.buckets)
	for _, rec := range m.records {
		m.link(rec.node)
	}
}

func resetBuckets(bs []bucket) {
	for i := range bs {
		bs[i] = bucket{head: pool.NilRef, tail: pool.NilRef}
	}
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
