// Package pool provides fixed-size block allocators with O(1) acquire and
// release. Every element is a block of elemLen values of T, addressed by a Ref
// into the pool's slot table. Free slots are linked through that table, so the
// element storage itself never doubles as list bookkeeping.
package pool

import (
	"errors"
	"math"
)

// Ref identifies an element acquired from a pool. It is the element's slot
// index and stays valid until the element is released or the pool is reset.
type Ref int32

// NilRef is returned when a pool cannot hand out an element.
const NilRef Ref = -1

// ErrInvalidSize is returned by the constructors when the element length,
// chunk size or block count is not positive.
var ErrInvalidSize = errors.New("pool: sizes must be positive")

const (
	slotEnd  int32 = -1 // terminates the free list
	slotLive int32 = -2 // marks an acquired slot
)

// arena is the storage shared by Chunked and Static. Storage grows one chunk
// at a time and chunks are never reallocated, so blocks keep their address
// while they are live.
type arena[T any] struct {
	chunks    [][]T
	next      []int32 // free-list link per slot, or slotLive
	head      int32
	live      int
	elemLen   int
	perChunk  int
	maxChunks int // 0 means unbounded
}

func (a *arena[T]) init(elemLen, perChunk, maxChunks int) error {
	if elemLen <= 0 || perChunk <= 0 || maxChunks < 0 {
		return ErrInvalidSize
	}
	a.elemLen = elemLen
	a.perChunk = perChunk
	a.maxChunks = maxChunks
	a.head = slotEnd
	return nil
}

// grow appends one chunk and links its slots in front of the free list.
func (a *arena[T]) grow() bool {
	if a.maxChunks > 0 && len(a.chunks) >= a.maxChunks {
		return false
	}
	start := len(a.next)
	if start+a.perChunk > math.MaxInt32 {
		return false
	}
	a.chunks = append(a.chunks, make([]T, a.elemLen*a.perChunk))
	for i := 0; i < a.perChunk; i++ {
		a.next = append(a.next, int32(start+i+1))
	}
	a.next[len(a.next)-1] = a.head
	a.head = int32(start)
	return true
}

func (a *arena[T]) acquire() Ref {
	if a.head == slotEnd && !a.grow() {
		return NilRef
	}
	r := a.head
	a.head = a.next[r]
	a.next[r] = slotLive
	a.live++
	blk := a.block(Ref(r))
	clear(blk)
	return Ref(r)
}

func (a *arena[T]) release(r Ref) bool {
	if !a.isLive(r) {
		return false
	}
	a.next[r] = a.head
	a.head = int32(r)
	a.live--
	return true
}

// reset frees every slot and relinks the free list in slot order.
func (a *arena[T]) reset() {
	n := len(a.next)
	for i := 0; i < n; i++ {
		a.next[i] = int32(i + 1)
	}
	if n == 0 {
		a.head = slotEnd
	} else {
		a.next[n-1] = slotEnd
		a.head = 0
	}
	a.live = 0
}

func (a *arena[T]) isLive(r Ref) bool {
	return r >= 0 && int(r) < len(a.next) && a.next[r] == slotLive
}

func (a *arena[T]) block(r Ref) []T {
	c := int(r) / a.perChunk
	o := (int(r) % a.perChunk) * a.elemLen
	return a.chunks[c][o : o+a.elemLen : o+a.elemLen]
}

func (a *arena[T]) get(r Ref) []T {
	if !a.isLive(r) {
		return nil
	}
	return a.block(r)
}
