package pool

// Chunked is a growable pool. When its free list runs dry it allocates one
// more chunk of perChunk elements; chunks are kept until the pool is dropped,
// even across Reset.
type Chunked[T any] struct {
	a arena[T]
}

// NewChunked creates a pool whose elements are blocks of elemLen values of T,
// allocated perChunk elements at a time. No chunk is allocated up front.
func NewChunked[T any](elemLen, perChunk int) (*Chunked[T], error) {
	p := &Chunked[T]{}
	if err := p.a.init(elemLen, perChunk, 0); err != nil {
		return nil, err
	}
	return p, nil
}

// Acquire pops the head of the free list, growing by one chunk first when
// the list is empty. The returned block is zeroed. It returns NilRef only
// when the slot table cannot be indexed any further.
func (p *Chunked[T]) Acquire() Ref { return p.a.acquire() }

// Release returns r to the free list. It reports false if r is not a live
// element of this pool, which makes double releases harmless.
func (p *Chunked[T]) Release(r Ref) bool { return p.a.release(r) }

// Get returns the block for r, or nil if r is not live.
func (p *Chunked[T]) Get(r Ref) []T { return p.a.get(r) }

// Reset logically frees every element without returning chunk memory.
// Refs handed out before the reset must not be used afterwards.
func (p *Chunked[T]) Reset() { p.a.reset() }

// Chunks returns how many chunks have been allocated.
func (p *Chunked[T]) Chunks() int { return len(p.a.chunks) }

// Len returns the number of live elements.
func (p *Chunked[T]) Len() int { return p.a.live }

// Cap returns the number of elements the allocated chunks can hold.
func (p *Chunked[T]) Cap() int { return len(p.a.next) }

// ElemLen returns the number of values of T in one element.
func (p *Chunked[T]) ElemLen() int { return p.a.elemLen }
