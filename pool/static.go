package pool

// Static is a bounded pool. It materializes up to maxBlocks blocks of
// perBlock elements and never grows past them: once every reserved element
// is live, Acquire returns NilRef until something is released.
type Static[T any] struct {
	a arena[T]
}

// NewStatic creates a pool holding at most perBlock*maxBlocks elements of
// elemLen values of T.
func NewStatic[T any](elemLen, perBlock, maxBlocks int) (*Static[T], error) {
	if maxBlocks <= 0 {
		return nil, ErrInvalidSize
	}
	p := &Static[T]{}
	if err := p.a.init(elemLen, perBlock, maxBlocks); err != nil {
		return nil, err
	}
	return p, nil
}

// Acquire returns a zeroed element, or NilRef when the pool is exhausted.
func (p *Static[T]) Acquire() Ref { return p.a.acquire() }

// Release returns r to the pool. It reports false if r is not live.
func (p *Static[T]) Release(r Ref) bool { return p.a.release(r) }

// Get returns the block for r, or nil if r is not live.
func (p *Static[T]) Get(r Ref) []T { return p.a.get(r) }

// Reset frees every element. Materialized blocks are kept.
func (p *Static[T]) Reset() { p.a.reset() }

// Blocks returns how many blocks have been materialized so far.
func (p *Static[T]) Blocks() int { return len(p.a.chunks) }

// Len returns the number of live elements.
func (p *Static[T]) Len() int { return p.a.live }

// Cap returns the hard element limit of the pool.
func (p *Static[T]) Cap() int { return p.a.perChunk * p.a.maxChunks }

// ElemLen returns the number of values of T in one element.
func (p *Static[T]) ElemLen() int { return p.a.elemLen }
