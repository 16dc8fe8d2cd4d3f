// Package vector implements a contiguous, growable array of fixed-size
// elements. An element is elemLen consecutive values of T, so a byte vector
// with elemLen 12 stores 12-byte records back to back.
package vector

// Vector is a dense array of fixed-size elements. Appends are O(1) amortized
// with doubling growth; ordered insert and remove shift the tail.
type Vector[T any] struct {
	data    []T
	n       int // number of elements
	capN    int // capacity in elements
	last    int // offset one past the last element
	elemLen int
	fixed   bool
}

// New creates a vector of elements of elemLen values of T with room for
// capacity elements. A non-positive elemLen is treated as 1.
func New[T any](elemLen, capacity int) *Vector[T] {
	if elemLen <= 0 {
		elemLen = 1
	}
	if capacity < 0 {
		capacity = 0
	}
	return &Vector[T]{
		data:    make([]T, elemLen*capacity),
		capN:    capacity,
		elemLen: elemLen,
	}
}

// NewFixed creates a bounded vector: pushes and inserts fail once capacity
// elements are stored instead of growing the buffer.
func NewFixed[T any](elemLen, capacity int) *Vector[T] {
	v := New[T](elemLen, capacity)
	v.fixed = true
	return v
}

// Len returns the number of elements.
func (v *Vector[T]) Len() int { return v.n }

// Cap returns the capacity in elements.
func (v *Vector[T]) Cap() int { return v.capN }

// ElemLen returns the number of values of T per element.
func (v *Vector[T]) ElemLen() int { return v.elemLen }

// Data returns the live elements as one contiguous slice. The slice aliases
// the vector and is invalidated by the next growth.
func (v *Vector[T]) Data() []T { return v.data[:v.last:v.last] }

// Clear drops every element but keeps the buffer.
func (v *Vector[T]) Clear() {
	v.n = 0
	v.last = 0
}

// reserve makes room for one more element.
func (v *Vector[T]) reserve() bool {
	if v.n < v.capN {
		return true
	}
	if v.fixed {
		return false
	}
	newCap := v.capN * 2
	if newCap == 0 {
		newCap = 1
	}
	nd := make([]T, newCap*v.elemLen)
	copy(nd, v.data[:v.last])
	v.data = nd
	v.capN = newCap
	return true
}

// PushBack appends a copy of elem. It fails if len(elem) differs from the
// vector's element length, or if a fixed vector is full.
func (v *Vector[T]) PushBack(elem []T) bool {
	if len(elem) != v.elemLen || !v.reserve() {
		return false
	}
	copy(v.data[v.last:v.last+v.elemLen], elem)
	v.n++
	v.last += v.elemLen
	return true
}

// PushBackEmpty appends a zeroed element.
func (v *Vector[T]) PushBackEmpty() bool {
	if !v.reserve() {
		return false
	}
	clear(v.data[v.last : v.last+v.elemLen])
	v.n++
	v.last += v.elemLen
	return true
}

// PopBack drops the last element. It reports false on an empty vector.
func (v *Vector[T]) PopBack() bool {
	if v.n == 0 {
		return false
	}
	v.n--
	v.last -= v.elemLen
	return true
}

// Insert places a copy of elem at index, shifting the tail right. index may
// equal Len to append.
func (v *Vector[T]) Insert(index int, elem []T) bool {
	if len(elem) != v.elemLen {
		return false
	}
	if !v.InsertEmpty(index) {
		return false
	}
	copy(v.At(index), elem)
	return true
}

// InsertEmpty places a zeroed element at index, shifting the tail right.
func (v *Vector[T]) InsertEmpty(index int) bool {
	if index < 0 || index > v.n || !v.reserve() {
		return false
	}
	off := index * v.elemLen
	copy(v.data[off+v.elemLen:v.last+v.elemLen], v.data[off:v.last])
	clear(v.data[off : off+v.elemLen])
	v.n++
	v.last += v.elemLen
	return true
}

// Remove deletes the element at index, shifting the tail left.
func (v *Vector[T]) Remove(index int) bool {
	if index < 0 || index >= v.n {
		return false
	}
	off := index * v.elemLen
	copy(v.data[off:], v.data[off+v.elemLen:v.last])
	v.n--
	v.last -= v.elemLen
	return true
}

// SwapRemove deletes the element at index by moving the last element into
// its place. It does not preserve order.
func (v *Vector[T]) SwapRemove(index int) bool {
	if index < 0 || index >= v.n {
		return false
	}
	lastOff := v.last - v.elemLen
	if off := index * v.elemLen; off != lastOff {
		copy(v.data[off:off+v.elemLen], v.data[lastOff:v.last])
	}
	v.n--
	v.last = lastOff
	return true
}

// At returns the element at index, or nil if index is out of range. The
// slice aliases the vector's storage.
func (v *Vector[T]) At(index int) []T {
	if index < 0 || index >= v.n {
		return nil
	}
	off := index * v.elemLen
	return v.data[off : off+v.elemLen : off+v.elemLen]
}

// Back returns the last element, or nil on an empty vector.
func (v *Vector[T]) Back() []T {
	return v.At(v.n - 1)
}
