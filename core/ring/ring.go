package ring

import "errors"

// ErrInvalidCapacity is returned when a ring is created with capacity below one.
var ErrInvalidCapacity = errors.New("ring capacity must be at least 1")

// Ring is a fixed-capacity FIFO buffer. Pushing into a full ring overwrites
// the oldest element. Ring is not safe for concurrent use; callers serialize access.
type Ring[T any] struct {
	buf  []T
	head int // index of the oldest element
	size int
}

// New creates a ring that holds at most capacity elements.
func New[T any](capacity int) (*Ring[T], error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	return &Ring[T]{buf: make([]T, capacity)}, nil
}

// Push appends v. When the ring is full the oldest element is evicted
// and returned with evicted set to true.
func (r *Ring[T]) Push(v T) (old T, evicted bool) {
	if r.size < len(r.buf) {
		r.buf[(r.head+r.size)%len(r.buf)] = v
		r.size++
		return old, false
	}

	old = r.buf[r.head]
	r.buf[r.head] = v
	r.head = (r.head + 1) % len(r.buf)
	return old, true
}

// Recent returns up to n most recently pushed elements, oldest first.
// A non-positive n yields an empty slice.
func (r *Ring[T]) Recent(n int) []T {
	if n <= 0 || r.size == 0 {
		return []T{}
	}
	if n > r.size {
		n = r.size
	}

	out := make([]T, n)
	start := r.head + r.size - n
	for i := range n {
		out[i] = r.buf[(start+i)%len(r.buf)]
	}
	return out
}

// Len returns the number of stored elements.
func (r *Ring[T]) Len() int {
	return r.size
}

// Cap returns the maximum number of elements the ring holds.
func (r *Ring[T]) Cap() int {
	return len(r.buf)
}

// Reset drops all elements, releasing references held by the buffer.
func (r *Ring[T]) Reset() {
	clear(r.buf)
	r.head = 0
	r.size = 0
}
