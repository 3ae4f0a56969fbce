// Package ring provides a generic fixed-capacity FIFO buffer with O(1) insertion.
//
// When the buffer is full, each Push evicts the oldest element. Recent returns
// the newest elements in insertion order, which makes the ring suitable as a
// replay backlog for late subscribers:
//
//	r, err := ring.New[string](3)
//	if err != nil {
//		return err
//	}
//	r.Push("a")
//	r.Push("b")
//	r.Push("c")
//	r.Push("d") // evicts "a"
//
//	r.Recent(10) // [b c d]
//	r.Recent(2)  // [c d]
//
// Ring has no internal locking. Wrap it with a mutex or confine it to a
// single goroutine when it is shared.
package ring
