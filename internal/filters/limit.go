package filters

import "iter"

// Limit yields at most n elements from seq, preserving order and consuming no
// more of the input than necessary. When n <= 0 the limiter is a transparent
// pass-through.
func Limit[T any](seq iter.Seq[T], n int) iter.Seq[T] {
	if n <= 0 {
		return seq
	}
	return func(yield func(T) bool) {
		remaining := n
		for v := range seq {
			if !yield(v) {
				return
			}
			remaining--
			if remaining == 0 {
				return
			}
		}
	}
}
