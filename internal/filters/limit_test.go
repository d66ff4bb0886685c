package filters

import (
	"iter"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

// singlePass wraps values in a forward-only stream that panics when ranged a
// second time, mimicking an exhausted generator.
func singlePass[T any](t *testing.T, values []T) iter.Seq[T] {
	t.Helper()
	consumed := false
	return func(yield func(T) bool) {
		if consumed {
			t.Fatal("single-pass stream ranged twice")
		}
		consumed = true
		for _, v := range values {
			if !yield(v) {
				return
			}
		}
	}
}

func TestLimit(t *testing.T) {
	input := []int{1, 2, 3, 4, 5}

	t.Run("yields exactly the first n in order", func(t *testing.T) {
		got := slices.Collect(Limit(slices.Values(input), 3))
		assert.Equal(t, []int{1, 2, 3}, got)
	})

	t.Run("zero is a transparent pass-through", func(t *testing.T) {
		got := slices.Collect(Limit(slices.Values(input), 0))
		assert.Equal(t, input, got)
	})

	t.Run("negative is a transparent pass-through", func(t *testing.T) {
		got := slices.Collect(Limit(slices.Values(input), -1))
		assert.Equal(t, input, got)
	})

	t.Run("n larger than the stream yields everything", func(t *testing.T) {
		got := slices.Collect(Limit(singlePass(t, input), 10))
		assert.Equal(t, input, got)
	})

	t.Run("works on a single-pass stream", func(t *testing.T) {
		got := slices.Collect(Limit(singlePass(t, input), 2))
		assert.Equal(t, []int{1, 2}, got)
	})

	t.Run("does not consume past the limit", func(t *testing.T) {
		var pulled []int
		counting := iter.Seq[int](func(yield func(int) bool) {
			for _, v := range input {
				pulled = append(pulled, v)
				if !yield(v) {
					return
				}
			}
		})

		got := slices.Collect(Limit(counting, 3))
		assert.Equal(t, []int{1, 2, 3}, got)
		assert.Equal(t, []int{1, 2, 3}, pulled, "limiter must stop pulling after n elements")
	})

	t.Run("empty input", func(t *testing.T) {
		got := slices.Collect(Limit(slices.Values([]int{}), 3))
		assert.Empty(t, got)
	})
}
