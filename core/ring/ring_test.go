package ring_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/livefeed/core/ring"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("valid_capacity", func(t *testing.T) {
		t.Parallel()

		r, err := ring.New[int](5)
		require.NoError(t, err)
		assert.Equal(t, 5, r.Cap())
		assert.Equal(t, 0, r.Len())
	})

	t.Run("zero_capacity_rejected", func(t *testing.T) {
		t.Parallel()

		r, err := ring.New[int](0)
		assert.ErrorIs(t, err, ring.ErrInvalidCapacity)
		assert.Nil(t, r)
	})

	t.Run("negative_capacity_rejected", func(t *testing.T) {
		t.Parallel()

		_, err := ring.New[int](-3)
		assert.ErrorIs(t, err, ring.ErrInvalidCapacity)
	})
}

func TestRing_Push(t *testing.T) {
	t.Parallel()

	t.Run("evicts_oldest_when_full", func(t *testing.T) {
		t.Parallel()

		r, err := ring.New[string](3)
		require.NoError(t, err)

		for _, v := range []string{"A", "B", "C"} {
			_, evicted := r.Push(v)
			assert.False(t, evicted)
		}

		old, evicted := r.Push("D")
		assert.True(t, evicted)
		assert.Equal(t, "A", old)
		assert.Equal(t, []string{"B", "C", "D"}, r.Recent(10))
	})

	t.Run("size_never_exceeds_capacity", func(t *testing.T) {
		t.Parallel()

		for capacity := 1; capacity <= 7; capacity++ {
			r, err := ring.New[int](capacity)
			require.NoError(t, err)

			for i := range 50 {
				r.Push(i)
				require.LessOrEqual(t, r.Len(), capacity)

				// The last min(i+1, capacity) pushes, in order.
				want := make([]int, 0, capacity)
				for v := max(0, i+1-capacity); v <= i; v++ {
					want = append(want, v)
				}
				require.Equal(t, want, r.Recent(capacity), fmt.Sprintf("capacity=%d i=%d", capacity, i))
			}
		}
	})

	t.Run("capacity_one", func(t *testing.T) {
		t.Parallel()

		r, err := ring.New[int](1)
		require.NoError(t, err)

		r.Push(1)
		old, evicted := r.Push(2)
		assert.True(t, evicted)
		assert.Equal(t, 1, old)
		assert.Equal(t, []int{2}, r.Recent(5))
	})
}

func TestRing_Recent(t *testing.T) {
	t.Parallel()

	r, err := ring.New[int](4)
	require.NoError(t, err)
	for i := 1; i <= 6; i++ {
		r.Push(i)
	}

	tests := []struct {
		name string
		n    int
		want []int
	}{
		{"negative", -1, []int{}},
		{"zero", 0, []int{}},
		{"one", 1, []int{6}},
		{"two", 2, []int{5, 6}},
		{"exact_capacity", 4, []int{3, 4, 5, 6}},
		{"more_than_stored", 10, []int{3, 4, 5, 6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, r.Recent(tt.n))
		})
	}
}

func TestRing_RecentReturnsCopy(t *testing.T) {
	t.Parallel()

	r, err := ring.New[int](3)
	require.NoError(t, err)
	r.Push(1)
	r.Push(2)

	got := r.Recent(2)
	got[0] = 100

	assert.Equal(t, []int{1, 2}, r.Recent(2))
}

func TestRing_Reset(t *testing.T) {
	t.Parallel()

	r, err := ring.New[int](3)
	require.NoError(t, err)
	r.Push(1)
	r.Push(2)
	r.Push(3)
	r.Push(4)

	r.Reset()
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 3, r.Cap())
	assert.Empty(t, r.Recent(3))

	r.Push(9)
	assert.Equal(t, []int{9}, r.Recent(3))
}
