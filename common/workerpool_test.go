package common

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProcessParallel(t *testing.T) {
	t.Parallel()

	t.Run("processes all items", func(t *testing.T) {
		t.Parallel()

		items := []int{1, 2, 3, 4, 5}
		results := make([]int, len(items))

		err := ProcessParallel(context.Background(), 3, items,
			func(_ context.Context, index int, item int) error {
				results[index] = item * 2

				return nil
			})

		require.NoError(t, err)
		require.Equal(t, []int{2, 4, 6, 8, 10}, results)
	})

	t.Run("first error cancels remaining work", func(t *testing.T) {
		t.Parallel()

		errBoom := errors.New("boom")

		var processed int32

		err := ProcessParallel(context.Background(), 2, []int{1, 2, 3, 4, 5, 6, 7, 8},
			func(_ context.Context, index int, item int) error {
				if item == 2 {
					return errBoom
				}

				atomic.AddInt32(&processed, 1)

				return nil
			})

		require.ErrorIs(t, err, errBoom)
		require.Less(t, processed, int32(8))
	})

	t.Run("single worker keeps order", func(t *testing.T) {
		t.Parallel()

		var order []int

		err := ProcessParallel(context.Background(), 1, []int{10, 20, 30},
			func(_ context.Context, index int, item int) error {
				order = append(order, item)

				return nil
			})

		require.NoError(t, err)
		require.Equal(t, []int{10, 20, 30}, order)
	})

	t.Run("empty items", func(t *testing.T) {
		t.Parallel()

		err := ProcessParallel(context.Background(), 4, nil,
			func(_ context.Context, index int, item struct{}) error {
				return nil
			})

		require.NoError(t, err)
	})
}
