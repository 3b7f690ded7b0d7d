package indexer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBoxSummary(t *testing.T) {
	t.Parallel()

	check := func(sample []int64, q1, median, q3 int64) {
		t.Helper()

		gotQ1, gotMedian, gotQ3 := boxSummary(sample)
		require.Equal(t, q1, gotQ1)
		require.Equal(t, median, gotMedian)
		require.Equal(t, q3, gotQ3)
	}

	// empty sample collapses to zeros
	check(nil, 0, 0, 0)

	// single element is all three picks
	check([]int64{7}, 7, 7, 7)

	check([]int64{3, 9}, 3, 9, 9)
	check([]int64{1, 5, 11}, 1, 5, 5)

	// n = 4: q = 1, m = 2, m+q = 3
	check([]int64{2, 4, 8, 16}, 4, 8, 16)

	check([]int64{1, 2, 3, 4, 5, 6, 7, 8}, 3, 5, 7)
}
