package main

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"runaware/runsort"
)

func TestBaselinesSort(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, size := range []int{0, 1, 2, 15, 16, 17, 100, 1000} {
		for _, c := range []contender{
			{"merge_sort", "", mergeSort},
			{"quick_sort", "", quickSort},
			{"go_sort", "", goSort},
		} {
			data := make([]int, size)
			for i := range data {
				data[i] = rng.Intn(50)
			}
			want := slices.Clone(data)
			slices.Sort(want)

			var cnt runsort.Counter
			got := c.sort(data, &cnt)
			require.Equal(t, want, got, "%s size %d", c.name, size)
			if size > 1 {
				require.Positive(t, cnt.Comparisons(), "%s size %d", c.name, size)
			}
		}
	}
}

func TestMergeSortComparisons(t *testing.T) {
	// 정렬된 입력은 병합마다 왼쪽 길이만큼 비교
	var cnt runsort.Counter
	mergeSort([]int{1, 2, 3, 4, 5, 6, 7, 8}, &cnt)
	require.EqualValues(t, 12, cnt.Comparisons())

	// 역순이면 오른쪽 길이만큼
	cnt.Reset()
	mergeSort([]int{8, 7, 6, 5, 4, 3, 2, 1}, &cnt)
	require.EqualValues(t, 12, cnt.Comparisons())

	// 엇갈리면 n-1
	cnt.Reset()
	mergeSort([]int{1, 3, 2, 4}, &cnt)
	require.EqualValues(t, 1+1+3, cnt.Comparisons())
}

func TestMergeSortNilCounter(t *testing.T) {
	require.Equal(t, []int{1, 2, 3}, mergeSort([]int{3, 1, 2}, nil))
	require.Equal(t, []int{1, 2, 3}, quickSort([]int{3, 1, 2}, nil))
	require.Equal(t, []int{1, 2, 3}, goSort([]int{3, 1, 2}, nil))
}

func TestInsertionSortComparisons(t *testing.T) {
	var cnt runsort.Counter
	arr := []int{1, 2, 3, 4}
	insertionSort(arr, 0, 3, &cnt)
	require.EqualValues(t, 3, cnt.Comparisons())

	cnt.Reset()
	arr = []int{4, 3, 2, 1}
	insertionSort(arr, 0, 3, &cnt)
	require.Equal(t, []int{1, 2, 3, 4}, arr)
	require.EqualValues(t, 1+2+3, cnt.Comparisons())
}

func TestPartition3Way(t *testing.T) {
	arr := []int{5, 1, 5, 9, 5, 2, 8, 5, 5, 0, 7, 5, 3, 6, 5, 4, 5}
	lt, gt := partition3Way(arr, 0, len(arr)-1, nil)
	pivot := arr[lt]
	for i, v := range arr {
		switch {
		case i < lt:
			require.Less(t, v, pivot)
		case i > gt:
			require.Greater(t, v, pivot)
		default:
			require.Equal(t, pivot, v)
		}
	}
}

func TestRelativeDiff(t *testing.T) {
	require.InDelta(t, 0.5, relativeDiff(150, 100), 1e-12)
	require.InDelta(t, -0.25, relativeDiff(75, 100), 1e-12)
	require.Zero(t, relativeDiff(10, 0))
}

func TestCheck(t *testing.T) {
	require.NoError(t, check(defaultConfig(), zaptest.NewLogger(t)))
}
