package runsort

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGallop(t *testing.T) {
	run := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	cases := []struct {
		name        string
		start       int
		value       int
		inclusive   bool
		boundary    int
		comparisons int
	}{
		{"empty range", 10, 5, true, 10, 0},
		{"immediate boundary", 0, 0, true, 0, 1},
		{"immediate boundary exclusive tie", 0, 1, false, 0, 1},
		{"inclusive tie", 0, 5, true, 5, 7},
		{"exclusive tie", 0, 5, false, 4, 5},
		{"whole run", 0, 100, true, 10, 6},
		{"offset start", 3, 5, true, 5, 3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b, n := gallop(run, c.start, c.value, c.inclusive)
			require.Equal(t, c.boundary, b)
			require.Equal(t, c.comparisons, n)
		})
	}
}

func TestGallopMatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for iter := 0; iter < 2000; iter++ {
		n := rng.Intn(200)
		run := make([]int, n)
		for i := range run {
			run[i] = rng.Intn(50)
		}
		slices.Sort(run)
		start := 0
		if n > 0 {
			start = rng.Intn(n + 1)
		}
		value := rng.Intn(60) - 5
		inclusive := rng.Intn(2) == 0

		want := start
		for want < n && (run[want] < value || inclusive && run[want] == value) {
			want++
		}
		got, comparisons := gallop(run, start, value, inclusive)
		require.Equal(t, want, got, "run=%v start=%d value=%d inclusive=%v", run, start, value, inclusive)
		require.LessOrEqual(t, comparisons, 2*bitLen(n)+2)
	}
}

func TestGallopOutOfRange(t *testing.T) {
	run := []int{1, 2, 3}
	require.Panics(t, func() { gallop(run, -1, 2, true) })
	require.Panics(t, func() { gallop(run, 4, 2, true) })
}

func bitLen(n int) int {
	l := 0
	for ; n > 0; n >>= 1 {
		l++
	}
	return l
}
