package runsort

import (
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

type variant struct {
	name string
	sort func([]int, *Counter) []int
}

// variants 모든 알고리즘과 옵션 조합
func variants() []variant {
	vs := []variant{{"natural", NaturalMergeSort[int]}}
	for _, minRun := range []int{0, MinRun} {
		for _, galloping := range []bool{false, true} {
			for _, dynamic := range []bool{false, true} {
				if dynamic && !galloping {
					continue
				}
				opts := Options{MinRunLength: minRun, Galloping: galloping, DynamicThreshold: dynamic}
				suffix := fmt.Sprintf("minrun=%d galloping=%v dynamic=%v", minRun, galloping, dynamic)
				vs = append(vs,
					variant{"timsort " + suffix, func(d []int, c *Counter) []int { return Timsort(d, opts, c) }},
					variant{"powersort " + suffix, func(d []int, c *Counter) []int { return Powersort(d, opts, c) }},
				)
			}
		}
	}
	return vs
}

func TestSortEmptyAndSingle(t *testing.T) {
	for _, v := range variants() {
		var cnt Counter
		require.Empty(t, v.sort(nil, &cnt), v.name)
		require.Equal(t, []int{42}, v.sort([]int{42}, &cnt), v.name)
		require.Zero(t, cnt.Comparisons(), v.name)
	}
}

func TestSortCrossVariant(t *testing.T) {
	rng := rand.New(rand.NewSource(2024))
	vs := variants()
	for iter := 0; iter < 100; iter++ {
		data := make([]int, 1000)
		for i := range data {
			data[i] = rng.Intn(1000)
		}
		want := slices.Clone(data)
		slices.Sort(want)
		for _, v := range vs {
			got := v.sort(slices.Clone(data), nil)
			require.Equal(t, want, got, "iter %d %s", iter, v.name)
		}
	}
}

const (
	_Sawtooth = iota
	_Rand
	_Stagger
	_Plateau
	_Shuffle
	_NDist
)

const (
	_Copy = iota
	_Reverse
	_ReverseFirstHalf
	_ReverseSecondHalf
	_Sorted
	_Dither
	_NMode
)

func TestSortBentleyMcIlroy(t *testing.T) {
	sizes := []int{2, 3, 8, 31, 32, 33, 64, 100, 1023, 1024, 1025}
	if testing.Short() {
		sizes = []int{100, 127, 128, 129}
	}
	dists := []string{"sawtooth", "rand", "stagger", "plateau", "shuffle"}
	modes := []string{"copy", "reverse", "reverse1", "reverse2", "sort", "dither"}
	vs := variants()
	rng := rand.New(rand.NewSource(1))

	for _, n := range sizes {
		for m := 1; m < 2*n; m *= 2 {
			for dist := 0; dist < _NDist; dist++ {
				j, k := 0, 1
				data := make([]int, n)
				for i := 0; i < n; i++ {
					switch dist {
					case _Sawtooth:
						data[i] = i % m
					case _Rand:
						data[i] = rng.Intn(m)
					case _Stagger:
						data[i] = (i*m + i) % n
					case _Plateau:
						data[i] = min(i, m)
					case _Shuffle:
						if rng.Intn(m) != 0 {
							j += 2
							data[i] = j
						} else {
							k += 2
							data[i] = k
						}
					}
				}

				mdata := make([]int, n)
				for mode := 0; mode < _NMode; mode++ {
					switch mode {
					case _Copy:
						copy(mdata, data)
					case _Reverse:
						for i := 0; i < n; i++ {
							mdata[i] = data[n-i-1]
						}
					case _ReverseFirstHalf:
						for i := 0; i < n/2; i++ {
							mdata[i] = data[n/2-i-1]
						}
						copy(mdata[n/2:], data[n/2:])
					case _ReverseSecondHalf:
						copy(mdata[:n/2], data[:n/2])
						for i := n / 2; i < n; i++ {
							mdata[i] = data[n-(i-n/2)-1]
						}
					case _Sorted:
						copy(mdata, data)
						slices.Sort(mdata)
					case _Dither:
						for i := 0; i < n; i++ {
							mdata[i] = data[i] + i%5
						}
					}

					want := slices.Clone(mdata)
					slices.Sort(want)
					for _, v := range vs {
						got := v.sort(slices.Clone(mdata), nil)
						if !slices.Equal(got, want) {
							t.Fatalf("n=%d m=%d dist=%s mode=%s %s: not sorted\nhave: %v\nwant: %v",
								n, m, dists[dist], modes[mode], v.name, got, want)
						}
					}
				}
			}
		}
	}
}

func TestSortStrings(t *testing.T) {
	words := []string{"run", "merge", "gallop", "power", "tim", "natural", "stack", "run", "aaa", "zzz"}
	want := slices.Clone(words)
	slices.Sort(want)
	for _, alg := range Algorithms() {
		got, err := Sort(alg, slices.Clone(words), DefaultOptions(), nil)
		require.NoError(t, err)
		require.Equal(t, want, got, alg)
	}
}

func TestSortFloats(t *testing.T) {
	rng := rand.New(rand.NewSource(8))
	data := make([]float64, 3000)
	for i := range data {
		data[i] = rng.NormFloat64()
	}
	want := slices.Clone(data)
	slices.Sort(want)
	opts := DefaultOptions()
	opts.Galloping = true
	opts.DynamicThreshold = true
	require.Equal(t, want, Powersort(slices.Clone(data), opts, nil))
	require.Equal(t, want, Timsort(slices.Clone(data), opts, nil))
}

func TestCounted(t *testing.T) {
	data := []int{3, 1, 2}
	sorted, comparisons, err := Counted(AlgPowersort, data, Options{})
	require.NoError(t, err)
	require.Equal(t, []int{1, 2, 3}, sorted)
	require.Positive(t, comparisons)

	_, _, err = Counted(Algorithm("bogo"), data, Options{})
	require.Error(t, err)
}

func TestCountedSortedInputCostsOneScan(t *testing.T) {
	data := make([]int, 2048)
	for i := range data {
		data[i] = 2 * i
	}
	for _, alg := range Algorithms() {
		_, comparisons, err := Counted(alg, slices.Clone(data), DefaultOptions())
		require.NoError(t, err)
		require.Equal(t, int64(len(data)), comparisons, alg)
	}
}

func TestParseAlgorithm(t *testing.T) {
	for _, a := range Algorithms() {
		got, err := ParseAlgorithm(string(a))
		require.NoError(t, err)
		require.Equal(t, a, got)
	}
	_, err := ParseAlgorithm("quicksort")
	require.Error(t, err)
}

func TestCounterNilSafe(t *testing.T) {
	var c *Counter
	c.add(3)
	c.merged()
	c.gallop(4)
	c.Reset()
	require.Zero(t, c.Comparisons())
	require.Zero(t, c.Merges())
	require.Zero(t, c.Gallops())
	require.Zero(t, c.Galloped())

	var d Counter
	d.add(5)
	d.gallop(2)
	d.Reset()
	require.Equal(t, Counter{}, d)
}
