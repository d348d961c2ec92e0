// Package inputgen 벤치마크용 입력 생성기.
// 런 개수나 런 분포의 정규화 엔트로피를 조절한 배열을 만든다.
package inputgen

import (
	"math/rand"
	"slices"

	"github.com/cockroachdb/errors"
)

// 원하는 엔트로피 구간의 프로파일을 찾기 위해 런 개수를 다시 뽑는 최대 횟수
const maxEntropyAttempts = 1000

// Uniform [lo, hi) 범위의 난수 n개
func Uniform(rng *rand.Rand, n, lo, hi int) ([]int, error) {
	if n < 0 {
		return nil, errors.Newf("negative size %d", n)
	}
	if hi <= lo {
		return nil, errors.Newf("empty value range [%d, %d)", lo, hi)
	}
	data := make([]int, n)
	for i := range data {
		data[i] = lo + rng.Intn(hi-lo)
	}
	return data, nil
}

// RunProfile 합이 n이고 각 길이가 2 이상인 k개 런의 길이
func RunProfile(rng *rand.Rand, n, k int) ([]int, error) {
	if k < 1 || n < 2*k {
		return nil, errors.Newf("cannot split %d elements into %d runs of length >= 2", n, k)
	}
	prof := make([]int, k)
	for i := range prof {
		prof[i] = 2
	}
	for range n - 2*k {
		prof[rng.Intn(k)]++
	}
	return prof, nil
}

// WithRuns 값이 [lo, hi]에 있고 런이 k개인 길이 n 배열
func WithRuns(rng *rand.Rand, n, lo, hi, k int) ([]int, error) {
	prof, err := RunProfile(rng, n, k)
	if err != nil {
		return nil, err
	}
	return FromProfile(rng, prof, lo, hi)
}

// WithEntropy 런 분포의 정규화 엔트로피가 [from, to] 안에 있는 길이 n 배열
func WithEntropy(rng *rand.Rand, n, lo, hi int, from, to float64) ([]int, error) {
	if n < 4 {
		return nil, errors.Newf("size %d too small for an entropy profile", n)
	}
	if from > to {
		return nil, errors.Newf("empty entropy range [%g, %g]", from, to)
	}

	var profiles [][]int
	for attempt := 0; len(profiles) == 0; attempt++ {
		if attempt == maxEntropyAttempts {
			return nil, errors.Newf("no run profile of %d elements with normalized entropy in [%g, %g]", n, from, to)
		}
		k := 2 + rng.Intn(n/2-1)
		for prof := range IncreasingEntropyProfiles(n, k) {
			e := NormalizedEntropy(prof)
			if e >= from && e <= to {
				profiles = append(profiles, slices.Clone(prof))
			} else if len(profiles) > 0 {
				break
			}
		}
	}
	return FromProfile(rng, profiles[rng.Intn(len(profiles))], lo, hi)
}

// FromProfile 프로파일의 길이대로 런을 하나씩 이어붙인 배열.
// 각 런은 임의로 오름차순 또는 내림차순이며, 첫 원소가 이전 런을 끊도록 고름.
func FromProfile(rng *rand.Rand, profile []int, lo, hi int) ([]int, error) {
	if hi <= lo {
		return nil, errors.Newf("empty value range [%d, %d]", lo, hi)
	}
	n := 0
	for _, l := range profile {
		if l < 2 {
			return nil, errors.Newf("run length %d < 2", l)
		}
		n += l
	}

	data := make([]int, 0, n)
	lastIncreasing := true
	firstLo, firstHi := lo, hi
	for i, l := range profile {
		if i != 0 {
			last := data[len(data)-1]
			if lastIncreasing {
				firstLo, firstHi = lo, max(lo, last-1)
			} else {
				firstLo, firstHi = min(hi, last+1), hi
			}
		}
		var run []int
		run, lastIncreasing = randomRun(rng, l, lo, hi, firstLo, firstHi)
		data = append(data, run...)
	}
	return data, nil
}

// randomRun 첫 원소가 [firstLo, firstHi]에 있는 길이 n(>=2)의 정렬된 런.
// 모든 원소가 같은 평평한 런은 만들지 않음.
func randomRun(rng *rand.Rand, n, lo, hi, firstLo, firstHi int) ([]int, bool) {
	first := between(rng, firstLo, firstHi)

	var increasing bool
	for {
		increasing = rng.Intn(2) == 1
		if increasing && first != hi {
			lo = first
			break
		}
		if !increasing && first != lo {
			hi = first
			break
		}
	}

	run := make([]int, n)
	run[0] = first
	rest := run[1:]
	for {
		for i := range rest {
			rest[i] = between(rng, lo, hi)
		}
		if slices.ContainsFunc(rest, func(v int) bool { return v != first }) {
			break
		}
	}
	slices.Sort(rest)
	if !increasing {
		slices.Reverse(rest)
	}
	return run, increasing
}

// between [lo, hi] 범위의 난수
func between(rng *rand.Rand, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}
