package inputgen

import (
	"iter"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Entropy 런 길이 분포(run profile)의 섀넌 엔트로피 (단위: 비트)
func Entropy(profile []int) float64 {
	total := 0
	for _, l := range profile {
		total += l
	}
	if total == 0 {
		return 0
	}
	p := make([]float64, len(profile))
	for i, l := range profile {
		p[i] = float64(l) / float64(total)
	}
	// stat.Entropy는 자연로그 기준
	return stat.Entropy(p) / math.Ln2
}

// EntropyBounds 길이 n 배열을 k개(>=2) 런으로 나눌 때 가능한 엔트로피 범위.
// 최대는 log2(k), 최소는 [2, 2, ..., 2, X]처럼 가장 치우친 경우.
func EntropyBounds(k, n int) (float64, float64) {
	maxEntropy := math.Log2(float64(k))

	x := float64(n - 2*(k-1))
	n2 := 2 / float64(n)
	nx := x / float64(n)
	e2 := -n2 * math.Log2(n2)
	ex := -nx * math.Log2(nx)
	minEntropy := ex + e2*float64(k-1)
	return minEntropy, maxEntropy
}

// NormalizedEntropy 엔트로피를 EntropyBounds 범위에서 [0, 1]로 정규화
func NormalizedEntropy(profile []int) float64 {
	n := 0
	for _, l := range profile {
		n += l
	}
	lo, hi := EntropyBounds(len(profile), n)
	if hi <= lo {
		return 0
	}
	return (Entropy(profile) - lo) / (hi - lo)
}

// IncreasingEntropyProfiles 가장 치우친 분포에서 시작해 점점 균등해지는 런 프로파일들.
// 매번 같은 슬라이스를 수정해서 넘기므로 보관하려면 복사해야 함.
// k < 2 이거나 n < 2k 이면 아무것도 내보내지 않음.
func IncreasingEntropyProfiles(n, k int) iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		if k < 2 || n < 2*k {
			return
		}
		prof := make([]int, k)
		for i := range k - 1 {
			prof[i] = 2
		}
		prof[k-1] = n - 2*(k-1)
		if !yield(prof) {
			return
		}
		for i := 0; prof[i] < prof[k-1]; i = (i + 1) % (k - 1) {
			prof[i]++
			prof[k-1]--
			if !yield(prof) {
				return
			}
		}
	}
}
