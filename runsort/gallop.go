package runsort

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/constraints"
)

// gallop 정렬된 run[start:]에서 value와의 관계를 만족하는 원소들이 끝나는 경계를 찾음.
// inclusiveEq면 관계는 run[x] <= value, 아니면 run[x] < value.
// 지수 탐색(1, 2, 4, ...)으로 구간을 잡은 뒤 그 안에서 이진 탐색한다.
// 경계 인덱스와 사용한 비교 횟수를 반환.
func gallop[T constraints.Ordered](run []T, start int, value T, inclusiveEq bool) (int, int) {
	n := len(run)
	if start < 0 || start > n {
		panic(errors.AssertionFailedf("gallop start %d outside [0, %d]", start, n))
	}
	if start == n {
		return start, 0
	}

	holds := func(x T) bool {
		if inclusiveEq {
			return x <= value
		}
		return x < value
	}

	comparisons := 1
	if !holds(run[start]) {
		return start, comparisons
	}

	// 지수 탐색. run[start+size/2]까지는 관계를 만족함.
	size := 1
	for start+size < n {
		comparisons++
		if !holds(run[start+size]) {
			break
		}
		size <<= 1
	}

	lo := start + size/2 + 1
	hi := min(start+size, n)
	if lo > hi {
		panic(errors.AssertionFailedf("gallop bracket [%d, %d) not clamped to %d", lo, hi, n))
	}

	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		comparisons++
		if holds(run[mid]) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo, comparisons
}
