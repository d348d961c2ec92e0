// Package runsort 입력에 이미 존재하는 정렬된 구간(런)을 활용하는 적응형 병합 정렬.
//
// 세 가지 정렬을 제공한다.
//   - NaturalMergeSort: 런을 모두 찾은 뒤 왼쪽부터 두 개씩 병합하는 기준 구현
//   - Timsort: 네 가지 스택 불변식으로 병합 순서를 정함
//   - Powersort: 런 경계의 노드 파워로 거의 최적인 병합 트리를 만듦
//
// 모든 함수는 입력 슬라이스를 그 자리에서 정렬하고 같은 슬라이스를 반환한다.
// 비교 횟수가 필요하면 *Counter를 넘기고, 필요 없으면 nil을 넘긴다.
package runsort

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/constraints"
)

const (
	// MinRun Timsort, Powersort의 기본 최소 런 길이
	MinRun = 32
	// InitialGallopingThreshold 갤로핑 모드 진입 임계값 기본값
	InitialGallopingThreshold = 7
)

// Options 정렬 튜닝 옵션
type Options struct {
	// MinRunLength 보다 짧은 자연 런은 이진 삽입 정렬로 늘림. 0이면 사용 안 함.
	MinRunLength int
	// Galloping 병합 중 갤로핑 모드 사용 여부
	Galloping bool
	// DynamicThreshold 갤롭 결과에 따라 임계값을 조정할지 여부
	DynamicThreshold bool
	// GallopingThreshold 한쪽이 연속으로 이긴 횟수가 이 값 이상이면 갤로핑. 0이면 기본값.
	GallopingThreshold int
}

// DefaultOptions MIN_RUN=32, 갤로핑 꺼짐
func DefaultOptions() Options {
	return Options{
		MinRunLength:       MinRun,
		GallopingThreshold: InitialGallopingThreshold,
	}
}

func (o Options) threshold() int {
	if o.GallopingThreshold <= 0 {
		return InitialGallopingThreshold
	}
	return o.GallopingThreshold
}

// Algorithm 정렬 알고리즘 이름
type Algorithm string

const (
	AlgNaturalMergeSort Algorithm = "natural_merge_sort"
	AlgTimsort          Algorithm = "timsort"
	AlgPowersort        Algorithm = "powersort"
)

// Algorithms 지원하는 알고리즘 목록
func Algorithms() []Algorithm {
	return []Algorithm{AlgNaturalMergeSort, AlgTimsort, AlgPowersort}
}

// ParseAlgorithm 문자열을 Algorithm으로 변환
func ParseAlgorithm(s string) (Algorithm, error) {
	for _, a := range Algorithms() {
		if string(a) == s {
			return a, nil
		}
	}
	return "", errors.Newf("unknown algorithm %q", s)
}

// Sort 지정한 알고리즘으로 정렬. NaturalMergeSort는 opts를 무시함.
func Sort[T constraints.Ordered](alg Algorithm, data []T, opts Options, cnt *Counter) ([]T, error) {
	switch alg {
	case AlgNaturalMergeSort:
		return NaturalMergeSort(data, cnt), nil
	case AlgTimsort:
		return Timsort(data, opts, cnt), nil
	case AlgPowersort:
		return Powersort(data, opts, cnt), nil
	}
	return nil, errors.Newf("unknown algorithm %q", alg)
}

// Counted 새 카운터로 정렬하고 (정렬 결과, 비교 횟수)를 반환
func Counted[T constraints.Ordered](alg Algorithm, data []T, opts Options) ([]T, int64, error) {
	var cnt Counter
	sorted, err := Sort(alg, data, opts, &cnt)
	if err != nil {
		return nil, 0, err
	}
	return sorted, cnt.Comparisons(), nil
}
