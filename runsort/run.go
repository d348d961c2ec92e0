package runsort

import (
	"fmt"
	"slices"

	"golang.org/x/exp/constraints"
)

// Run 정렬된 부분 배열 [Start, End] (양 끝 포함)
type Run struct {
	Start int
	End   int
}

// Len 런의 길이
func (r Run) Len() int {
	return r.End - r.Start + 1
}

func (r Run) String() string {
	return fmt.Sprintf("(%d, %d)", r.Start, r.End)
}

// ScanRun start에서 시작하는 최대 단조 런을 찾고 그 끝 인덱스(포함)를 반환.
//
// 입력 버퍼를 수정할 수 있음: 내림차순 런을 찾으면 그 자리에서 뒤집어
// 오름차순으로 만든 뒤 반환한다. 같은 값(tie)은 오름차순 스캔을 연장하고,
// 오름차순 스캔이 같은 값들만 지나온 경우(평평한 런)에는 내림차순으로 다시 본다.
func ScanRun[T constraints.Ordered](data []T, start int, cnt *Counter) int {
	n := len(data)
	if start >= n-1 {
		return start
	}

	i := start
	for i < n-1 {
		cnt.add(1)
		if data[i] > data[i+1] {
			break
		}
		i++
	}

	cnt.add(1)
	if data[start] == data[i] {
		for i < n-1 {
			cnt.add(1)
			if data[i] < data[i+1] {
				break
			}
			i++
		}
		slices.Reverse(data[start : i+1])
	}
	return i
}

// EnforceMinRun 자연 런 [start, naturalEnd]가 minRunLength보다 짧으면
// 이진 삽입 정렬로 min(start+minRunLength-1, len-1)까지 늘림.
// minRunLength <= 0 이면 아무것도 하지 않음.
func EnforceMinRun[T constraints.Ordered](data []T, start, naturalEnd, minRunLength int, cnt *Counter) int {
	if minRunLength <= 0 || naturalEnd-start+1 >= minRunLength {
		return naturalEnd
	}
	end := min(start+minRunLength-1, len(data)-1)
	binaryInsertionSort(data, start, end, naturalEnd, cnt)
	return end
}

// NextRun 다음 런을 찾고 최소 길이 정책을 적용
func NextRun[T constraints.Ordered](data []T, start, minRunLength int, cnt *Counter) Run {
	end := ScanRun(data, start, cnt)
	end = EnforceMinRun(data, start, end, minRunLength, cnt)
	return Run{Start: start, End: end}
}

// FindRuns 배열 전체의 런 분해. 런들은 왼쪽부터 빈틈없이 배열을 덮는다.
func FindRuns[T constraints.Ordered](data []T, minRunLength int, cnt *Counter) []Run {
	var runs []Run
	for start := 0; start < len(data); {
		r := NextRun(data, start, minRunLength, cnt)
		runs = append(runs, r)
		start = r.End + 1
	}
	return runs
}

// binaryInsertionSort [left, sortedUpTo]가 이미 정렬되어 있다고 보고
// (sortedUpTo, right] 원소를 하나씩 이진 탐색 위치에 삽입.
// 안정성은 보장하지 않음.
func binaryInsertionSort[T constraints.Ordered](data []T, left, right, sortedUpTo int, cnt *Counter) {
	for i := sortedUpTo + 1; i <= right; i++ {
		v := data[i]
		j := lowerBound(data, v, left, i, cnt)
		copy(data[j+1:i+1], data[j:i])
		data[j] = v
	}
}

// lowerBound [lo, hi) 안에서 v 이상인 첫 인덱스
func lowerBound[T constraints.Ordered](data []T, v T, lo, hi int, cnt *Counter) int {
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		cnt.add(1)
		if data[mid] < v {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
