package runsort

import "golang.org/x/exp/constraints"

// NaturalMergeSort 런을 모두 찾은 뒤 왼쪽부터 인접한 두 런씩 병합하는 패스를
// 런이 하나 남을 때까지 반복. 최소 런 정책과 갤로핑은 쓰지 않음.
func NaturalMergeSort[T constraints.Ordered](data []T, cnt *Counter) []T {
	if len(data) <= 1 {
		return data
	}

	runs := FindRuns(data, 0, cnt)
	for len(runs) > 1 {
		next := make([]Run, 0, (len(runs)+1)/2)
		i := 0
		for ; i+1 < len(runs); i += 2 {
			next = append(next, merge(data, runs[i].Start, runs[i].End, runs[i+1].End, Options{}, cnt))
		}
		// 홀수 개면 마지막 런은 다음 패스로
		if i < len(runs) {
			next = append(next, runs[i])
		}
		runs = next
	}
	return data
}
