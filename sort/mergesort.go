package main

import (
	"slices"

	"runaware/runsort"
)

// mergeSort 런을 보지 않는 하향식 머지소트. 모든 상대 비교의 기준.
// 작은 배열 삽입정렬 없이 끝까지 나눔.
func mergeSort(arr []int, cnt *runsort.Counter) []int {
	if len(arr) <= 1 {
		return arr
	}

	mid := len(arr) / 2
	left := mergeSort(slices.Clone(arr[:mid]), cnt)
	right := mergeSort(slices.Clone(arr[mid:]), cnt)

	return merge(arr, left, right, cnt)
}

// merge left, right를 dst에 병합. 루프 한 바퀴에 비교 한 번.
func merge(dst, left, right []int, cnt *runsort.Counter) []int {
	result := dst[:0]
	i, j := 0, 0

	for i < len(left) && j < len(right) {
		if left[i] <= right[j] {
			result = append(result, left[i])
			i++
		} else {
			result = append(result, right[j])
			j++
		}
	}
	cnt.Add(i + j)

	// 남은 요소들 한 번에 추가
	result = append(result, left[i:]...)
	result = append(result, right[j:]...)

	return result
}

// goSort 표준 라이브러리 안정 정렬에 세는 비교 함수를 끼운 것
func goSort(arr []int, cnt *runsort.Counter) []int {
	slices.SortStableFunc(arr, func(a, b int) int {
		cnt.Add(1)
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
		return 0
	})
	return arr
}
