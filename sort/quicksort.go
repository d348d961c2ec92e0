package main

import "runaware/runsort"

// quickSort 3-way 퀵소트 (시간 측정용 비교 대상)
func quickSort(arr []int, cnt *runsort.Counter) []int {
	if len(arr) >= 2 {
		quickSortHelper(arr, 0, len(arr)-1, cnt)
	}
	return arr
}

func quickSortHelper(arr []int, low, high int, cnt *runsort.Counter) {
	for low < high {
		// 작은 배열에는 삽입정렬
		if high-low+1 <= 16 {
			insertionSort(arr, low, high, cnt)
			return
		}

		lt, gt := partition3Way(arr, low, high, cnt)

		// 더 작은 부분을 재귀로
		if lt-low < high-gt {
			quickSortHelper(arr, low, lt-1, cnt)
			low = gt + 1
		} else {
			quickSortHelper(arr, gt+1, high, cnt)
			high = lt - 1
		}
	}
}

// partition3Way 피벗보다 작은/같은/큰 구간으로 나누고 같은 구간 [lt, gt] 반환
func partition3Way(arr []int, low, high int, cnt *runsort.Counter) (int, int) {
	medianOfThree(arr, low, (low+high)/2, high, cnt)
	pivot := arr[low]

	lt := low      // arr[low..lt-1] < pivot
	i := low + 1   // arr[lt..i-1] == pivot
	gt := high + 1 // arr[gt..high] > pivot

	for i < gt {
		cnt.Add(1)
		if arr[i] < pivot {
			arr[lt], arr[i] = arr[i], arr[lt]
			lt++
			i++
			continue
		}
		cnt.Add(1)
		if arr[i] > pivot {
			gt--
			arr[i], arr[gt] = arr[gt], arr[i]
		} else {
			i++
		}
	}

	return lt, gt - 1
}

// medianOfThree 세 값의 중앙값을 a 위치로
func medianOfThree(arr []int, a, b, c int, cnt *runsort.Counter) {
	cnt.Add(3)
	if arr[a] > arr[b] {
		arr[a], arr[b] = arr[b], arr[a]
	}
	if arr[b] > arr[c] {
		arr[b], arr[c] = arr[c], arr[b]
	}
	if arr[a] > arr[b] {
		arr[a], arr[b] = arr[b], arr[a]
	}
	arr[a], arr[b] = arr[b], arr[a]
}

func insertionSort(arr []int, low, high int, cnt *runsort.Counter) {
	for i := low + 1; i <= high; i++ {
		key := arr[i]
		j := i - 1
		for j >= low {
			cnt.Add(1)
			if arr[j] <= key {
				break
			}
			arr[j+1] = arr[j]
			j--
		}
		arr[j+1] = key
	}
}
