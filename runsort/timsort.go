package runsort

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/exp/constraints"
)

// runStack Timsort의 병합 대기 런 스택. 아래쪽이 가장 왼쪽 런.
type runStack[T constraints.Ordered] struct {
	data []T
	runs []Run
	opts Options
	cnt  *Counter
}

func (s *runStack[T]) push(r Run) {
	s.runs = append(s.runs, r)
}

// at 위에서 i번째 런 (1이 top). 없으면 false.
func (s *runStack[T]) at(i int) (Run, bool) {
	h := len(s.runs)
	if i > h {
		return Run{}, false
	}
	return s.runs[h-i], true
}

// mergeTop2 r2와 r1(top)을 병합.
// 전: 깊이 >= 2. 후: 깊이 1 감소, top은 r2 ∪ r1.
func (s *runStack[T]) mergeTop2() {
	h := len(s.runs)
	if h < 2 {
		panic(errors.AssertionFailedf("mergeTop2 on stack of depth %d", h))
	}
	r2, r1 := s.runs[h-2], s.runs[h-1]
	s.runs = s.runs[:h-2]
	s.push(merge(s.data, r2.Start, r2.End, r1.End, s.opts, s.cnt))
}

// mergeTop2And3 r3와 r2를 병합하고 r1은 그대로 top에 둠.
// 전: 깊이 >= 3. 후: 깊이 1 감소, 두 번째는 r3 ∪ r2, top은 r1.
func (s *runStack[T]) mergeTop2And3() {
	h := len(s.runs)
	if h < 3 {
		panic(errors.AssertionFailedf("mergeTop2And3 on stack of depth %d", h))
	}
	r3, r2, r1 := s.runs[h-3], s.runs[h-2], s.runs[h-1]
	s.runs = s.runs[:h-3]
	s.push(merge(s.data, r3.Start, r3.End, r2.End, s.opts, s.cnt))
	s.push(r1)
}

// collapse 불변식이 깨지는 동안 병합.
func (s *runStack[T]) collapse() {
	for {
		r1, _ := s.at(1)
		r2, ok2 := s.at(2)
		r3, ok3 := s.at(3)
		r4, ok4 := s.at(4)

		switch {
		case ok3 && r1.Len() >= r3.Len():
			s.mergeTop2And3()
		case ok2 && r1.Len() >= r2.Len():
			s.mergeTop2()
		case ok3 && r1.Len()+r2.Len() >= r3.Len():
			s.mergeTop2()
		case ok4 && r2.Len()+r3.Len() >= r4.Len():
			s.mergeTop2()
		default:
			return
		}
	}
}

// drain 남은 런을 위에서부터 하나로 합침
func (s *runStack[T]) drain() {
	for len(s.runs) > 1 {
		s.mergeTop2()
	}
}

// Timsort 런을 스택에 쌓으며 크기 불변식에 따라 바로바로 병합하는 정렬.
// opts.MinRunLength 기본값은 MinRun (DefaultOptions 참고).
func Timsort[T constraints.Ordered](data []T, opts Options, cnt *Counter) []T {
	if len(data) <= 1 {
		return data
	}

	s := &runStack[T]{data: data, opts: opts, cnt: cnt}
	for start := 0; start < len(data); {
		r := NextRun(data, start, opts.MinRunLength, cnt)
		s.push(r)
		s.collapse()
		start = r.End + 1
	}
	s.drain()
	return data
}
