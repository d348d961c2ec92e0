package runsort

import (
	"math"

	"github.com/cockroachdb/errors"
	"golang.org/x/exp/constraints"
)

// 64비트 인덱스 범위에서는 이 깊이 안에 두 중점이 반드시 갈라짐
const maxNodePower = 128

// NodePower 인접한 두 런 경계의 노드 파워.
// 두 런의 중점을 n으로 정규화한 a, b에 대해 floor(a*2^l) != floor(b*2^l)인 가장 작은 l.
// 대략 균형 이진 병합 트리에서 두 런이 병합되는 깊이를 뜻함.
func NodePower(r1, r2 Run, n int) int {
	a := (float64(r1.Start) + float64(r1.Len())/2 - 1) / float64(n)
	b := (float64(r2.Start) + float64(r2.Len())/2 - 1) / float64(n)
	for l := 0; l <= maxNodePower; l++ {
		if math.Floor(math.Ldexp(a, l)) != math.Floor(math.Ldexp(b, l)) {
			return l
		}
	}
	panic(errors.AssertionFailedf("node power of %s and %s (n=%d) exceeds %d", r1, r2, n, maxNodePower))
}

type powerEntry struct {
	run   Run
	power int
}

// powerStack Powersort의 (런, 파워) 스택
type powerStack[T constraints.Ordered] struct {
	data    []T
	entries []powerEntry
	opts    Options
	cnt     *Counter
}

func (s *powerStack[T]) push(r Run, power int) {
	s.entries = append(s.entries, powerEntry{run: r, power: power})
}

func (s *powerStack[T]) empty() bool {
	return len(s.entries) == 0
}

// exceeds top의 파워가 p보다 엄격히 크면 true
func (s *powerStack[T]) exceeds(p int) bool {
	return !s.empty() && s.entries[len(s.entries)-1].power > p
}

// mergeInto top 런을 꺼내 바로 오른쪽에 붙은 r과 병합.
// 전: 스택이 비어있지 않고 top.End+1 == r.Start. 후: 깊이 1 감소.
func (s *powerStack[T]) mergeInto(r Run) Run {
	if s.empty() {
		panic(errors.AssertionFailedf("mergeInto on empty power stack"))
	}
	top := s.entries[len(s.entries)-1].run
	if top.End+1 != r.Start {
		panic(errors.AssertionFailedf("runs %s and %s are not adjacent", top, r))
	}
	s.entries = s.entries[:len(s.entries)-1]
	return merge(s.data, top.Start, top.End, r.End, s.opts, s.cnt)
}

// Powersort 런 경계마다 노드 파워를 계산해 거의 최적인 병합 순서를 따르는 정렬.
// opts.MinRunLength가 0이면 최소 런 정책을 쓰지 않음.
func Powersort[T constraints.Ordered](data []T, opts Options, cnt *Counter) []T {
	n := len(data)
	if n <= 1 {
		return data
	}

	s := &powerStack[T]{data: data, opts: opts, cnt: cnt}
	r1 := NextRun(data, 0, opts.MinRunLength, cnt)
	for r1.End < n-1 {
		r2 := NextRun(data, r1.End+1, opts.MinRunLength, cnt)
		p := NodePower(r1, r2, n)
		for s.exceeds(p) {
			r1 = s.mergeInto(r1)
		}
		s.push(r1, p)
		r1 = r2
	}
	for !s.empty() {
		r1 = s.mergeInto(r1)
	}
	return data
}
