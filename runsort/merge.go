package runsort

import (
	"slices"

	"golang.org/x/exp/constraints"
)

type side int8

const (
	sideNone side = iota
	sideLeft
	sideRight
)

// gallopState 병합 한 번 동안의 갤로핑 상태
type gallopState struct {
	winCount  int
	winner    side
	threshold int
}

func (g *gallopState) win(s side) {
	if g.winner == s {
		g.winCount++
		return
	}
	g.winner = s
	g.winCount = 1
}

// tune 동적 임계값 조정.
// 복사한 원소 수가 쓴 비교 횟수 이상이면 효율적인 갤롭으로 보고 임계값을 1 낮추고(최소 1),
// 아니면 1 올림.
func (g *gallopState) tune(galloped, comparisons int) {
	if galloped >= comparisons {
		g.threshold = max(1, g.threshold-1)
	} else {
		g.threshold++
	}
}

// merge 인접한 두 런 [left, mid], [mid+1, right]를 병합하고 합쳐진 런을 반환.
// 두 런을 임시 버퍼로 먼저 복사한 다음 원래 구간을 덮어쓴다.
// 같은 값은 왼쪽 런에서 먼저 가져옴.
func merge[T constraints.Ordered](data []T, left, mid, right int, opts Options, cnt *Counter) Run {
	lbuf := slices.Clone(data[left : mid+1])
	rbuf := slices.Clone(data[mid+1 : right+1])
	cnt.merged()

	g := gallopState{threshold: opts.threshold()}
	i, j, k := 0, 0, left
	for i < len(lbuf) && j < len(rbuf) {
		cnt.add(1)
		if lbuf[i] <= rbuf[j] {
			data[k] = lbuf[i]
			i++
			g.win(sideLeft)
		} else {
			data[k] = rbuf[j]
			j++
			g.win(sideRight)
		}
		k++

		if !opts.Galloping || g.winCount < g.threshold {
			continue
		}

		var galloped, comparisons int
		switch g.winner {
		case sideLeft:
			if i == len(lbuf) {
				continue
			}
			var b int
			b, comparisons = gallop(lbuf, i, rbuf[j], true)
			galloped = copy(data[k:], lbuf[i:b])
			i = b
		case sideRight:
			if j == len(rbuf) {
				continue
			}
			var b int
			b, comparisons = gallop(rbuf, j, lbuf[i], false)
			galloped = copy(data[k:], rbuf[j:b])
			j = b
		}
		k += galloped
		cnt.add(comparisons)
		cnt.gallop(galloped)
		g.winCount = 0
		if opts.DynamicThreshold {
			g.tune(galloped, comparisons)
		}
	}

	// 한쪽이 끝나면 나머지는 비교 없이 복사
	k += copy(data[k:], lbuf[i:])
	copy(data[k:], rbuf[j:])
	return Run{Start: left, End: right}
}
