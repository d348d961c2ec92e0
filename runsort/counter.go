package runsort

// Counter 정렬 한 번 동안의 비교 횟수를 세는 카운터.
// 전역 변수 대신 정렬 호출마다 명시적으로 넘겨서 사용함.
// nil 카운터도 유효하며 아무것도 세지 않음.
//
// 동시에 여러 정렬 호출이 하나의 Counter를 공유하면 안 됨.
type Counter struct {
	comparisons int64
	merges      int
	gallops     int
	galloped    int
}

func (c *Counter) add(n int) {
	if c != nil {
		c.comparisons += int64(n)
	}
}

func (c *Counter) merged() {
	if c != nil {
		c.merges++
	}
}

func (c *Counter) gallop(copied int) {
	if c != nil {
		c.gallops++
		c.galloped += copied
	}
}

// Add 패키지 밖 정렬이 직접 센 비교 횟수를 더함
func (c *Counter) Add(n int) {
	c.add(n)
}

// Comparisons 지금까지 수행한 원소 비교 횟수
func (c *Counter) Comparisons() int64 {
	if c == nil {
		return 0
	}
	return c.comparisons
}

// Merges 수행한 병합 횟수
func (c *Counter) Merges() int {
	if c == nil {
		return 0
	}
	return c.merges
}

// Gallops 갤로핑 모드 진입 횟수
func (c *Counter) Gallops() int {
	if c == nil {
		return 0
	}
	return c.gallops
}

// Galloped 갤로핑으로 블록 복사된 원소 수의 합
func (c *Counter) Galloped() int {
	if c == nil {
		return 0
	}
	return c.galloped
}

// Reset 카운터 초기화
func (c *Counter) Reset() {
	if c != nil {
		*c = Counter{}
	}
}
