package main

import (
	"sync"

	"github.com/cockroachdb/errors"
)

// workerPool 채널 세마포로 동시에 도는 샘플 수를 제한.
// 작업 중 첫 번째 에러(패닉 포함)만 기억함.
type workerPool struct {
	slots chan struct{}
	wg    sync.WaitGroup

	mu  sync.Mutex
	err error
}

func newWorkerPool(size int) *workerPool {
	return &workerPool{slots: make(chan struct{}, max(size, 1))}
}

// Go 슬롯이 빌 때까지 기다렸다가 fn을 고루틴으로 실행
func (p *workerPool) Go(fn func() error) {
	p.wg.Add(1)
	p.slots <- struct{}{}
	go func() {
		defer p.wg.Done()
		defer func() { <-p.slots }()
		defer func() {
			if r := recover(); r != nil {
				p.fail(errors.Newf("worker panic: %v", r))
			}
		}()
		if err := fn(); err != nil {
			p.fail(err)
		}
	}()
}

func (p *workerPool) fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err == nil {
		p.err = err
	}
}

// Wait 모든 작업이 끝나길 기다리고 첫 에러를 돌려준 뒤 초기화
func (p *workerPool) Wait() error {
	p.wg.Wait()
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.err
	p.err = nil
	return err
}
