package worker

import "sync"

// Pool is a fixed-size goroutine pool with a buffered queue. Stop closes the
// queue and waits for in-flight tasks, so pending audit writes drain on
// shutdown.
type Pool struct {
	wg   sync.WaitGroup
	jobs chan func()
}

func NewPool(n int) *Pool {
	p := &Pool{jobs: make(chan func(), 1024)}
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				job()
			}
		}()
	}
	return p
}

func (p *Pool) Submit(f func()) { p.jobs <- f }

func (p *Pool) QueueDepth() int { return len(p.jobs) }

func (p *Pool) Stop() { close(p.jobs); p.wg.Wait() }
