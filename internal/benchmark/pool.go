// Package benchmark discharges a UPS battery under a controlled CPU load
// while logging power readings, to characterise runtime at different draws.
package benchmark

import "sync"

// Pool runs a variable number of busy-loop workers.
type Pool struct {
	mu    sync.Mutex
	stops []chan struct{}
	wg    sync.WaitGroup
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{}
}

// SetWorkers adjusts the number of running workers up or down.
func (p *Pool) SetWorkers(n int) {
	if n < 0 {
		n = 0
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.stops) < n {
		stop := make(chan struct{})
		p.stops = append(p.stops, stop)
		p.wg.Add(1)
		go p.burn(stop)
	}
	for len(p.stops) > n {
		last := len(p.stops) - 1
		close(p.stops[last])
		p.stops = p.stops[:last]
	}
}

// Workers returns the current worker count.
func (p *Pool) Workers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.stops)
}

// Shutdown stops all workers and waits for them to exit.
func (p *Pool) Shutdown() {
	p.SetWorkers(0)
	p.wg.Wait()
}

func (p *Pool) burn(stop <-chan struct{}) {
	defer p.wg.Done()
	// Linear congruential generator keeps the ALU busy without
	// the compiler eliminating the loop.
	var x uint64 = 1
	for {
		select {
		case <-stop:
			return
		default:
		}
		for i := 0; i < 1<<16; i++ {
			x = x*1103515245 + 12345
		}
		sink = x
	}
}

var sink uint64
