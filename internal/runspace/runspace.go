// Package runspace implements the host-shell runspace pool contract
// spec.md §5 describes: allocation is dequeue-or-construct,
// deallocation enqueues the runspace and arms an idle timer that
// disposes one pooled runspace per tick until the pool drains, and any
// new allocation resets that timer. Actually spawning a host-shell
// process is an external collaborator (spec.md §1); this package only
// provides the in-process pooling contract and a reference
// implementation callers can plug a real constructor/closer into.
package runspace

import (
	"sync"
	"time"
)

// Runspace is an opaque handle to one pooled external-process
// resource. The pool only moves these around; it never inspects them.
type Runspace interface {
	// Close releases the underlying host resource (kills the shell
	// process, closes its pipes, etc).
	Close() error
}

// Pool is a dequeue-or-construct allocator over a set of Runspace
// handles; it places no limit on how many it constructs or keeps idle (spec.md §5 "Shared resources... the runspace
// pool"). Safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	idle    []Runspace
	ticker  *time.Ticker
	stop    chan struct{}
	tick    time.Duration
	new     func() (Runspace, error)
	stopped bool
}

// New constructs a Pool. newFn builds a fresh Runspace when the idle
// queue is empty; idleTick is how often the drain timer ticks once
// deallocation has begun.
func New(newFn func() (Runspace, error), idleTick time.Duration) *Pool {
	return &Pool{new: newFn, tick: idleTick}
}

// Allocate dequeues an idle runspace if one is available, otherwise
// constructs a new one. Any allocation resets the idle drain timer, so
// a runspace returned to the pool and immediately reclaimed is never
// disposed.
func (p *Pool) Allocate() (Runspace, error) {
	p.mu.Lock()
	if len(p.idle) > 0 {
		rs := p.idle[len(p.idle)-1]
		p.idle = p.idle[:len(p.idle)-1]
		p.resetTimerLocked()
		p.mu.Unlock()
		return rs, nil
	}
	p.mu.Unlock()
	return p.new()
}

// Deallocate returns rs to the idle queue and arms the drain timer if
// it isn't already running.
func (p *Pool) Deallocate(rs Runspace) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.idle = append(p.idle, rs)
	if p.ticker == nil {
		p.armTimerLocked()
	}
}

// Idle reports how many runspaces currently sit in the idle queue.
func (p *Pool) Idle() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.idle)
}

// Shutdown stops the drain timer and closes every idle runspace.
func (p *Pool) Shutdown() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopTimerLocked()
	var first error
	for _, rs := range p.idle {
		if err := rs.Close(); err != nil && first == nil {
			first = err
		}
	}
	p.idle = nil
	return first
}

// resetTimerLocked restarts the drain timer from zero; called on every
// allocation so that a reclaim doesn't count against the remaining
// idle runspaces' time-to-live. Only rearms if the idle queue is still
// non-empty.
func (p *Pool) resetTimerLocked() {
	p.stopTimerLocked()
	if len(p.idle) > 0 {
		p.armTimerLocked()
	}
}

func (p *Pool) armTimerLocked() {
	if p.stopped || p.tick <= 0 {
		return
	}
	p.ticker = time.NewTicker(p.tick)
	p.stop = make(chan struct{})
	go p.drainLoop(p.ticker, p.stop)
}

func (p *Pool) stopTimerLocked() {
	if p.ticker == nil {
		return
	}
	p.ticker.Stop()
	close(p.stop)
	p.ticker = nil
	p.stop = nil
}

// drainLoop disposes one idle runspace per tick until the pool is
// empty, then lets the timer stop itself.
func (p *Pool) drainLoop(ticker *time.Ticker, stop chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			p.mu.Lock()
			if len(p.idle) == 0 {
				p.stopTimerLocked()
				p.mu.Unlock()
				return
			}
			rs := p.idle[len(p.idle)-1]
			p.idle = p.idle[:len(p.idle)-1]
			p.mu.Unlock()
			rs.Close()
		}
	}
}
