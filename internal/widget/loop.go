package widget

import (
	"context"
	"sync"
)

// Epoch tags an asynchronous request so its response can be checked for staleness.
type Epoch uint64

// Observer is told about responses dropped because a newer request superseded them.
type Observer interface {
	StaleDiscarded(source string)
}

type nopObserver struct{}

func (nopObserver) StaleDiscarded(string) {}

// loop serializes every state transition of a widget: user input and response
// arrivals alike run one at a time under mu. Network calls run outside it.
type loop struct {
	mu     sync.Mutex
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

func newLoop() *loop {
	ctx, cancel := context.WithCancel(context.Background())
	return &loop{ctx: ctx, cancel: cancel}
}

// do runs fn as one event.
func (l *loop) do(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn()
}

// spawn starts call in the background and delivers its result to apply as a
// later event. Must be called with mu held.
func (l *loop) spawn(call func(ctx context.Context) func()) {
	if l.closed {
		return
	}
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		apply := call(l.ctx)

		l.mu.Lock()
		defer l.mu.Unlock()
		if l.closed {
			return
		}
		apply()
	}()
}

func (l *loop) close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	l.cancel()
}

func (l *loop) wait() {
	l.wg.Wait()
}
