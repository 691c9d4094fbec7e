package event

import (
	"sync"

	"deal-pulse/internal/domain"
)

// Fanout publishes to several sinks at once. Sinks can be added after
// construction, so optional ones (the Telegram dispatcher) can join late in
// the boot sequence.
type Fanout struct {
	mu    sync.RWMutex
	sinks []Publisher
}

func NewFanout(sinks ...Publisher) *Fanout {
	f := &Fanout{}
	for _, p := range sinks {
		f.Add(p)
	}
	return f
}

func (f *Fanout) Add(p Publisher) {
	if p == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sinks = append(f.sinks, p)
}

func (f *Fanout) Publish(room string, event domain.Event) {
	f.mu.RLock()
	sinks := make([]Publisher, len(f.sinks))
	copy(sinks, f.sinks)
	f.mu.RUnlock()

	for _, p := range sinks {
		p.Publish(room, event)
	}
}
