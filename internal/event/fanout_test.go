package event

import (
	"testing"

	"deal-pulse/internal/domain"
)

type countingPublisher struct {
	count int
}

func (p *countingPublisher) Publish(room string, event domain.Event) {
	p.count++
}

func TestFanoutPublishesToAllSinks(t *testing.T) {
	a := &countingPublisher{}
	b := &countingPublisher{}
	f := NewFanout(a, nil, b)

	f.Publish("user-1", domain.Event{Name: domain.EventDealMoved})

	if a.count != 1 || b.count != 1 {
		t.Fatalf("expected both sinks published, got %d/%d", a.count, b.count)
	}
}

func TestFanoutLateAdd(t *testing.T) {
	f := NewFanout()
	f.Publish("user-1", domain.Event{Name: domain.EventDealMoved})

	late := &countingPublisher{}
	f.Add(late)
	f.Publish("user-1", domain.Event{Name: domain.EventDealMoved})

	if late.count != 1 {
		t.Fatalf("expected late sink to receive 1 event, got %d", late.count)
	}
}
