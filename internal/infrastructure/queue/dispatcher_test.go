package queue

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/userdesk/user-management/internal/core/domain"
)

type collectingService struct {
	mu      sync.Mutex
	entries []domain.ActivityEntry
}

func (s *collectingService) Process(_ context.Context, entry domain.ActivityEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *collectingService) byActor(actor string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var actions []string
	for _, e := range s.entries {
		if e.Actor == actor {
			actions = append(actions, e.Action)
		}
	}
	return actions
}

func (s *collectingService) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func TestDispatcher_PreservesPerActorOrder(t *testing.T) {
	svc := &collectingService{}
	d := NewDispatcher(4, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	actions := []string{"register", "login", "role_change", "logout"}
	for _, a := range actions {
		d.Record(domain.ActivityEntry{Actor: "al@b.com", Action: a})
		d.Record(domain.ActivityEntry{Actor: "bob@b.com", Action: a})
	}

	deadline := time.After(2 * time.Second)
	for svc.total() < len(actions)*2 {
		select {
		case <-deadline:
			t.Fatalf("timed out waiting for entries, got %d", svc.total())
		case <-time.After(10 * time.Millisecond):
		}
	}

	for _, actor := range []string{"al@b.com", "bob@b.com"} {
		got := svc.byActor(actor)
		if len(got) != len(actions) {
			t.Fatalf("%s: expected %d entries, got %d", actor, len(actions), len(got))
		}
		for i, a := range actions {
			if got[i] != a {
				t.Fatalf("%s: order broken at %d: got %v", actor, i, got)
			}
		}
	}
}

func TestDispatcher_StopsOnContextCancel(t *testing.T) {
	svc := &collectingService{}
	d := NewDispatcher(1, svc, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	cancel()

	// The worker drains nothing after cancellation; entries enqueued now may
	// sit in the buffer but must not panic or block the producer.
	d.Record(domain.ActivityEntry{Actor: "al@b.com", Action: "login"})
}
