package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/venturehq/demoday/internal/analytics"
	"github.com/venturehq/demoday/internal/demoday/domain"
	"github.com/venturehq/demoday/internal/demoday/storage"
	"github.com/venturehq/demoday/internal/demoday/storage/sqlite"
)

var testTime = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testTime }

// sequentialIDs returns a generator producing id-0001, id-0002, ...
func sequentialIDs() func() (string, error) {
	var mu sync.Mutex
	n := 0
	return func() (string, error) {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%04d", n), nil
	}
}

// recorderSink captures analytics events for assertions.
type recorderSink struct {
	mu     sync.Mutex
	events []analytics.Event
}

func (r *recorderSink) Capture(_ context.Context, event analytics.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorderSink) Events() []analytics.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]analytics.Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *recorderSink) countByName(name string) int {
	count := 0
	for _, event := range r.Events() {
		if event.Name == name {
			count++
		}
	}
	return count
}

type testEnv struct {
	svc    *Service
	store  *sqlite.Store
	sink   *recorderSink
	stores storage.Stores
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "demoday.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})

	sink := &recorderSink{}
	svc := New(Deps{
		Tx:        store,
		Stores:    store.Stores(),
		Analytics: sink,
		Clock:     fixedClock,
		NewID:     sequentialIDs(),
	})
	return &testEnv{svc: svc, store: store, sink: sink, stores: store.Stores()}
}

func (env *testEnv) seedEvent(t *testing.T) domain.Event {
	t.Helper()
	event := domain.Event{
		ID:        "event-1",
		Slug:      "demo-day-spring",
		Name:      "Spring Demo Day",
		StartsAt:  testTime,
		EndsAt:    testTime.Add(8 * time.Hour),
		Status:    domain.EventStatusActive,
		CreatedAt: testTime,
		UpdatedAt: testTime,
	}
	if err := env.stores.Events.CreateEvent(context.Background(), event); err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return event
}

func (env *testEnv) seedIdentity(t *testing.T, id, email string, tier domain.AccessTier) domain.Identity {
	t.Helper()
	identity := domain.Identity{
		ID:        id,
		Email:     email,
		Name:      "Seeded " + id,
		Tier:      tier,
		CreatedAt: testTime,
		UpdatedAt: testTime,
	}
	if err := env.stores.Identities.CreateIdentity(context.Background(), identity); err != nil {
		t.Fatalf("seed identity: %v", err)
	}
	return identity
}

func (env *testEnv) seedTeam(t *testing.T, id, name string) domain.Team {
	t.Helper()
	team := domain.Team{
		ID:        id,
		Name:      name,
		CreatedAt: testTime,
		UpdatedAt: testTime,
	}
	if err := env.stores.Teams.CreateTeam(context.Background(), team); err != nil {
		t.Fatalf("seed team: %v", err)
	}
	return team
}

func (env *testEnv) seedParticipant(t *testing.T, p domain.Participant) domain.Participant {
	t.Helper()
	if p.StatusChangedAt.IsZero() {
		p.StatusChangedAt = testTime
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = testTime
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = testTime
	}
	if err := env.stores.Participants.CreateParticipant(context.Background(), p); err != nil {
		t.Fatalf("seed participant: %v", err)
	}
	return p
}

func (env *testEnv) seedRole(t *testing.T, role domain.TeamRole) domain.TeamRole {
	t.Helper()
	if role.CreatedAt.IsZero() {
		role.CreatedAt = testTime
	}
	if role.UpdatedAt.IsZero() {
		role.UpdatedAt = testTime
	}
	if err := env.stores.Roles.CreateRole(context.Background(), role); err != nil {
		t.Fatalf("seed role: %v", err)
	}
	return role
}
