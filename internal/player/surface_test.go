package player

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamhub/internal/shared"
	"streamhub/internal/watchsync"
)

// memStore records every update pushed through the synchronizer.
type memStore struct {
	mu      sync.Mutex
	record  *shared.WatchRecord
	updates int
}

func (m *memStore) GetWatchRecord(ctx context.Context, kind shared.RecordKind, userID, mediaItemID string) (*shared.WatchRecord, error) {
	return nil, nil
}

func (m *memStore) CreateWatchRecord(ctx context.Context, kind shared.RecordKind, record *shared.WatchRecord) (string, error) {
	return "rec-1", nil
}

func (m *memStore) UpdateWatchRecord(ctx context.Context, kind shared.RecordKind, record *shared.WatchRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *record
	m.record = &copied
	m.updates++
	return nil
}

func (m *memStore) snapshot() (*shared.WatchRecord, int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.record, m.updates
}

type noRatings struct{}

func (noRatings) CommunityRating(ctx context.Context, kind shared.RecordKind, mediaItemID string) (*float64, error) {
	return nil, nil
}

// fakeSource plays back a scripted event sequence.
type fakeSource struct {
	events chan Event
}

func newFakeSource(script ...Event) *fakeSource {
	f := &fakeSource{events: make(chan Event, len(script))}
	for _, ev := range script {
		f.events <- ev
	}
	close(f.events)
	return f
}

func (f *fakeSource) Events() <-chan Event { return f.events }
func (f *fakeSource) Close() error         { return nil }

func TestRunPersistsOnlyOnPause(t *testing.T) {
	store := &memStore{}
	s := watchsync.NewSynchronizer(store, noRatings{}, shared.KindMovie)
	defer s.Close()
	s.Init(context.Background(), "user-1", "m1")

	src := newFakeSource(
		Event{Type: EventTimeUpdate, PositionSeconds: 10},
		Event{Type: EventTimeUpdate, PositionSeconds: 20},
		Event{Type: EventSeek, PositionSeconds: 300},
		Event{Type: EventTimeUpdate, PositionSeconds: 305},
		Event{Type: EventPause, PositionSeconds: 305},
	)

	require.NoError(t, Run(context.Background(), src, s))

	record, updates := store.snapshot()
	assert.Equal(t, 1, updates, "only the pause event persists")
	require.NotNil(t, record)
	assert.Equal(t, 305.0, record.PositionSeconds)
	assert.Equal(t, 305.0, s.State().Record.PositionSeconds)
}

func TestRunEndsWhenSourceCloses(t *testing.T) {
	store := &memStore{}
	s := watchsync.NewSynchronizer(store, noRatings{}, shared.KindMovie)
	defer s.Close()
	s.Init(context.Background(), "user-1", "m1")

	err := Run(context.Background(), newFakeSource(), s)
	assert.NoError(t, err)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	store := &memStore{}
	s := watchsync.NewSynchronizer(store, noRatings{}, shared.KindMovie)
	defer s.Close()

	src := &fakeSource{events: make(chan Event)} // never delivers
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- Run(ctx, src, s) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
