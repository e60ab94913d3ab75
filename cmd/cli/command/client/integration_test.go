package client

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamhub/internal/mockserver"
	"streamhub/internal/shared"
	"streamhub/internal/watchsync"
)

// End-to-end wiring: real HTTP client as both Store and RatingSource,
// driven by the synchronizer against the fake server.

func newSyncedClient(t *testing.T) (*watchsync.Synchronizer, *mockserver.Server) {
	t.Helper()
	mock := mockserver.New()
	ts := httptest.NewServer(mock.Handler())
	t.Cleanup(ts.Close)

	c := NewHTTPClient(ts.URL, 10*time.Second)
	s := watchsync.NewSynchronizer(c, c, shared.KindMovie,
		watchsync.WithRetryPolicy(2, time.Millisecond))
	t.Cleanup(s.Close)
	return s, mock
}

func TestDetailScreenFirstVisitCreatesOneRecord(t *testing.T) {
	s, mock := newSyncedClient(t)

	state := s.Init(context.Background(), "user-1", "m1")

	assert.Equal(t, 1, mock.CreateCalls)
	assert.Equal(t, 1, mock.RecordCount(shared.KindMovie))
	assert.NotEmpty(t, state.Record.RecordID)
	assert.Nil(t, state.CommunityRating, "unrated item renders the placeholder")
}

func TestDetailScreenRevisitReusesRecord(t *testing.T) {
	s, mock := newSyncedClient(t)
	three := 3
	seeded := mock.SeedRecord(shared.KindMovie, shared.WatchRecord{
		UserID:          "user-1",
		MediaItemID:     "m1",
		PositionSeconds: 88,
		UserRating:      &three,
	})

	state := s.Init(context.Background(), "user-1", "m1")

	assert.Zero(t, mock.CreateCalls)
	assert.Equal(t, seeded, state.Record.RecordID)
	assert.Equal(t, 88.0, state.Record.PositionSeconds)
	require.NotNil(t, state.CommunityRating)
	assert.Equal(t, 3.0, *state.CommunityRating)
}

func TestPausePersistsFullSnapshotOverHTTP(t *testing.T) {
	s, mock := newSyncedClient(t)
	state := s.Init(context.Background(), "user-1", "m1")

	s.SetBookmarked(context.Background(), true)
	s.TimeUpdate(100)
	s.TimeUpdate(125.4)
	res := s.SavePosition(context.Background(), 125.4)
	require.True(t, res.Persisted)

	stored := mock.Record(shared.KindMovie, state.Record.RecordID)
	require.NotNil(t, stored)
	assert.Equal(t, 125.4, stored.PositionSeconds)
	assert.True(t, stored.IsBookmarked)
	assert.Equal(t, "user-1", stored.UserID)
	assert.Equal(t, "m1", stored.MediaItemID)
}

func TestFailedCreateKeepsChangesClientOnly(t *testing.T) {
	s, mock := newSyncedClient(t)
	mock.FailCreates = true

	state := s.Init(context.Background(), "user-1", "m1")
	assert.Empty(t, state.Record.RecordID)

	res := s.SavePosition(context.Background(), 60)
	assert.True(t, res.Skipped)
	assert.Zero(t, mock.UpdateCalls)
}
