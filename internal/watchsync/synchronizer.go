package watchsync

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"streamhub/internal/shared"
)

// Store is the remote persistence surface for watch records. It is
// implemented by the media-server HTTP client; tests plug in fakes.
//
// GetWatchRecord returns (nil, nil) when no record exists for the pair;
// an error means transport failure, which is NOT treated as a miss.
type Store interface {
	GetWatchRecord(ctx context.Context, kind shared.RecordKind, userID, mediaItemID string) (*shared.WatchRecord, error)
	CreateWatchRecord(ctx context.Context, kind shared.RecordKind, record *shared.WatchRecord) (string, error)
	UpdateWatchRecord(ctx context.Context, kind shared.RecordKind, record *shared.WatchRecord) error
}

// RatingSource provides the aggregate community rating for an item.
type RatingSource interface {
	CommunityRating(ctx context.Context, kind shared.RecordKind, mediaItemID string) (*float64, error)
}

// State is a snapshot of the synchronizer's local view, handed to the
// screens for rendering.
type State struct {
	Record          shared.WatchRecord
	CommunityRating *float64 // nil until somebody rates the item
}

// Result is the explicit outcome of one persistence intent.
type Result struct {
	Persisted bool  // write acknowledged by the server
	Skipped   bool  // no record id yet; change kept client-only
	Queued    bool  // write failed and was queued for retry
	Err       error // failure reason when not persisted
}

// Notice is a non-blocking user-facing signal about background persistence.
type Notice struct {
	Op        string
	Err       error
	Attempt   int
	WillRetry bool
}

// Synchronizer owns the watch record for one (user, media item) pair and
// pushes every qualifying change to the server as a full-snapshot replace.
// All mutation intents are serialized through one mutex and the pushed
// snapshot is read under that lock immediately before each write, so two
// triggers can never overwrite each other's fields with stale values.
type Synchronizer struct {
	store   Store
	ratings RatingSource
	kind    shared.RecordKind
	logger  *slog.Logger

	maxRetries  int
	backoffBase time.Duration

	mu        sync.Mutex
	pushMu    sync.Mutex // serializes writes; snapshots are read only while holding it
	record    shared.WatchRecord
	community *float64
	dirty     bool
	closed    bool

	kick    chan struct{}
	stop    chan struct{}
	notices chan Notice
	wg      sync.WaitGroup
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Synchronizer) { s.logger = logger }
}

// WithRetryPolicy bounds the background retry queue: at most maxRetries
// attempts per intent, exponential backoff starting at base.
func WithRetryPolicy(maxRetries int, base time.Duration) Option {
	return func(s *Synchronizer) {
		s.maxRetries = maxRetries
		s.backoffBase = base
	}
}

// NewSynchronizer builds one synchronizer per screen instance. kind picks
// the movie or show record family; the same type serves both screens.
func NewSynchronizer(store Store, ratings RatingSource, kind shared.RecordKind, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		store:       store,
		ratings:     ratings,
		kind:        kind,
		logger:      slog.Default(),
		maxRetries:  3,
		backoffBase: 500 * time.Millisecond,
		kick:        make(chan struct{}, 1),
		stop:        make(chan struct{}),
		notices:     make(chan Notice, 16),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.wg.Add(1)
	go s.retryLoop()
	return s
}

// Notices exposes background persistence signals. The channel is bounded;
// when nobody is listening, notices are dropped rather than blocking.
func (s *Synchronizer) Notices() <-chan Notice {
	return s.notices
}

// Init loads or lazily creates the watch record for the pair. Both ids
// must be non-empty; otherwise the whole initialization is skipped as a
// deliberate no-op, not a failure. Every network problem here degrades:
// a rating failure leaves the rating display empty, a create failure
// leaves the record id unset (subsequent updates stay client-only).
func (s *Synchronizer) Init(ctx context.Context, userID, mediaItemID string) State {
	if userID == "" || mediaItemID == "" {
		return s.snapshot()
	}

	community, err := s.ratings.CommunityRating(ctx, s.kind, mediaItemID)
	if err != nil {
		s.logger.Debug("community rating unavailable", "kind", s.kind, "media", mediaItemID, "err", err)
		community = nil
	}

	s.mu.Lock()
	s.community = community
	s.record.UserID = userID
	s.record.MediaItemID = mediaItemID
	s.mu.Unlock()

	existing, err := s.store.GetWatchRecord(ctx, s.kind, userID, mediaItemID)
	switch {
	case err != nil:
		// Transport failure is not a miss: creating here could duplicate
		// the record, so the id stays unset and updates are dropped.
		s.logger.Warn("watch record lookup failed", "kind", s.kind, "err", err)
	case existing != nil:
		s.mu.Lock()
		s.record = *existing
		s.mu.Unlock()
	default:
		fresh := shared.WatchRecord{UserID: userID, MediaItemID: mediaItemID}
		id, err := s.store.CreateWatchRecord(ctx, s.kind, &fresh)
		if err != nil {
			s.logger.Warn("watch record create failed", "kind", s.kind, "err", err)
			s.notify(Notice{Op: "create", Err: err})
			break
		}
		s.mu.Lock()
		s.record = fresh
		s.record.RecordID = id
		s.mu.Unlock()
	}

	return s.snapshot()
}

// TimeUpdate records the latest playback position in memory only. Nothing
// is persisted until a pause event arrives.
func (s *Synchronizer) TimeUpdate(positionSeconds float64) {
	s.mu.Lock()
	s.record.PositionSeconds = positionSeconds
	s.mu.Unlock()
}

// SavePosition handles a pause event: the position overwrites whatever was
// known before and the full snapshot is pushed.
func (s *Synchronizer) SavePosition(ctx context.Context, positionSeconds float64) Result {
	return s.apply(ctx, "position", func(r *shared.WatchRecord) {
		r.PositionSeconds = positionSeconds
	})
}

// SetBookmarked handles the bookmark toggle.
func (s *Synchronizer) SetBookmarked(ctx context.Context, bookmarked bool) Result {
	return s.apply(ctx, "bookmark", func(r *shared.WatchRecord) {
		r.IsBookmarked = bookmarked
	})
}

// ToggleBookmark flips the current bookmark flag and returns the new value
// alongside the persistence result.
func (s *Synchronizer) ToggleBookmark(ctx context.Context) (bool, Result) {
	var newValue bool
	res := s.apply(ctx, "bookmark", func(r *shared.WatchRecord) {
		r.IsBookmarked = !r.IsBookmarked
		newValue = r.IsBookmarked
	})
	return newValue, res
}

// SetRating handles a user rating change.
func (s *Synchronizer) SetRating(ctx context.Context, rating int) Result {
	return s.apply(ctx, "rating", func(r *shared.WatchRecord) {
		r.UserRating = &rating
	})
}

// State returns the current local view.
func (s *Synchronizer) State() State {
	return s.snapshot()
}

// Close releases the synchronizer on screen teardown. Pending retries are
// abandoned, results landing afterwards are dropped instead of touching
// released state, and the notice channel is closed so listeners ranging
// over it terminate.
func (s *Synchronizer) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()
	close(s.stop)
	s.wg.Wait()

	s.mu.Lock()
	close(s.notices)
	s.mu.Unlock()
}

// apply mutates local state optimistically, then pushes the current
// snapshot if the record has been created remotely. The snapshot is read
// only after pushMu is held, immediately before the write, so a push can
// never carry older state than one that already landed. The local change
// is never rolled back on failure; a failed push goes to the retry queue.
func (s *Synchronizer) apply(ctx context.Context, op string, mutate func(*shared.WatchRecord)) Result {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Result{Skipped: true}
	}
	mutate(&s.record)
	if s.record.RecordID == "" {
		s.mu.Unlock()
		return Result{Skipped: true}
	}
	s.mu.Unlock()

	s.pushMu.Lock()
	snapshot := s.currentRecord()
	err := s.store.UpdateWatchRecord(ctx, s.kind, &snapshot)
	s.pushMu.Unlock()
	if err != nil {
		s.logger.Warn("watch record update failed", "op", op, "err", err)
		s.markDirty()
		s.notify(Notice{Op: op, Err: err, WillRetry: true})
		return Result{Queued: true, Err: err}
	}
	return Result{Persisted: true}
}

func (s *Synchronizer) snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{Record: s.record, CommunityRating: s.community}
}

func (s *Synchronizer) currentRecord() shared.WatchRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record
}

func (s *Synchronizer) markDirty() {
	s.mu.Lock()
	s.dirty = true
	s.mu.Unlock()
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// retryLoop drains failed pushes. The snapshot is read only after the
// backoff wait and after pushMu is held, so a retry always carries the
// latest intent for every field, including writes that landed while the
// retry was waiting; it can never revert them to the values from the
// attempt that failed.
func (s *Synchronizer) retryLoop() {
	defer s.wg.Done()
	for {
		select {
		case <-s.stop:
			return
		case <-s.kick:
		}

		attempt := 0
		for {
			s.mu.Lock()
			if s.closed || !s.dirty || s.record.RecordID == "" {
				s.dirty = false
				s.mu.Unlock()
				break
			}
			s.dirty = false
			s.mu.Unlock()

			select {
			case <-s.stop:
				return
			case <-time.After(s.backoffBase << attempt):
			}

			s.pushMu.Lock()
			snapshot := s.currentRecord()
			err := s.store.UpdateWatchRecord(context.Background(), s.kind, &snapshot)
			s.pushMu.Unlock()
			if err == nil {
				attempt = 0
				continue // re-check dirty; a newer intent may have landed
			}

			attempt++
			if attempt >= s.maxRetries {
				s.logger.Warn("watch record retry exhausted", "attempts", attempt, "err", err)
				s.notify(Notice{Op: "retry", Err: err, Attempt: attempt, WillRetry: false})
				break
			}
			s.logger.Debug("watch record retry failed", "attempt", attempt, "err", err)
			s.notify(Notice{Op: "retry", Err: err, Attempt: attempt, WillRetry: true})
			s.markDirty()
		}
	}
}

func (s *Synchronizer) notify(n Notice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.notices <- n:
	default:
		// nobody listening; a notice is advisory, never blocking
	}
}
