package player

import (
	"context"

	"streamhub/internal/watchsync"
)

// EventType classifies signals coming out of a playback widget.
type EventType int

const (
	// EventTimeUpdate carries the current position while playing.
	EventTimeUpdate EventType = iota
	// EventPause carries the position at the moment playback paused.
	EventPause
	// EventSeek carries the position after the user jumped.
	EventSeek
)

// Event is one playback signal with its position in seconds.
type Event struct {
	Type            EventType
	PositionSeconds float64
}

// Source is a platform playback widget surfacing its events as a stream.
// The channel closes when playback ends.
type Source interface {
	Events() <-chan Event
	Close() error
}

// Run forwards widget events into the synchronizer until playback ends or
// the context is cancelled. Time-update and seek signals touch in-memory
// state only; pause is the sole persistence trigger.
func Run(ctx context.Context, src Source, sync *watchsync.Synchronizer) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-src.Events():
			if !ok {
				return nil
			}
			switch ev.Type {
			case EventTimeUpdate, EventSeek:
				sync.TimeUpdate(ev.PositionSeconds)
			case EventPause:
				sync.SavePosition(ctx, ev.PositionSeconds)
			}
		}
	}
}
