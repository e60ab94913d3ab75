package command

// screen.go holds the rendering and playback plumbing shared by the movie
// and show detail screens. Both screens drive the same synchronizer,
// parameterized only by record kind.

import (
	"context"
	"fmt"
	"strings"

	"streamhub/internal/metadata"
	"streamhub/internal/player"
	"streamhub/internal/shared"
	"streamhub/internal/watchsync"
)

// newSynchronizer wires a watch-state synchronizer for the logged-in user
// against the media server client.
func newSynchronizer(kind shared.RecordKind) (*watchsync.Synchronizer, error) {
	if _, err := requireSession(); err != nil {
		return nil, err
	}
	return watchsync.NewSynchronizer(app.Client, app.Client, kind,
		watchsync.WithLogger(app.Logger)), nil
}

// newMetadataProvider builds the external metadata client from config.
func newMetadataProvider() *metadata.Provider {
	return metadata.NewProvider(app.Config.MetadataAPIURL, app.Config.MetadataAPIKey,
		app.Config.MetadataRateLimit, app.Config.HTTPTimeout)
}

// formatCommunityRating renders the aggregate rating with the screens'
// empty-state copy. User ratings run 1 to 5, so the average does too.
func formatCommunityRating(rating *float64) string {
	if rating == nil {
		return "Be the first to rate!"
	}
	return fmt.Sprintf("%.2f / 5.00", *rating)
}

func printWatchState(state watchsync.State) {
	fmt.Printf("Community Rating: %s\n", formatCommunityRating(state.CommunityRating))
	if state.Record.IsBookmarked {
		fmt.Println("Bookmarked: ★")
	}
	if state.Record.UserRating != nil {
		fmt.Printf("Your Rating: %d\n", *state.Record.UserRating)
	}
	if state.Record.PositionSeconds > 0 {
		fmt.Printf("Resume From: %.0fs\n", state.Record.PositionSeconds)
	}
	if state.Record.WatchCount > 0 {
		fmt.Printf("Times Watched: %d\n", state.Record.WatchCount)
	}
}

// printMetadata renders the external provider section; nil details mean
// the provider had nothing (or failed), which degrades to a single line.
func printMetadata(details *metadata.Details) {
	if details == nil {
		fmt.Println("No Additional Info")
		return
	}

	fmt.Println("More Info:")
	if details.Overview != "" {
		fmt.Printf("Overview: %s\n", details.Overview)
	}
	fmt.Printf("Rating: %.1f/10\n", details.VoteAverage)
	if details.ReleaseDate != "" {
		fmt.Printf("Release Date: %s\n", details.ReleaseDate)
	}
	if len(details.Cast) > 0 {
		fmt.Println("Cast:")
		for _, c := range details.Cast {
			fmt.Printf("  %s as %s\n", c.Name, c.Character)
			fmt.Printf("    Photo: %s\n", metadata.ProfileImageURL(c.ProfilePath))
		}
	}
}

// watchNotices prints background persistence warnings while a screen is
// active, so failed saves are surfaced without blocking anything.
func watchNotices(sync *watchsync.Synchronizer) {
	go func() {
		for notice := range sync.Notices() {
			if notice.WillRetry {
				fmt.Printf("⚠ failed to save %s (will retry): %v\n", notice.Op, notice.Err)
			} else {
				fmt.Printf("⚠ failed to save %s: %v\n", notice.Op, notice.Err)
			}
		}
	}()
}

// playItem runs a playback session for one stream: mpv when available,
// otherwise it degrades to printing the direct-play URL. Pause events
// persist the position through the synchronizer; time updates stay in
// memory.
func playItem(ctx context.Context, itemID string, sync *watchsync.Synchronizer) error {
	streamURL := app.Client.StreamURL(itemID)
	resumeFrom := sync.State().Record.PositionSeconds

	src, err := player.LaunchMPV(ctx, app.Config.MpvPath, streamURL, resumeFrom)
	if err != nil {
		fmt.Printf("mpv unavailable (%v)\n", err)
		fmt.Printf("Stream URL: %s\n", streamURL)
		fmt.Println("Play it in your player of choice, then record your position with --position.")
		return nil
	}
	defer src.Close()

	if resumeFrom > 0 {
		fmt.Printf("Resuming from %.0fs\n", resumeFrom)
	}
	fmt.Println("Now playing. Pausing in mpv saves your position; close mpv to finish.")

	if err := player.Run(ctx, src, sync); err != nil && err != context.Canceled {
		return err
	}

	// Closing the player counts as a final pause at the last position.
	state := sync.State()
	sync.SavePosition(ctx, state.Record.PositionSeconds)
	return nil
}

// findItem resolves a positional argument against a listing, matching the
// item id first and the exact name second.
func findItem(items []shared.CatalogItem, arg string) (*shared.CatalogItem, error) {
	for i := range items {
		if items[i].ID == arg {
			return &items[i], nil
		}
	}
	for i := range items {
		if strings.EqualFold(items[i].Name, arg) {
			return &items[i], nil
		}
	}
	return nil, fmt.Errorf("'%s' not found in catalog", arg)
}
