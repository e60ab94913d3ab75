package command

// movie.go is the movie-detail screen: details, community rating, cast,
// playback with resume, bookmark toggle and rating.

import (
	"fmt"

	"github.com/spf13/cobra"

	"streamhub/internal/shared"
)

var movieCmd = &cobra.Command{
	Use:   "movie",
	Short: "Movie detail commands",
	Long:  `View, play, bookmark and rate movies.`,
}

var movieInfoCmd = &cobra.Command{
	Use:   "info [title or id]",
	Short: "Show movie details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		movies, err := app.Client.GetMovies()
		if err != nil {
			return fmt.Errorf("failed to get movie list: %w", err)
		}
		movie, err := findItem(movies, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Title: %s\n", movie.Name)
		if movie.ProductionYear > 0 {
			fmt.Printf("Year: %d\n", movie.ProductionYear)
		}
		fmt.Printf("Maturity: %s\n", movie.Maturity())
		if movie.Container != "" {
			fmt.Printf("Container: %s\n", movie.Container)
		} else {
			fmt.Println("Container: Unknown")
		}
		fmt.Printf("Run Time: %d min\n", movie.RunTimeMinutes())
		fmt.Printf("Poster: %s\n", app.Client.ImageURL(movie.ID))

		// Watch state needs a session; without one the screen still
		// renders the catalog details above.
		if session, err := requireSession(); err == nil {
			sync, err := newSynchronizer(shared.KindMovie)
			if err != nil {
				return err
			}
			defer sync.Close()
			state := sync.Init(cmd.Context(), session.UserID, movie.ID)
			printWatchState(state)
		}

		// External metadata degrades silently to "No Additional Info".
		details, err := newMetadataProvider().Lookup(cmd.Context(), shared.KindMovie, movie.Name)
		if err != nil {
			app.Logger.Debug("metadata lookup failed", "movie", movie.Name, "err", err)
			details = nil
		}
		printMetadata(details)
		return nil
	},
}

var moviePlayCmd = &cobra.Command{
	Use:   "play [title or id]",
	Short: "Play a movie",
	Long: `Play a movie through mpv, resuming from the last saved position.
Pausing saves the position; use --position to record a position without
launching the player.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := requireSession()
		if err != nil {
			return err
		}
		position, _ := cmd.Flags().GetFloat64("position")

		movies, err := app.Client.GetMovies()
		if err != nil {
			return fmt.Errorf("failed to get movie list: %w", err)
		}
		movie, err := findItem(movies, args[0])
		if err != nil {
			return err
		}

		sync, err := newSynchronizer(shared.KindMovie)
		if err != nil {
			return err
		}
		defer sync.Close()
		watchNotices(sync)

		sync.Init(cmd.Context(), session.UserID, movie.ID)

		if cmd.Flags().Changed("position") {
			result := sync.SavePosition(cmd.Context(), position)
			if result.Skipped {
				fmt.Println("Position kept locally; the server has no record for this movie yet.")
				return nil
			}
			fmt.Printf("✓ Position saved at %.1fs\n", position)
			return nil
		}

		return playItem(cmd.Context(), movie.ID, sync)
	},
}

var movieBookmarkCmd = &cobra.Command{
	Use:   "bookmark [title or id]",
	Short: "Toggle the bookmark on a movie",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := requireSession()
		if err != nil {
			return err
		}

		movies, err := app.Client.GetMovies()
		if err != nil {
			return fmt.Errorf("failed to get movie list: %w", err)
		}
		movie, err := findItem(movies, args[0])
		if err != nil {
			return err
		}

		sync, err := newSynchronizer(shared.KindMovie)
		if err != nil {
			return err
		}
		defer sync.Close()

		sync.Init(cmd.Context(), session.UserID, movie.ID)
		bookmarked, _ := sync.ToggleBookmark(cmd.Context())
		if bookmarked {
			fmt.Printf("★ Bookmarked %s\n", movie.Name)
		} else {
			fmt.Printf("Removed bookmark from %s\n", movie.Name)
		}
		return nil
	},
}

var movieRateCmd = &cobra.Command{
	Use:   "rate [title or id]",
	Short: "Rate a movie",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := requireSession()
		if err != nil {
			return err
		}
		rating, _ := cmd.Flags().GetInt("rating")
		if rating < 1 || rating > 5 {
			return fmt.Errorf("--rating must be between 1 and 5")
		}

		movies, err := app.Client.GetMovies()
		if err != nil {
			return fmt.Errorf("failed to get movie list: %w", err)
		}
		movie, err := findItem(movies, args[0])
		if err != nil {
			return err
		}

		sync, err := newSynchronizer(shared.KindMovie)
		if err != nil {
			return err
		}
		defer sync.Close()

		sync.Init(cmd.Context(), session.UserID, movie.ID)
		sync.SetRating(cmd.Context(), rating)
		fmt.Printf("✓ Rated %s: %d/5\n", movie.Name, rating)
		return nil
	},
}

func init() {
	movieCmd.AddCommand(movieInfoCmd)
	movieCmd.AddCommand(moviePlayCmd)
	movieCmd.AddCommand(movieBookmarkCmd)
	movieCmd.AddCommand(movieRateCmd)

	moviePlayCmd.Flags().Float64("position", 0, "Record this position (seconds) instead of launching the player")
	movieRateCmd.Flags().IntP("rating", "r", 0, "Rating from 1 to 5")
	movieRateCmd.MarkFlagRequired("rating")
}
