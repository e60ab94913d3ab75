package command

// show.go is the show-detail screen: seasons and episodes, playback with
// resume, bookmark toggle and rating. The watch record lives on the show,
// not on individual episodes, matching the server's record families.

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"streamhub/internal/catalog"
	"streamhub/internal/shared"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show detail commands",
	Long:  `View shows with their seasons and episodes, play, bookmark and rate.`,
}

var showInfoCmd = &cobra.Command{
	Use:   "info [title or id]",
	Short: "Show series details with seasons and episodes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		show, err := resolveShow(args[0])
		if err != nil {
			return err
		}
		seasonFilter, _ := cmd.Flags().GetInt("season")

		fmt.Printf("Title: %s\n", show.Name)
		if show.ProductionYear > 0 {
			fmt.Printf("Year: %d\n", show.ProductionYear)
		}
		fmt.Printf("Maturity: %s\n", show.Maturity())
		if show.RunTimeTicks > 0 {
			fmt.Printf("Run Time: %d min\n", show.RunTimeMinutes())
		}
		fmt.Printf("Poster: %s\n", app.Client.ImageURL(show.ID))

		if session, err := requireSession(); err == nil {
			sync, err := newSynchronizer(shared.KindShow)
			if err != nil {
				return err
			}
			defer sync.Close()
			state := sync.Init(cmd.Context(), session.UserID, show.ID)
			printWatchState(state)
		}

		seasons, err := loadSeasons(show.Name)
		if err != nil {
			return err
		}
		printSeasons(seasons, seasonFilter)

		details, err := newMetadataProvider().Lookup(cmd.Context(), shared.KindShow, show.Name)
		if err != nil {
			app.Logger.Debug("metadata lookup failed", "show", show.Name, "err", err)
			details = nil
		}
		printMetadata(details)
		return nil
	},
}

var showPlayCmd = &cobra.Command{
	Use:   "play [title or id]",
	Short: "Play an episode of a show",
	Long: `Play an episode through mpv. Select the episode with --season and
--episode; without them the first episode of the first season plays.
Pausing saves the position on the show's watch record; use --position to
record a position without launching the player.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := requireSession()
		if err != nil {
			return err
		}
		seasonNumber, _ := cmd.Flags().GetInt("season")
		episodeNumber, _ := cmd.Flags().GetInt("episode")
		position, _ := cmd.Flags().GetFloat64("position")

		show, err := resolveShow(args[0])
		if err != nil {
			return err
		}

		seasons, err := loadSeasons(show.Name)
		if err != nil {
			return err
		}
		episode, err := selectEpisode(seasons, seasonNumber, episodeNumber)
		if err != nil {
			return err
		}

		sync, err := newSynchronizer(shared.KindShow)
		if err != nil {
			return err
		}
		defer sync.Close()
		watchNotices(sync)

		sync.Init(cmd.Context(), session.UserID, show.ID)

		if cmd.Flags().Changed("position") {
			result := sync.SavePosition(cmd.Context(), position)
			if result.Skipped {
				fmt.Println("Position kept locally; the server has no record for this show yet.")
				return nil
			}
			fmt.Printf("✓ Position saved at %.1fs\n", position)
			return nil
		}

		fmt.Printf("Playing %s - %d. %s\n", show.Name, episode.EpisodeNumber, episode.Name)
		return playItem(cmd.Context(), episode.ID, sync)
	},
}

var showBookmarkCmd = &cobra.Command{
	Use:   "bookmark [title or id]",
	Short: "Toggle the bookmark on a show",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := requireSession()
		if err != nil {
			return err
		}

		show, err := resolveShow(args[0])
		if err != nil {
			return err
		}

		sync, err := newSynchronizer(shared.KindShow)
		if err != nil {
			return err
		}
		defer sync.Close()

		sync.Init(cmd.Context(), session.UserID, show.ID)
		bookmarked, _ := sync.ToggleBookmark(cmd.Context())
		if bookmarked {
			fmt.Printf("★ Bookmarked %s\n", show.Name)
		} else {
			fmt.Printf("Removed bookmark from %s\n", show.Name)
		}
		return nil
	},
}

var showRateCmd = &cobra.Command{
	Use:   "rate [title or id]",
	Short: "Rate a show",
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

		show, err := resolveShow(args[0])
		if err != nil {
			return err
		}

		sync, err := newSynchronizer(shared.KindShow)
		if err != nil {
			return err
		}
		defer sync.Close()

		sync.Init(cmd.Context(), session.UserID, show.ID)
		sync.SetRating(cmd.Context(), rating)
		fmt.Printf("✓ Rated %s: %d/5\n", show.Name, rating)
		return nil
	},
}

func resolveShow(arg string) (*shared.CatalogItem, error) {
	shows, err := app.Client.GetShows()
	if err != nil {
		return nil, fmt.Errorf("failed to get show list: %w", err)
	}
	return findItem(shows, arg)
}

// loadSeasons groups the full catalog listing into this show's seasons.
func loadSeasons(seriesName string) ([]catalog.Season, error) {
	items, err := app.Client.GetItems()
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog items: %w", err)
	}
	return catalog.GroupEpisodes(items, seriesName), nil
}

// selectEpisode picks an episode; zero season/episode numbers fall back to
// the default season and its first episode.
func selectEpisode(seasons []catalog.Season, seasonNumber, episodeNumber int) (*shared.CatalogItem, error) {
	var season *catalog.Season
	if seasonNumber > 0 {
		season = catalog.FindSeason(seasons, seasonNumber)
		if season == nil {
			return nil, fmt.Errorf("season %d not found", seasonNumber)
		}
	} else {
		season = catalog.DefaultSeason(seasons)
		if season == nil {
			return nil, fmt.Errorf("show has no episodes")
		}
	}

	if episodeNumber == 0 {
		return &season.Episodes[0], nil
	}
	for i := range season.Episodes {
		if season.Episodes[i].EpisodeNumber == episodeNumber {
			return &season.Episodes[i], nil
		}
	}
	return nil, fmt.Errorf("episode %d not found in %s", episodeNumber, season.Name)
}

func printSeasons(seasons []catalog.Season, seasonFilter int) {
	if len(seasons) == 0 {
		fmt.Println("No episodes found.")
		return
	}

	fmt.Println("Seasons:")
	for _, season := range seasons {
		if seasonFilter > 0 && season.Number != seasonFilter {
			continue
		}
		fmt.Printf("%s (%d episodes)\n", season.Name, len(season.Episodes))
		for _, ep := range season.Episodes {
			fmt.Printf("  %d. %s\n", ep.EpisodeNumber, ep.Name)
		}
		fmt.Println(strings.Repeat("-", 50))
	}
}

func init() {
	showCmd.AddCommand(showInfoCmd)
	showCmd.AddCommand(showPlayCmd)
	showCmd.AddCommand(showBookmarkCmd)
	showCmd.AddCommand(showRateCmd)

	showInfoCmd.Flags().Int("season", 0, "Only list this season")
	showPlayCmd.Flags().Int("season", 0, "Season number (default: first season)")
	showPlayCmd.Flags().Int("episode", 0, "Episode number within the season (default: first episode)")
	showPlayCmd.Flags().Float64("position", 0, "Record this position (seconds) instead of launching the player")
	showRateCmd.Flags().IntP("rating", "r", 0, "Rating from 1 to 5")
	showRateCmd.MarkFlagRequired("rating")
}
