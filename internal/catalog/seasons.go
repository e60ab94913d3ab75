package catalog

import (
	"fmt"
	"sort"

	"streamhub/internal/shared"
)

// Season is one season of a show with its episodes in play order.
type Season struct {
	Number   int
	Name     string
	Episodes []shared.CatalogItem
}

// GroupEpisodes takes a flat catalog listing, keeps the episodes belonging
// to the named series and groups them by season. Episodes are sorted by
// episode index ascending within a season; seasons come back sorted by
// season number ascending so the default selection is deterministic.
// Items without a season index are skipped.
func GroupEpisodes(items []shared.CatalogItem, seriesName string) []Season {
	bySeason := make(map[int][]shared.CatalogItem)
	for _, item := range items {
		if item.Type != "Episode" || item.SeriesName != seriesName {
			continue
		}
		if item.SeasonNumber == 0 {
			continue
		}
		bySeason[item.SeasonNumber] = append(bySeason[item.SeasonNumber], item)
	}

	numbers := make([]int, 0, len(bySeason))
	for n := range bySeason {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	seasons := make([]Season, 0, len(numbers))
	for _, n := range numbers {
		episodes := bySeason[n]
		sort.SliceStable(episodes, func(i, j int) bool {
			return episodes[i].EpisodeNumber < episodes[j].EpisodeNumber
		})
		seasons = append(seasons, Season{
			Number:   n,
			Name:     fmt.Sprintf("Season %d", n),
			Episodes: episodes,
		})
	}
	return seasons
}

// DefaultSeason returns the season shown before the user picks one: the
// lowest season number present, or nil when the show has no episodes.
func DefaultSeason(seasons []Season) *Season {
	if len(seasons) == 0 {
		return nil
	}
	return &seasons[0]
}

// FindSeason looks a season up by number.
func FindSeason(seasons []Season, number int) *Season {
	for i := range seasons {
		if seasons[i].Number == number {
			return &seasons[i]
		}
	}
	return nil
}
