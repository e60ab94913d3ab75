package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamhub/internal/shared"
)

func episode(series string, season, ep int, name string) shared.CatalogItem {
	return shared.CatalogItem{
		ID:            name,
		Name:          name,
		Type:          "Episode",
		SeriesName:    series,
		SeasonNumber:  season,
		EpisodeNumber: ep,
	}
}

func TestGroupEpisodesOrdersSeasonsAndEpisodes(t *testing.T) {
	items := []shared.CatalogItem{
		episode("Breaking Code", 1, 2, "s1e2"),
		episode("Breaking Code", 1, 1, "s1e1"),
		episode("Breaking Code", 2, 1, "s2e1"),
	}

	seasons := GroupEpisodes(items, "Breaking Code")

	require.Len(t, seasons, 2)
	assert.Equal(t, 1, seasons[0].Number)
	assert.Equal(t, "Season 1", seasons[0].Name)
	require.Len(t, seasons[0].Episodes, 2)
	assert.Equal(t, "s1e1", seasons[0].Episodes[0].Name)
	assert.Equal(t, "s1e2", seasons[0].Episodes[1].Name)

	assert.Equal(t, 2, seasons[1].Number)
	require.Len(t, seasons[1].Episodes, 1)
	assert.Equal(t, "s2e1", seasons[1].Episodes[0].Name)
}

func TestGroupEpisodesFiltersOtherSeriesAndTypes(t *testing.T) {
	items := []shared.CatalogItem{
		episode("Breaking Code", 1, 1, "s1e1"),
		episode("Other Show", 1, 1, "other-s1e1"),
		{ID: "m1", Name: "Some Movie", Type: "Movie"},
		{ID: "series", Name: "Breaking Code", Type: "Series", SeriesName: "Breaking Code"},
	}

	seasons := GroupEpisodes(items, "Breaking Code")

	require.Len(t, seasons, 1)
	require.Len(t, seasons[0].Episodes, 1)
	assert.Equal(t, "s1e1", seasons[0].Episodes[0].Name)
}

func TestGroupEpisodesSkipsItemsWithoutSeasonIndex(t *testing.T) {
	items := []shared.CatalogItem{
		episode("Breaking Code", 0, 1, "special"),
		episode("Breaking Code", 1, 1, "s1e1"),
	}

	seasons := GroupEpisodes(items, "Breaking Code")

	require.Len(t, seasons, 1)
	assert.Equal(t, 1, seasons[0].Number)
}

func TestGroupEpisodesNumericOrderBeyondNine(t *testing.T) {
	// Season numbers must sort numerically: 2 before 10.
	items := []shared.CatalogItem{
		episode("Long Runner", 10, 1, "s10e1"),
		episode("Long Runner", 2, 1, "s2e1"),
	}

	seasons := GroupEpisodes(items, "Long Runner")

	require.Len(t, seasons, 2)
	assert.Equal(t, 2, seasons[0].Number)
	assert.Equal(t, 10, seasons[1].Number)
}

func TestDefaultSeason(t *testing.T) {
	assert.Nil(t, DefaultSeason(nil))

	seasons := GroupEpisodes([]shared.CatalogItem{
		episode("Show", 3, 1, "s3e1"),
		episode("Show", 1, 1, "s1e1"),
	}, "Show")

	def := DefaultSeason(seasons)
	require.NotNil(t, def)
	assert.Equal(t, 1, def.Number)
}

func TestFindSeason(t *testing.T) {
	seasons := GroupEpisodes([]shared.CatalogItem{
		episode("Show", 1, 1, "s1e1"),
		episode("Show", 2, 1, "s2e1"),
	}, "Show")

	found := FindSeason(seasons, 2)
	require.NotNil(t, found)
	assert.Equal(t, 2, found.Number)

	assert.Nil(t, FindSeason(seasons, 9))
}
