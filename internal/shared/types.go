package shared

// shared types across the application
// 1st: catalog item structure as returned by the media server
// 2nd: per-user watch record synced through the watch endpoints
// 3rd: add more shared types as needed

// RecordKind selects between the parallel user-movie and user-show
// endpoint families on the server.
type RecordKind string

const (
	KindMovie RecordKind = "movie"
	KindShow  RecordKind = "show"
)

// Ticks per minute in the server's RunTimeTicks field (100ns units).
const ticksPerMinute = 600_000_000

// CatalogItem is a playable entity from the media server. Movies, shows
// and episodes all come back in this shape; episodes additionally carry
// SeriesName plus the season/episode index numbers.
type CatalogItem struct {
	ID             string `json:"Id"`
	Name           string `json:"Name"`
	Type           string `json:"Type"` // "Movie", "Series", "Episode"
	SeriesName     string `json:"SeriesName,omitempty"`
	SeasonNumber   int    `json:"ParentIndexNumber,omitempty"`
	EpisodeNumber  int    `json:"IndexNumber,omitempty"`
	ProductionYear int    `json:"ProductionYear,omitempty"`
	OfficialRating string `json:"OfficialRating,omitempty"`
	RunTimeTicks   int64  `json:"RunTimeTicks,omitempty"`
	Container      string `json:"Container,omitempty"`
}

// RunTimeMinutes converts the server's 100ns tick runtime to whole minutes.
func (c CatalogItem) RunTimeMinutes() int64 {
	return c.RunTimeTicks / ticksPerMinute
}

// Maturity returns the official rating with the display fallback used by
// the detail screens.
func (c CatalogItem) Maturity() string {
	if c.OfficialRating == "" {
		return "Not Rated"
	}
	return c.OfficialRating
}

// WatchRecord is the per-user-per-item state persisted by the server.
// RecordID is empty until the record has been created remotely; the
// (UserID, MediaItemID) pair is the natural key used only for the initial
// lookup, every later update goes by RecordID alone.
type WatchRecord struct {
	RecordID        string  `json:"record_id,omitempty"`
	UserID          string  `json:"user_id"`
	MediaItemID     string  `json:"media_item_id"`
	IsBookmarked    bool    `json:"is_bookmarked"`
	PositionSeconds float64 `json:"playback_position_seconds"`
	UserRating      *int    `json:"user_rating"`
	WatchCount      int     `json:"watch_count"`
}
