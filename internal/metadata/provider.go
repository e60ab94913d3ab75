package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"streamhub/internal/shared"
)

// Details is what the detail screens render from the external provider.
type Details struct {
	Overview    string
	VoteAverage float64
	ReleaseDate string
	Cast        []CastMember
}

// CastMember is one credited actor.
type CastMember struct {
	Name        string
	Character   string
	ProfilePath string
}

// Provider talks to a TMDB-compatible metadata API. It is read-only
// display data: every failure degrades to "no additional info" on the
// screens, never an error state.
type Provider struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

// NewProvider builds a metadata client. ratePerSecond caps outgoing
// requests; the provider throttles aggressively misbehaving clients, so
// the limit is enforced on our side. timeout comes from HTTP_TIMEOUT
// config.
func NewProvider(baseURL, apiKey string, ratePerSecond int, timeout time.Duration) *Provider {
	if ratePerSecond < 1 {
		ratePerSecond = 1
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Provider{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(ratePerSecond), ratePerSecond),
	}
}

type searchResult struct {
	Results []struct {
		ID           int     `json:"id"`
		Title        string  `json:"title"`
		Name         string  `json:"name"`
		Overview     string  `json:"overview"`
		ReleaseDate  string  `json:"release_date"`
		FirstAirDate string  `json:"first_air_date"`
		VoteAverage  float64 `json:"vote_average"`
	} `json:"results"`
}

type creditsResult struct {
	Cast []struct {
		Name        string `json:"name"`
		Character   string `json:"character"`
		ProfilePath string `json:"profile_path"`
	} `json:"cast"`
}

// Lookup searches the provider by item name and returns the details for
// the best match, cast included. An empty cast list is a valid result;
// a search with no matches returns (nil, nil).
func (p *Provider) Lookup(ctx context.Context, kind shared.RecordKind, name string) (*Details, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("metadata API key not configured")
	}

	searchType := "movie"
	if kind == shared.KindShow {
		searchType = "tv"
	}

	var search searchResult
	reqURL := fmt.Sprintf("%s/search/%s?api_key=%s&query=%s",
		p.baseURL, searchType, p.apiKey, url.QueryEscape(name))
	if err := p.getJSON(ctx, reqURL, &search); err != nil {
		return nil, err
	}
	if len(search.Results) == 0 {
		return nil, nil
	}

	best := search.Results[0]
	details := &Details{
		Overview:    best.Overview,
		VoteAverage: best.VoteAverage,
		ReleaseDate: best.ReleaseDate,
	}
	if details.ReleaseDate == "" {
		details.ReleaseDate = best.FirstAirDate
	}

	// Cast comes from a second call; its failure degrades to an empty
	// list rather than failing the whole lookup.
	var credits creditsResult
	creditsURL := fmt.Sprintf("%s/%s/%d/credits?api_key=%s", p.baseURL, searchType, best.ID, p.apiKey)
	if err := p.getJSON(ctx, creditsURL, &credits); err == nil {
		for _, c := range credits.Cast {
			details.Cast = append(details.Cast, CastMember{
				Name:        c.Name,
				Character:   c.Character,
				ProfilePath: c.ProfilePath,
			})
		}
	}

	return details, nil
}

// ProfileImageURL builds the poster-sized profile image address, with the
// placeholder used when the actor has no image on file.
func ProfileImageURL(profilePath string) string {
	if profilePath == "" {
		return "https://via.placeholder.com/500x750?text=No+Image"
	}
	return "https://image.tmdb.org/t/p/w500" + profilePath
}

func (p *Provider) getJSON(ctx context.Context, reqURL string, out any) error {
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("metadata request failed: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
