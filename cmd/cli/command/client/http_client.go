package client

// http_client.go = handles HTTP client functionality for the streamhubCLI application.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"streamhub/cmd/cli/dto"
	"streamhub/internal/shared"
)

// defines the HTTP client structure and methods
type HTTPClient struct {
	baseURL     string
	httpClient  *http.Client
	token       string // session token, set after login / auth-session
	accessToken string // static api key appended to image and stream URLs
	deviceID    string
}

// Watch-record request/response structures

type CreateRecordResponse struct {
	InsertedID string `json:"inserted_id"`
}

type CommunityRatingResponse struct {
	Average *float64 `json:"average"`
}

// constructor for HTTP client; timeout comes from HTTP_TIMEOUT config
func NewHTTPClient(apiURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL: apiURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// set session token for HTTP client
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// set static access token used in image/stream URLs
func (c *HTTPClient) SetAccessToken(accessToken string) {
	c.accessToken = accessToken
}

// set device id sent with every authenticated request
func (c *HTTPClient) SetDeviceID(deviceID string) {
	c.deviceID = deviceID
}

// login method for HTTP client
func (c *HTTPClient) Login(request *dto.LoginRequest) (*dto.LoginResponse, error) {
	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}

	response, err := c.httpClient.Post(c.baseURL+"/users/login", "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	defer response.Body.Close() // Ensure the response body is closed

	// check for non-200 status code => login failed
	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("login failed with status: %s", response.Status)
	}

	var result dto.LoginResponse

	// if decoding the response fails, return error
	if err := json.NewDecoder(response.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// silent re-authentication with a previously stored session token
func (c *HTTPClient) AuthSession(token string) (*dto.AuthSessionResponse, error) {
	jsonData, err := json.Marshal(&dto.AuthSessionRequest{Token: token})
	if err != nil {
		return nil, err
	}

	response, err := c.httpClient.Post(c.baseURL+"/users/auth-session", "application/json", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("session auth failed with status: %s", response.Status)
	}

	var result dto.AuthSessionResponse
	if err := json.NewDecoder(response.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Catalog lookups

func (c *HTTPClient) GetItems() ([]shared.CatalogItem, error) {
	return c.getItems("")
}

func (c *HTTPClient) GetMovies() ([]shared.CatalogItem, error) {
	return c.getItems("Movie")
}

func (c *HTTPClient) GetShows() ([]shared.CatalogItem, error) {
	return c.getItems("Series")
}

func (c *HTTPClient) getItems(itemType string) ([]shared.CatalogItem, error) {
	reqURL := c.baseURL + "/Items"
	if itemType != "" {
		reqURL += "?type=" + url.QueryEscape(itemType)
	}

	req, err := http.NewRequest("GET", reqURL, nil)
	if err != nil {
		return nil, err
	}
	c.setAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get catalog items: %s", resp.Status)
	}

	var result []shared.CatalogItem
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return result, nil
}

// ImageURL builds the primary image address for an item, access token included.
func (c *HTTPClient) ImageURL(itemID string) string {
	return fmt.Sprintf("%s/Items/%s/Images/Primary?api_key=%s", c.baseURL, itemID, url.QueryEscape(c.accessToken))
}

// StreamURL builds the direct-play video address for an item.
func (c *HTTPClient) StreamURL(itemID string) string {
	return fmt.Sprintf("%s/Videos/%s/stream?api_key=%s&DirectPlay=true&Static=true", c.baseURL, itemID, url.QueryEscape(c.accessToken))
}

// Watch-record endpoints. Movies and shows are parallel endpoint families
// distinguished only by the path segment.

func recordPath(kind shared.RecordKind) string {
	if kind == shared.KindShow {
		return "user-show-info"
	}
	return "user-movie-info"
}

// GetWatchRecord looks a record up by its natural key. A miss (404) is not
// an error: it returns (nil, nil) and the caller is expected to create the
// record with zeroed defaults.
func (c *HTTPClient) GetWatchRecord(ctx context.Context, kind shared.RecordKind, userID, mediaItemID string) (*shared.WatchRecord, error) {
	reqURL := fmt.Sprintf("%s/api/%s/%s/%s", c.baseURL, recordPath(kind), userID, mediaItemID)
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}
	c.setAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get watch record: %s", resp.Status)
	}

	var result shared.WatchRecord
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreateWatchRecord persists a brand-new record and returns the identifier
// assigned by the server.
func (c *HTTPClient) CreateWatchRecord(ctx context.Context, kind shared.RecordKind, record *shared.WatchRecord) (string, error) {
	jsonData, err := json.Marshal(record)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/api/%s", c.baseURL, recordPath(kind)), bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	c.setAuthHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("failed to create watch record: %s", resp.Status)
	}

	var result CreateRecordResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	return result.InsertedID, nil
}

// UpdateWatchRecord is a full-replace write keyed by the record id; the
// payload must carry the latest value of every field.
func (c *HTTPClient) UpdateWatchRecord(ctx context.Context, kind shared.RecordKind, record *shared.WatchRecord) error {
	jsonData, err := json.Marshal(record)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "PUT", fmt.Sprintf("%s/api/%s/%s", c.baseURL, recordPath(kind), record.RecordID), bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	c.setAuthHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to update watch record: %s", resp.Status)
	}
	return nil
}

// CommunityRating fetches the aggregate user rating for an item. A nil
// result means nobody has rated it yet.
func (c *HTTPClient) CommunityRating(ctx context.Context, kind shared.RecordKind, mediaItemID string) (*float64, error) {
	reqURL := fmt.Sprintf("%s/api/ratings/%s/%s", c.baseURL, string(kind), mediaItemID)
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}
	c.setAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get community rating: %s", resp.Status)
	}

	var result CommunityRatingResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return result.Average, nil
}

func (c *HTTPClient) setAuthHeaders(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.deviceID != "" {
		req.Header.Set("X-Device-Id", c.deviceID)
	}
}
