package audius

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const defaultBaseURL = "https://discoveryprovider.audius.co"

// Track is the subset of the Audius track payload the marketplace cares about.
// Raw keeps the full response object for the asset's opaque metadata blob.
type Track struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	ArtistName string          `json:"artist_name"`
	ArtworkURL string          `json:"artwork_url"`
	Raw        json.RawMessage `json:"-"`
}

type trackResponse struct {
	Data struct {
		ID      string `json:"id"`
		Title   string `json:"title"`
		User    struct {
			Name   string `json:"name"`
			Handle string `json:"handle"`
		} `json:"user"`
		Artwork map[string]string `json:"artwork"`
	} `json:"data"`
}

// Client talks to an Audius discovery node. Transient failures are retried with
// backoff (reads are idempotent); a response that still fails after retries is
// surfaced to the caller.
type Client struct {
	BaseURL string
	AppName string
	HTTP    *retryablehttp.Client
}

func New(baseURL, appName string) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 250 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.HTTPClient.Timeout = 10 * time.Second
	rc.Logger = nil
	return &Client{BaseURL: baseURL, AppName: appName, HTTP: rc}
}

// GetTrack fetches one track by Audius track id.
func (c *Client) GetTrack(ctx context.Context, trackID string) (*Track, error) {
	base := c.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	url := fmt.Sprintf("%s/v1/tracks/%s?app_name=%s", strings.TrimRight(base, "/"), trackID, c.AppName)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("audius request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("audius error: status %d body: %s", resp.StatusCode, string(body))
	}

	var tr trackResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("audius response: %w", err)
	}
	if tr.Data.ID == "" {
		return nil, fmt.Errorf("audius: track %s not found", trackID)
	}

	track := &Track{
		ID:         tr.Data.ID,
		Title:      tr.Data.Title,
		ArtistName: tr.Data.User.Name,
		Raw:        body,
	}
	if track.ArtistName == "" {
		track.ArtistName = tr.Data.User.Handle
	}
	// Prefer the largest artwork rendition available.
	for _, size := range []string{"1000x1000", "480x480", "150x150"} {
		if url, ok := tr.Data.Artwork[size]; ok && url != "" {
			track.ArtworkURL = url
			break
		}
	}
	return track, nil
}
