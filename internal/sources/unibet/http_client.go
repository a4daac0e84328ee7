package unibet

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/linesmith/linesmith/internal/pkg/config"
)

const (
	defaultBaseURL = "https://www.unibet.mt"
	// Odds come from the shared Kambi offering API, not the unibet host.
	offeringBaseURL = "https://eu-offering-api.kambicdn.com/offering/v2018/ubca"
)

type httpClient struct {
	client  *http.Client
	baseURL string
	cfg     *config.SourceConfig
}

func newHTTPClient(cfg *config.SourceConfig) *httpClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &httpClient{
		client:  &http.Client{},
		baseURL: baseURL,
		cfg:     cfg,
	}
}

func (c *httpClient) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "*/*")
	req.Header.Set("Referer", c.baseURL+"/betting/sports/home")
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	for key, value := range c.cfg.Headers {
		req.Header.Set(key, value)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzReader.Close()
		body = gzReader
	}

	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *httpClient) getSportsNav(ctx context.Context) (*feedResponse, error) {
	var feed feedResponse
	url := c.baseURL + "/sportsbook-feeds/views/sports/a-z"
	if err := c.get(ctx, url, &feed); err != nil {
		return nil, err
	}
	return &feed, nil
}

// matchesURL is the all-matches view for one sport slug.
func (c *httpClient) matchesURL(sport string) string {
	slug := strings.ToLower(strings.ReplaceAll(sport, " ", "_"))
	return fmt.Sprintf("%s/sportsbook-feeds/views/filter/%s/all/matches?includeParticipants=true&useCombined=true", c.baseURL, slug)
}

func (c *httpClient) getMatches(ctx context.Context, url string) (*feedResponse, error) {
	var feed feedResponse
	if err := c.get(ctx, url, &feed); err != nil {
		return nil, err
	}
	return &feed, nil
}

func (c *httpClient) getBetOffers(ctx context.Context, eventID int64) (*betOfferResponse, error) {
	var offers betOfferResponse
	url := fmt.Sprintf("%s/betoffer/event/%d.json?lang=en_GB&market=ZZ&client_id=2&channel_id=1&includeParticipants=true", offeringBaseURL, eventID)
	if err := c.get(ctx, url, &offers); err != nil {
		return nil, err
	}
	return &offers, nil
}
