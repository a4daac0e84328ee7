package bovada

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/linesmith/linesmith/internal/pkg/config"
)

const defaultBaseURL = "https://www.bovada.lv"

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

	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("X-Channel", "desktop")
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

// getNav fetches one level of the sport/league navigation tree.
func (c *httpClient) getNav(ctx context.Context, link string) (*navResponse, error) {
	url := fmt.Sprintf("%s/services/sports/event/v2/nav/A/description%s?azSorting=true&lang=en", c.baseURL, link)
	var nav navResponse
	if err := c.get(ctx, url, &nav); err != nil {
		return nil, err
	}
	return &nav, nil
}

// couponURL builds the coupon endpoint for one league link, pre-match or
// live.
func (c *httpClient) couponURL(link string, live bool) string {
	if live {
		return fmt.Sprintf("%s/services/sports/event/coupon/events/A/description%s?marketFilterId=def&liveOnly=true&eventsLimit=5000&lang=en", c.baseURL, link)
	}
	return fmt.Sprintf("%s/services/sports/event/coupon/events/A/description%s?marketFilterId=preMatchOnly=true&eventsLimit=5000&lang=en", c.baseURL, link)
}

func (c *httpClient) getCoupon(ctx context.Context, url string) ([]couponSection, error) {
	var sections []couponSection
	if err := c.get(ctx, url, &sections); err != nil {
		return nil, err
	}
	return sections, nil
}
