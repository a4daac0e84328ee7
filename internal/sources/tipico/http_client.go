package tipico

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/linesmith/linesmith/internal/pkg/config"
)

const (
	defaultBaseURL     = "https://sports.tipico.com"
	mirrorResolveLimit = 30 * time.Second
)

type httpClient struct {
	client  *http.Client
	baseURL string
	cfg     *config.TipicoConfig
}

// newHTTPClient builds the client, resolving the mirror link to the real
// site when one is configured. A failed resolution falls back to the
// configured or default base URL.
func newHTTPClient(cfg *config.TipicoConfig, logger *slog.Logger) *httpClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if cfg.MirrorURL != "" {
		resolved, err := resolveMirror(cfg.MirrorURL, mirrorResolveLimit, logger)
		if err != nil {
			logger.Warn("mirror resolution failed, using base url",
				"mirror", cfg.MirrorURL, "base_url", baseURL, "error", err)
		} else {
			baseURL = resolved
		}
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
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	for key, value := range c.cfg.Headers {
		req.Header.Set(key, value)
	}
	// English captions regardless of the site's locale default.
	req.AddCookie(&http.Cookie{Name: "language", Value: "en"})

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

func (c *httpClient) getNavigationTree(ctx context.Context) (*navNode, error) {
	var root navNode
	url := c.baseURL + "/json/program/navigationTree/all"
	if err := c.get(ctx, url, &root); err != nil {
		return nil, err
	}
	return &root, nil
}

// groupEventsURL is the per-league event listing for one groupId.
func (c *httpClient) groupEventsURL(groupID int64) string {
	return fmt.Sprintf("%s/json/program/selectedEvents/all/%d?oneSectionResult=true&maxMarkets=2&language=de", c.baseURL, groupID)
}

func (c *httpClient) getGroupEvents(ctx context.Context, url string) (*selectionResponse, error) {
	var sel selectionResponse
	if err := c.get(ctx, url, &sel); err != nil {
		return nil, err
	}
	return &sel, nil
}

func (c *httpClient) getEventDetail(ctx context.Context, eventID int64) (*eventDetail, error) {
	var detail eventDetail
	url := fmt.Sprintf("%s/json/services/event/%d", c.baseURL, eventID)
	if err := c.get(ctx, url, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}
