// Package flashscore supplies the canonical-event universe from the
// flashscore scoreboard feeds: upcoming fixtures over an eight-day window
// and live/final status transitions for today's matches.
package flashscore

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/linesmith/linesmith/internal/pkg/config"
	"github.com/linesmith/linesmith/internal/pkg/models"
)

const (
	defaultBaseURL = "https://www.flashscore.com"
	defaultFeedURL = "https://global.flashscore.ninja/2"
	coreBundlePath = "/x/js/core_2_2188000000.js"
)

// Racing sports plus darts, boxing, golf and mma: no two-competitor odds
// boards worth reconciling.
var excludedSportIDs = map[int]bool{
	14: true, 16: true, 23: true, 28: true, 31: true, 32: true, 33: true,
	34: true, 35: true, 36: true, 37: true, 38: true, 39: true, 40: true,
	41: true,
}

// Provider fetches the scoreboard feeds. Days selects the day offsets to
// pull: 0..7 for the full fixture window, just 0 for a live status sweep.
type Provider struct {
	client  *http.Client
	cfg     *config.FlashscoreConfig
	days    []int
	logger  *slog.Logger
	baseURL string
	feedURL string
}

func NewProvider(cfg *config.FlashscoreConfig, days []int, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	if len(days) == 0 {
		days = []int{0, 1, 2, 3, 4, 5, 6, 7}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	feedURL := cfg.FeedURL
	if feedURL == "" {
		feedURL = defaultFeedURL
	}
	return &Provider{
		client:  &http.Client{},
		cfg:     cfg,
		days:    days,
		logger:  logger,
		baseURL: baseURL,
		feedURL: feedURL,
	}
}

func (p *Provider) Name() string { return "flashscore" }

// FetchEvents pulls every selected sport and day offset. Scheduled events
// already in the past are dropped; status records pass through for the
// ingest to apply.
func (p *Provider) FetchEvents(ctx context.Context) ([]*models.CanonicalEvent, error) {
	sports, err := p.fetchSportList(ctx)
	if err != nil {
		return nil, err
	}

	wanted := p.cfg.Sports
	now := time.Now().UTC()

	var events []*models.CanonicalEvent
	for name, id := range sports {
		if excludedSportIDs[id] {
			continue
		}
		if len(wanted) > 0 && !contains(wanted, name) {
			continue
		}
		for _, day := range p.days {
			text, err := p.fetchFeed(ctx, id, day)
			if err != nil {
				p.logger.Warn("feed fetch failed", "sport", name, "day", day, "error", err)
				continue
			}
			for _, ev := range ParseFeed(text, name) {
				if ev.Status == models.StatusScheduled && ev.Timestamp.Before(now) {
					continue
				}
				events = append(events, ev)
			}
		}
	}
	return events, nil
}

func (p *Provider) fetchSportList(ctx context.Context) (map[string]int, error) {
	body, err := p.get(ctx, p.baseURL+coreBundlePath)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch core bundle: %w", err)
	}
	return ParseSportList(body)
}

func (p *Provider) fetchFeed(ctx context.Context, sportID, day int) (string, error) {
	url := fmt.Sprintf("%s/x/feed/f_%d_%d_5_en_1", p.feedURL, sportID, day)
	return p.get(ctx, url)
}

func (p *Provider) get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "*/*")
	req.Header.Set("Origin", "https://www.flashscore.com")
	req.Header.Set("Referer", "https://www.flashscore.com/")
	req.Header.Set("x-fsign", "SW9D1eZo")
	if p.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", p.cfg.UserAgent)
	}
	for key, value := range p.cfg.Headers {
		req.Header.Set(key, value)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	return string(body), nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
