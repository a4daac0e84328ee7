package tipico

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

const mirrorUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/130.0.0.0 Safari/537.36"

// resolveMirror resolves the actual site URL from a mirror link. HTTP
// redirects are tried first; mirrors that redirect via JavaScript fall back
// to a headless browser.
func resolveMirror(mirrorURL string, timeout time.Duration, logger *slog.Logger) (string, error) {
	client := &http.Client{Timeout: timeout}

	req, err := http.NewRequest(http.MethodHead, mirrorURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", mirrorUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return resolveMirrorWithJS(mirrorURL, timeout)
	}
	resp.Body.Close()

	finalURL := resp.Request.URL.String()
	if finalURL != mirrorURL {
		logger.Info("resolved mirror via redirect", "mirror", mirrorURL, "resolved", finalURL)
		return strings.TrimSuffix(finalURL, "/"), nil
	}

	// HEAD didn't move; fetch the page and look for a scripted redirect.
	req, err = http.NewRequest(http.MethodGet, mirrorURL, nil)
	if err != nil {
		return resolveMirrorWithJS(mirrorURL, timeout)
	}
	req.Header.Set("User-Agent", mirrorUserAgent)

	resp, err = client.Do(req)
	if err != nil {
		return resolveMirrorWithJS(mirrorURL, timeout)
	}
	defer resp.Body.Close()

	if strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		body, err := io.ReadAll(resp.Body)
		if err == nil {
			s := string(body)
			if strings.Contains(s, "window.location") || strings.Contains(s, "location.href") ||
				strings.Contains(s, "document.location") {
				return resolveMirrorWithJS(mirrorURL, timeout)
			}
		}
	}

	finalURL = resp.Request.URL.String()
	if finalURL != mirrorURL {
		logger.Info("resolved mirror via redirect", "mirror", mirrorURL, "resolved", finalURL)
		return strings.TrimSuffix(finalURL, "/"), nil
	}

	return resolveMirrorWithJS(mirrorURL, timeout)
}

// resolveMirrorWithJS loads the mirror in headless Chrome and reads the URL
// the page lands on after scripts run.
func resolveMirrorWithJS(mirrorURL string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserAgent(mirrorUserAgent),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	ctx, cancel = chromedp.NewContext(allocCtx)
	defer cancel()

	var finalURL string
	err := chromedp.Run(ctx,
		chromedp.Navigate(mirrorURL),
		chromedp.Sleep(2*time.Second),
		chromedp.Location(&finalURL),
	)
	if err != nil {
		return "", fmt.Errorf("chromedp navigation: %w", err)
	}

	if finalURL == "" || finalURL == mirrorURL {
		err = chromedp.Run(ctx,
			chromedp.Sleep(3*time.Second),
			chromedp.Location(&finalURL),
		)
		if err != nil {
			return "", fmt.Errorf("chromedp wait: %w", err)
		}
	}

	if finalURL == "" {
		return "", fmt.Errorf("failed to resolve mirror URL: %s", mirrorURL)
	}
	return strings.TrimSuffix(finalURL, "/"), nil
}
