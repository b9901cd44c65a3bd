package client

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"anime-sync/feature/anime/models"

	"go.uber.org/zap"
)

// Page is one page of the upstream list feed.
type Page struct {
	Results  []models.CatalogItem `json:"results"`
	NextPage *string              `json:"next_page"`
}

// PageFetcher is the collaborator contract the sync driver depends on.
type PageFetcher interface {
	// FirstPageURL returns the URL of the first page of the feed.
	FirstPageURL() string
	// FetchPage fetches one page. An empty URL returns (nil, nil), which
	// ends the pagination loop.
	FetchPage(ctx context.Context, pageURL string) (*Page, error)
}

// Client fetches paginated catalog data with retry and exponential backoff.
type Client struct {
	cfg  Config
	http *http.Client
	log  *zap.Logger
}

// NewClient creates a catalog API client.
func NewClient(cfg Config, log *zap.Logger) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 60
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: time.Duration(timeout) * time.Second},
		log:  log,
	}
}

// FirstPageURL implements PageFetcher.
func (c *Client) FirstPageURL() string {
	return c.cfg.ListURL()
}

// FetchPage fetches and decodes one feed page, retrying transient failures
// with exponential backoff. The last error is returned once attempts are
// exhausted.
func (c *Client) FetchPage(ctx context.Context, pageURL string) (*Page, error) {
	if pageURL == "" {
		return nil, nil
	}

	retries := c.cfg.Retries
	if retries < 1 {
		retries = 1
	}

	var lastErr error
	for attempt := 1; attempt <= retries; attempt++ {
		page, err := c.fetchOnce(ctx, pageURL)
		if err == nil {
			return page, nil
		}
		lastErr = err

		c.log.Error("failed to fetch page",
			zap.Int("attempt", attempt),
			zap.Int("retries", retries),
			zap.Error(err))

		if attempt == retries {
			break
		}
		if err := c.wait(ctx, attempt); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("fetch page: %w", lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, pageURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var page Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}
	return &page, nil
}

func (c *Client) wait(ctx context.Context, attempt int) error {
	base := c.cfg.BackoffBaseSeconds
	if base <= 0 {
		return ctx.Err()
	}

	delay := time.Duration(math.Pow(float64(base), float64(attempt))) * time.Second
	c.log.Info("retrying page fetch", zap.Duration("in", delay))

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
