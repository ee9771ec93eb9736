// Package rss fetches and parses the configured Persian sports feeds.
package rss

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/varzeshfeed/varzeshbot/internal/logger"
	"github.com/varzeshfeed/varzeshbot/internal/metrics"
	"github.com/varzeshfeed/varzeshbot/internal/text"
)

// UntitledEntry is used when a feed entry has no title at all.
const UntitledEntry = "بدون عنوان"

// maxEntriesPerSource caps how many entries a single feed contributes.
const maxEntriesPerSource = 10

// Item is one normalized news entry. Items are value records rebuilt on
// every fetch; title and link are always non-empty.
type Item struct {
	Title       string
	Description string
	Link        string
	Published   string    // Persian display form, or the unknown-date sentinel
	PublishedAt time.Time // zero when the feed gave no parseable date
	Source      string
}

// Fetcher downloads and parses single feeds. Safe for concurrent use.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
}

func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

// FetchOne downloads one feed and returns its normalized entries. Every
// failure is isolated: a timeout, HTTP error or unparseable document is
// logged and yields an empty slice, never an error to the caller.
func (f *Fetcher) FetchOne(ctx context.Context, src Source) []Item {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	feed, err := f.download(ctx, src)
	if err != nil {
		logger.Warn("feed fetch failed", "source", src.Name, "error", err)
		metrics.Global.IncrementFeedErrors()
		return nil
	}

	items := make([]Item, 0, maxEntriesPerSource)
	for i, entry := range feed.Items {
		if i >= maxEntriesPerSource {
			break
		}

		item := buildItem(entry, src.Name)
		if item.Title == "" || item.Link == "" {
			logger.Debug("skipping entry without title or link", "source", src.Name)
			metrics.Global.IncrementEntriesSkipped()
			continue
		}
		items = append(items, item)
	}

	metrics.Global.IncrementFeedsFetched()
	logger.Info("fetched feed", "source", src.Name, "items", len(items))
	return items
}

func (f *Fetcher) download(ctx context.Context, src Source) (*gofeed.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "varzeshbot/1.0")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Warn("failed to close response body", "source", src.Name, "error", closeErr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("http status %d", resp.StatusCode)
	}

	// gofeed recovers partial results from mildly malformed documents,
	// which the Persian sports feeds produce regularly.
	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}
	return feed, nil
}

func buildItem(entry *gofeed.Item, sourceName string) Item {
	title := entry.Title
	if title == "" {
		title = UntitledEntry
	}

	description := entry.Description
	if description == "" {
		// Atom feeds put the summary in Content
		description = entry.Content
	}

	var publishedAt time.Time
	if entry.PublishedParsed != nil {
		publishedAt = *entry.PublishedParsed
	}

	return Item{
		Title:       text.Normalize(title),
		Description: text.Normalize(description),
		Link:        entry.Link,
		Published:   text.FormatDate(entry.Published),
		PublishedAt: publishedAt,
		Source:      sourceName,
	}
}
