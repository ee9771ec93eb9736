// Package news merges the configured feeds into ranked, filterable results.
package news

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/varzeshfeed/varzeshbot/internal/logger"
	"github.com/varzeshfeed/varzeshbot/internal/metrics"
	"github.com/varzeshfeed/varzeshbot/internal/rss"
)

// Aggregator fans out over all configured sources and merges the results.
// Public operations never return an error: per-source failures are logged
// inside the fetcher and an empty result is a normal outcome.
type Aggregator struct {
	sources []rss.Source
	fetcher *rss.Fetcher
}

func NewAggregator(sources []rss.Source, fetcher *rss.Fetcher) *Aggregator {
	return &Aggregator{sources: sources, fetcher: fetcher}
}

// GetLatest fetches all sources concurrently and returns the newest items,
// sorted descending by publication time and truncated to limit.
func (a *Aggregator) GetLatest(ctx context.Context, limit int) []rss.Item {
	items := a.fetchAll(ctx)
	sortByPublished(items)
	return truncate(items, limit)
}

// GetByCategory fetches three times the requested amount, then keeps items
// containing any keyword for the category in title or description. The scan
// stops once limit items matched; matches keep their latest-first order.
// An unknown category degrades to the unfiltered latest items.
func (a *Aggregator) GetByCategory(ctx context.Context, category string, limit int) []rss.Item {
	items := a.GetLatest(ctx, limit*3)

	keywords, ok := categoryKeywords[category]
	if !ok {
		logger.Warn("unknown news category, returning latest", "category", category)
		return truncate(items, limit)
	}

	filtered := make([]rss.Item, 0, limit)
	for _, item := range items {
		if matchesAny(item, keywords) {
			filtered = append(filtered, item)
		}
		if len(filtered) >= limit {
			break
		}
	}
	return filtered
}

// GetTargeted fetches all sources and keeps items mentioning the keyword,
// stopping at limit matches before sorting the matched subset newest-first.
func (a *Aggregator) GetTargeted(ctx context.Context, keyword string, limit int) []rss.Item {
	items := a.fetchAll(ctx)

	keywords := []string{keyword}
	filtered := make([]rss.Item, 0, limit)
	for _, item := range items {
		if matchesAny(item, keywords) {
			filtered = append(filtered, item)
		}
		if len(filtered) >= limit {
			break
		}
	}

	sortByPublished(filtered)
	return truncate(filtered, limit)
}

// fetchAll launches one fetch per source and gathers whatever succeeded.
// Merge order is completion order; a slow source can only delay the batch
// by its own timeout.
func (a *Aggregator) fetchAll(ctx context.Context) []rss.Item {
	start := time.Now()
	defer func() {
		metrics.Global.RecordAggregationTime(time.Since(start))
		metrics.Global.SetLastRun()
	}()

	results := make(chan []rss.Item, len(a.sources))
	var wg sync.WaitGroup

	for _, src := range a.sources {
		wg.Add(1)
		go func(src rss.Source) {
			defer wg.Done()
			results <- a.fetcher.FetchOne(ctx, src)
		}(src)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var all []rss.Item
	for batch := range results {
		all = append(all, batch...)
	}

	metrics.Global.AddItemsAggregated(len(all))
	logger.Debug("aggregated feeds", "sources", len(a.sources), "items", len(all))
	return all
}

// sortByPublished orders newest-first. The sort is stable so items sharing
// a timestamp keep their merge order, and zero timestamps sink to the tail.
func sortByPublished(items []rss.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})
}

func truncate(items []rss.Item, limit int) []rss.Item {
	if limit < 0 {
		limit = 0
	}
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

func matchesAny(item rss.Item, keywords []string) bool {
	title := strings.ToLower(item.Title)
	description := strings.ToLower(item.Description)

	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if strings.Contains(title, k) || strings.Contains(description, k) {
			return true
		}
	}
	return false
}
