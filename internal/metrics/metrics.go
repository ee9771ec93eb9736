package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	FeedsFetched         int64
	FeedErrors           int64
	ItemsAggregated      int64
	EntriesSkipped       int64
	AIRequests           int64
	AIFallbacks          int64
	ArticlesScraped      int64
	TelegramMessagesSent int64

	// Timings
	LastAggregationTime    time.Duration
	TotalAggregationTime   time.Duration
	AverageAggregationTime time.Duration
	AggregationCount       int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) IncrementFeedsFetched() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedsFetched++
}

func (m *Metrics) IncrementFeedErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedErrors++
}

func (m *Metrics) AddItemsAggregated(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ItemsAggregated += int64(n)
}

func (m *Metrics) IncrementEntriesSkipped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EntriesSkipped++
}

func (m *Metrics) IncrementAIRequests() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AIRequests++
}

func (m *Metrics) IncrementAIFallbacks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AIFallbacks++
}

func (m *Metrics) IncrementArticlesScraped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ArticlesScraped++
}

func (m *Metrics) IncrementTelegramMessagesSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TelegramMessagesSent++
}

func (m *Metrics) RecordAggregationTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastAggregationTime = duration
	m.TotalAggregationTime += duration
	m.AggregationCount++

	if m.AggregationCount > 0 {
		m.AverageAggregationTime = m.TotalAggregationTime / time.Duration(m.AggregationCount)
	}
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"feeds_fetched":               m.FeedsFetched,
		"feed_errors":                 m.FeedErrors,
		"items_aggregated":            m.ItemsAggregated,
		"entries_skipped":             m.EntriesSkipped,
		"ai_requests":                 m.AIRequests,
		"ai_fallbacks":                m.AIFallbacks,
		"articles_scraped":            m.ArticlesScraped,
		"telegram_messages_sent":      m.TelegramMessagesSent,
		"last_aggregation_time_ms":    m.LastAggregationTime.Milliseconds(),
		"average_aggregation_time_ms": m.AverageAggregationTime.Milliseconds(),
		"last_run_time":               m.LastRunTime.Format(time.RFC3339),
		"last_error_time":             m.LastErrorTime.Format(time.RFC3339),
		"last_error":                  m.LastError,
		"is_healthy":                  m.IsHealthy,
	}
}
