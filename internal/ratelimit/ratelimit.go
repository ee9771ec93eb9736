// Package ratelimit keeps the daily AI request budget across providers.
package ratelimit

import (
	"fmt"
	"sync"
	"time"

	"github.com/varzeshfeed/varzeshbot/internal/logger"
)

// AILimiter tracks OpenAI and Gemini usage against daily limits, plus how
// much the response cache saved us.
type AILimiter struct {
	mu          sync.Mutex
	openaiCount int
	geminiCount int
	totalCount  int
	maxTotal    int
	resetTime   time.Time
	cacheHits   int
	cacheMisses int
}

// NewAILimiter creates a limiter with a shared daily budget (0 = unlimited).
func NewAILimiter(maxTotal int) *AILimiter {
	return &AILimiter{
		maxTotal:  maxTotal,
		resetTime: time.Now().Add(24 * time.Hour),
	}
}

// Allow reserves one request slot for the given provider. It returns an
// error when the daily budget is spent.
func (rl *AILimiter) Allow(provider string) error {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.checkReset()

	if rl.maxTotal > 0 && rl.totalCount >= rl.maxTotal {
		return fmt.Errorf("daily AI request limit reached (%d/%d)", rl.totalCount, rl.maxTotal)
	}

	switch provider {
	case "gemini":
		rl.geminiCount++
	default:
		rl.openaiCount++
	}
	rl.totalCount++
	rl.cacheMisses++

	logger.Debug("AI request budget", "provider", provider, "used", rl.totalCount, "limit", rl.maxTotal)
	return nil
}

// RecordCacheHit notes that a cached response was served instead of a call.
func (rl *AILimiter) RecordCacheHit() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.cacheHits++
}

// CacheHitRate returns the hit percentage since the last reset.
func (rl *AILimiter) CacheHitRate() float64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	total := rl.cacheHits + rl.cacheMisses
	if total == 0 {
		return 0
	}
	return float64(rl.cacheHits) / float64(total) * 100
}

// GetStats returns current limiter statistics.
func (rl *AILimiter) GetStats() map[string]interface{} {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return map[string]interface{}{
		"openai_used":  rl.openaiCount,
		"gemini_used":  rl.geminiCount,
		"total_used":   rl.totalCount,
		"total_limit":  rl.maxTotal,
		"cache_hits":   rl.cacheHits,
		"cache_misses": rl.cacheMisses,
		"reset_time":   rl.resetTime,
	}
}

// checkReset resets counters once the daily window has passed.
// Caller must hold rl.mu.
func (rl *AILimiter) checkReset() {
	if time.Now().After(rl.resetTime) {
		logger.Info("resetting AI rate limiter counters",
			"openai_used", rl.openaiCount, "gemini_used", rl.geminiCount)
		rl.openaiCount = 0
		rl.geminiCount = 0
		rl.totalCount = 0
		rl.cacheHits = 0
		rl.cacheMisses = 0
		rl.resetTime = time.Now().Add(24 * time.Hour)
	}
}
