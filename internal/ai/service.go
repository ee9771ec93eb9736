// Package ai wraps the LLM providers behind fallback-safe Persian helpers.
// Every public method resolves to some usable value; remote failures are
// logged and mapped to fixed fallback strings, never propagated.
package ai

import (
	"context"
	"encoding/json"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/varzeshfeed/varzeshbot/internal/cache"
	"github.com/varzeshfeed/varzeshbot/internal/logger"
	"github.com/varzeshfeed/varzeshbot/internal/metrics"
	"github.com/varzeshfeed/varzeshbot/internal/ratelimit"
)

// Fixed fallback values shown to users when a provider call fails.
const (
	FallbackShortText    = "متن کوتاه است و نیازی به خلاصه‌سازی ندارد."
	FallbackSummaryError = "خطا در تولید خلاصه. متن اصلی نمایش داده می‌شود."
	FallbackNoSummary    = "خلاصه‌ای از این خبر تهیه نشد."
	FallbackCategory     = "سایر ورزش‌ها"
	FallbackAnswer       = "خطا در دریافت پاسخ از هوش مصنوعی."
	FallbackNoAnswer     = "متأسفانه نتوانستم به سوال شما پاسخ دهم."
	FallbackSentiment    = "خطا در تحلیل احساسات"
)

// Sentiment is the analysis result for one text.
type Sentiment struct {
	Label      string  `json:"sentiment"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Service is the single adapter the bot layer talks to. Responses are cached
// by content hash and counted against the daily budget.
type Service struct {
	openai   *OpenAIClient
	gemini   *GeminiClient // nil when no GEMINI_API_KEY is set
	limiter  *ratelimit.AILimiter
	cache    *cache.Cache
	cacheTTL time.Duration
	timeout  time.Duration
}

func NewService(openaiClient *OpenAIClient, geminiClient *GeminiClient, limiter *ratelimit.AILimiter, c *cache.Cache, cacheTTL time.Duration) *Service {
	return &Service{
		openai:   openaiClient,
		gemini:   geminiClient,
		limiter:  limiter,
		cache:    c,
		cacheTTL: cacheTTL,
		timeout:  20 * time.Second,
	}
}

// Summarize produces a short Persian summary. OpenAI first, Gemini as the
// fallback provider, fixed strings when both are out.
func (s *Service) Summarize(ctx context.Context, text string) string {
	text = sanitize(text)
	if utf8.RuneCountInString(text) < 50 {
		return FallbackShortText
	}

	key := s.cache.GenerateKey("summary", text)
	if cached, ok := s.cache.Get(key); ok {
		s.limiter.RecordCacheHit()
		return cached
	}

	summary, err := s.callSummarize(ctx, text)
	if err != nil {
		logger.Error("summarize failed on all providers", "error", err)
		metrics.Global.IncrementAIFallbacks()
		return FallbackSummaryError
	}
	if utf8.RuneCountInString(summary) < 20 {
		return FallbackNoSummary
	}

	s.cache.Set(key, summary, s.cacheTTL)
	return summary
}

func (s *Service) callSummarize(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.limiter.Allow("openai")
	if err == nil {
		metrics.Global.IncrementAIRequests()
		summary, openaiErr := s.openai.Summarize(ctx, text)
		if openaiErr == nil {
			return summary, nil
		}
		logger.Warn("OpenAI summarize failed, trying Gemini", "error", openaiErr)
		err = openaiErr
	}

	if s.gemini == nil {
		return "", err
	}
	if limitErr := s.limiter.Allow("gemini"); limitErr != nil {
		return "", limitErr
	}
	metrics.Global.IncrementAIRequests()
	return s.gemini.Summarize(ctx, text)
}

// Classify labels a news item with one of the Persian sport categories.
func (s *Service) Classify(ctx context.Context, title, description string) string {
	key := s.cache.GenerateKey("category", title+"|"+description)
	if cached, ok := s.cache.Get(key); ok {
		s.limiter.RecordCacheHit()
		return cached
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.limiter.Allow("openai"); err != nil {
		metrics.Global.IncrementAIFallbacks()
		return FallbackCategory
	}
	metrics.Global.IncrementAIRequests()

	category, err := s.openai.Classify(ctx, title, description)
	if err != nil || category == "" {
		logger.Error("classify failed", "error", err)
		metrics.Global.IncrementAIFallbacks()
		return FallbackCategory
	}

	s.cache.Set(key, category, s.cacheTTL)
	return category
}

// ExtractKeywords pulls key terms out of a Persian text. Failures degrade
// to an empty list.
func (s *Service) ExtractKeywords(ctx context.Context, text string) []string {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.limiter.Allow("openai"); err != nil {
		metrics.Global.IncrementAIFallbacks()
		return nil
	}
	metrics.Global.IncrementAIRequests()

	raw, err := s.openai.ExtractKeywords(ctx, sanitize(text))
	if err != nil {
		logger.Error("keyword extraction failed", "error", err)
		metrics.Global.IncrementAIFallbacks()
		return nil
	}

	var parsed struct {
		Keywords []string `json:"keywords"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		logger.Warn("keyword response was not valid JSON", "error", err)
		metrics.Global.IncrementAIFallbacks()
		return nil
	}
	return parsed.Keywords
}

// AnalyzeSentiment labels a text positive/negative/neutral with confidence.
func (s *Service) AnalyzeSentiment(ctx context.Context, text string) Sentiment {
	fallback := Sentiment{Label: "neutral", Confidence: 0, Reasoning: FallbackSentiment}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.limiter.Allow("openai"); err != nil {
		metrics.Global.IncrementAIFallbacks()
		return fallback
	}
	metrics.Global.IncrementAIRequests()

	raw, err := s.openai.AnalyzeSentiment(ctx, sanitize(text))
	if err != nil {
		logger.Error("sentiment analysis failed", "error", err)
		metrics.Global.IncrementAIFallbacks()
		return fallback
	}

	var result Sentiment
	if err := json.Unmarshal([]byte(raw), &result); err != nil || result.Label == "" {
		logger.Warn("sentiment response was not valid JSON", "error", err)
		metrics.Global.IncrementAIFallbacks()
		return fallback
	}
	return result
}

// Ask answers a free-form Esteghlal question.
func (s *Service) Ask(ctx context.Context, question string) string {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.limiter.Allow("openai"); err != nil {
		metrics.Global.IncrementAIFallbacks()
		return FallbackAnswer
	}
	metrics.Global.IncrementAIRequests()

	answer, err := s.openai.Ask(ctx, question)
	if err != nil {
		logger.Error("ask failed", "error", err)
		metrics.Global.IncrementAIFallbacks()
		return FallbackAnswer
	}
	if answer == "" {
		return FallbackNoAnswer
	}
	return answer
}

// sanitize trims a text and caps its size before it goes into a prompt.
func sanitize(text string) string {
	text = strings.ReplaceAll(text, "\r", "")
	text = strings.Join(strings.Fields(text), " ")

	const maxChars = 6000
	if utf8.RuneCountInString(text) > maxChars {
		runes := []rune(text)
		text = string(runes[:maxChars])
	}
	return strings.TrimSpace(text)
}
