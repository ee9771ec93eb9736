package ai

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/varzeshfeed/varzeshbot/internal/cache"
	"github.com/varzeshfeed/varzeshbot/internal/ratelimit"
)

// newOfflineService builds a service whose provider calls are guaranteed to be
// denied by the limiter, so no test ever reaches the network.
func newOfflineService(t *testing.T) *Service {
	t.Helper()

	limiter := ratelimit.NewAILimiter(1)
	require.NoError(t, limiter.Allow("openai"))

	return NewService(NewOpenAIClient("test-key"), nil, limiter, cache.New(), 5*time.Minute)
}

func TestSummarizeShortText(t *testing.T) {
	svc := NewService(NewOpenAIClient("test-key"), nil, ratelimit.NewAILimiter(1), cache.New(), 5*time.Minute)

	got := svc.Summarize(context.Background(), "خبر کوتاه")
	require.Equal(t, FallbackShortText, got)
}

func TestSummarizeReturnsCachedValue(t *testing.T) {
	c := cache.New()
	limiter := ratelimit.NewAILimiter(1)
	require.NoError(t, limiter.Allow("openai"))
	svc := NewService(NewOpenAIClient("test-key"), nil, limiter, c, 5*time.Minute)

	text := sanitize(strings.Repeat("استقلال قهرمان آسیا شد ", 10))
	c.Set(c.GenerateKey("summary", text), "خلاصه ذخیره‌شده", time.Minute)

	got := svc.Summarize(context.Background(), text)
	require.Equal(t, "خلاصه ذخیره‌شده", got)
}

func TestSummarizeBudgetExhausted(t *testing.T) {
	svc := newOfflineService(t)

	text := strings.Repeat("پرسپولیس در هفته پایانی لیگ برتر متوقف شد ", 5)
	got := svc.Summarize(context.Background(), text)
	require.Equal(t, FallbackSummaryError, got)
}

func TestClassifyBudgetExhausted(t *testing.T) {
	svc := newOfflineService(t)

	got := svc.Classify(context.Background(), "تیم ملی والیبال برد", "پیروزی در لیگ ملت‌ها")
	require.Equal(t, FallbackCategory, got)
}

func TestClassifyReturnsCachedValue(t *testing.T) {
	c := cache.New()
	svc := newOfflineService(t)
	svc.cache = c

	c.Set(c.GenerateKey("category", "عنوان|توضیح"), "فوتبال", time.Minute)
	require.Equal(t, "فوتبال", svc.Classify(context.Background(), "عنوان", "توضیح"))
}

func TestExtractKeywordsBudgetExhausted(t *testing.T) {
	svc := newOfflineService(t)

	require.Nil(t, svc.ExtractKeywords(context.Background(), "متن آزمایشی"))
}

func TestAnalyzeSentimentBudgetExhausted(t *testing.T) {
	svc := newOfflineService(t)

	got := svc.AnalyzeSentiment(context.Background(), "متن آزمایشی")
	require.Equal(t, "neutral", got.Label)
	require.Zero(t, got.Confidence)
	require.Equal(t, FallbackSentiment, got.Reasoning)
}

func TestAskBudgetExhausted(t *testing.T) {
	svc := newOfflineService(t)

	got := svc.Ask(context.Background(), "آخرین نتیجه استقلال چه بود؟")
	require.Equal(t, FallbackAnswer, got)
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses whitespace", "خط اول\n\nخط  دوم\tپایان", "خط اول خط دوم پایان"},
		{"strips carriage returns", "الف\r\nب", "الف ب"},
		{"trims", "   متن   ", "متن"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, sanitize(tt.in))
		})
	}
}

func TestSanitizeCapsLength(t *testing.T) {
	long := strings.Repeat("ی", 7000)
	got := sanitize(long)
	require.Equal(t, 6000, len([]rune(got)))
}
