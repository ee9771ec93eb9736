// Package scraper pulls readable article text out of news pages.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/varzeshfeed/varzeshbot/internal/logger"
	"github.com/varzeshfeed/varzeshbot/internal/metrics"
)

// FallbackText is shown when the article body cannot be fetched.
const FallbackText = "متأسفانه متن کامل خبر قابل دریافت نیست."

// maxArticleRunes caps extracted text so Telegram messages stay short.
const maxArticleRunes = 3000

// minParagraphRunes filters out nav crumbs and share buttons.
const minParagraphRunes = 30

type Scraper struct {
	client *http.Client
}

func New(timeout time.Duration) *Scraper {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Scraper{
		client: &http.Client{Timeout: timeout},
	}
}

// FetchReadableText downloads a page and returns its paragraph text joined
// with blank lines, truncated to 3000 runes. Any failure degrades to the
// fixed fallback message; the caller never handles an error.
func (s *Scraper) FetchReadableText(ctx context.Context, url string) string {
	text, err := s.extract(ctx, url)
	if err != nil {
		logger.Error("article scrape failed", "url", url, "error", err)
		return FallbackText
	}
	if text == "" {
		return FallbackText
	}

	metrics.Global.IncrementArticlesScraped()

	runes := []rune(text)
	if len(runes) > maxArticleRunes {
		return string(runes[:maxArticleRunes])
	}
	return text
}

func (s *Scraper) extract(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error loading page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error parsing HTML: %w", err)
	}

	var paragraphs []string
	doc.Find("p").Each(func(i int, sel *goquery.Selection) {
		t := strings.TrimSpace(sel.Text())
		if len([]rune(t)) > minParagraphRunes {
			paragraphs = append(paragraphs, t)
		}
	})

	return strings.Join(paragraphs, "\n\n"), nil
}
