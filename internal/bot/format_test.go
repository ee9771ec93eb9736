package bot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/varzeshfeed/varzeshbot/internal/rss"
)

func TestFormatNewsItem(t *testing.T) {
	item := rss.Item{
		Title:       "استقلال برد",
		Description: "گزارش کامل بازی",
		Link:        "https://example.com/match",
		Published:   "20 آگوست 2025 - 21:30",
		Source:      "varzesh3",
	}

	msg := FormatNewsItem(item)

	require.Contains(t, msg, "<b>استقلال برد</b>")
	require.Contains(t, msg, "گزارش کامل بازی")
	require.Contains(t, msg, "20 آگوست 2025 - 21:30")
	require.Contains(t, msg, "varzesh3")
	require.Contains(t, msg, "https://example.com/match")
}

func TestFormatNewsItemEscapesHTML(t *testing.T) {
	item := rss.Item{
		Title:  "خطر <script>",
		Link:   "https://example.com/x",
		Source: "src",
	}

	msg := FormatNewsItem(item)
	require.NotContains(t, msg, "<script>")
	require.Contains(t, msg, "&lt;script&gt;")
}

func TestFormatNewsItemTruncatesLongDescription(t *testing.T) {
	item := rss.Item{
		Title:       "خبر",
		Description: strings.Repeat("و", 500),
		Link:        "https://example.com/x",
		Source:      "src",
	}

	msg := FormatNewsItem(item)
	require.Contains(t, msg, "...")
	require.NotContains(t, msg, strings.Repeat("و", 400))
}

func TestPreviewTextShortUnchanged(t *testing.T) {
	require.Equal(t, "کوتاه", previewText("کوتاه"))
}
