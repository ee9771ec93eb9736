package bot

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/varzeshfeed/varzeshbot/internal/rss"
	"github.com/varzeshfeed/varzeshbot/internal/telegram"
)

// descriptionPreviewRunes limits the teaser shown under each headline.
const descriptionPreviewRunes = 300

// sendNewsList sends one message per item, each with a full-text button.
// An empty list means no source had anything, which is a normal outcome.
func (b *Bot) sendNewsList(ctx context.Context, chatID int64, items []rss.Item) {
	if len(items) == 0 {
		b.send(ctx, chatID, NoNewsMessage, nil)
		return
	}

	for idx, item := range items {
		data := fullCallbackData(idx + 1)

		b.mu.Lock()
		b.links[linkKey(chatID, data)] = item.Link
		b.mu.Unlock()

		keyboard := &telegram.InlineKeyboardMarkup{
			InlineKeyboard: [][]telegram.InlineKeyboardButton{
				{{Text: "📖 نمایش متن کامل", CallbackData: data}},
			},
		}
		b.send(ctx, chatID, FormatNewsItem(item), keyboard)
	}
}

// FormatNewsItem renders one item as a Telegram HTML message.
func FormatNewsItem(item rss.Item) string {
	var sb strings.Builder

	sb.WriteString("✅ <b>")
	sb.WriteString(html.EscapeString(item.Title))
	sb.WriteString("</b>\n\n")

	if item.Description != "" {
		sb.WriteString(html.EscapeString(previewText(item.Description)))
		sb.WriteString("\n\n")
	}

	sb.WriteString(fmt.Sprintf("🕐 %s | %s\n", item.Published, item.Source))
	sb.WriteString(item.Link)

	return sb.String()
}

func previewText(s string) string {
	runes := []rune(s)
	if len(runes) <= descriptionPreviewRunes {
		return s
	}
	return string(runes[:descriptionPreviewRunes]) + "..."
}
