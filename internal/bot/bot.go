// Package bot wires the aggregator, scraper and AI service to Telegram.
package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/varzeshfeed/varzeshbot/internal/ai"
	"github.com/varzeshfeed/varzeshbot/internal/cache"
	"github.com/varzeshfeed/varzeshbot/internal/config"
	"github.com/varzeshfeed/varzeshbot/internal/logger"
	"github.com/varzeshfeed/varzeshbot/internal/metrics"
	"github.com/varzeshfeed/varzeshbot/internal/news"
	"github.com/varzeshfeed/varzeshbot/internal/scraper"
	"github.com/varzeshfeed/varzeshbot/internal/telegram"
)

// NoNewsMessage is what users see when every source came back empty.
const NoNewsMessage = "در حال حاضر خبری در دسترس نیست."

// targetKeyword is the team this bot is dedicated to.
const targetKeyword = "استقلال"

const pollTimeoutSec = 30

// Bot dispatches Telegram updates to the news pipeline.
type Bot struct {
	cfg      *config.Config
	api      *telegram.Client
	agg      *news.Aggregator
	ai       *ai.Service
	scraper  *scraper.Scraper
	articles *cache.Cache

	mu    sync.Mutex
	links map[string]string // "<chat>:<idx>" -> article link for full-text callbacks
}

func New(cfg *config.Config, api *telegram.Client, agg *news.Aggregator, aiSvc *ai.Service, sc *scraper.Scraper, articles *cache.Cache) *Bot {
	return &Bot{
		cfg:      cfg,
		api:      api,
		agg:      agg,
		ai:       aiSvc,
		scraper:  sc,
		articles: articles,
		links:    make(map[string]string),
	}
}

// Run long-polls for updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	logger.Info("bot started", "username", b.cfg.BotUsername)

	var offset int64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		updates, err := b.api.GetUpdates(ctx, offset, pollTimeoutSec)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Error("getUpdates failed", "error", err)
			metrics.Global.SetError(err.Error())
			time.Sleep(5 * time.Second)
			continue
		}

		for _, update := range updates {
			offset = update.UpdateID + 1
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update telegram.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *telegram.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	switch {
	case strings.HasPrefix(text, "/start"):
		b.sendMenu(ctx, chatID)
	case strings.HasPrefix(text, "/latest"):
		b.sendNewsList(ctx, chatID, b.agg.GetLatest(ctx, b.cfg.MaxNewsPerRequest))
	case strings.HasPrefix(text, "/ask"):
		b.handleAsk(ctx, chatID, strings.TrimSpace(strings.TrimPrefix(text, "/ask")))
	default:
		// Anything else gets the menu again, same as the original bot.
		b.sendMenu(ctx, chatID)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *telegram.CallbackQuery) {
	if err := b.api.AnswerCallbackQuery(ctx, cb.ID); err != nil {
		logger.Warn("answerCallbackQuery failed", "error", err)
	}
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID

	switch {
	case cb.Data == "latest_news":
		b.sendNewsList(ctx, chatID, b.agg.GetLatest(ctx, b.cfg.MaxNewsPerRequest))
	case cb.Data == "esteghlal_news":
		b.sendNewsList(ctx, chatID, b.agg.GetTargeted(ctx, targetKeyword, b.cfg.MaxNewsPerRequest))
	case strings.HasPrefix(cb.Data, "cat_"):
		category := strings.TrimPrefix(cb.Data, "cat_")
		b.sendNewsList(ctx, chatID, b.agg.GetByCategory(ctx, category, b.cfg.MaxNewsPerRequest))
	case strings.HasPrefix(cb.Data, "full_"):
		b.handleFullArticle(ctx, chatID, cb.Data)
	}
}

func (b *Bot) handleAsk(ctx context.Context, chatID int64, question string) {
	if question == "" {
		b.send(ctx, chatID, "سوال خود را بعد از دستور بنویسید. مثال:\n/ask استقلال چند بار قهرمان آسیا شده است؟", nil)
		return
	}
	b.send(ctx, chatID, b.ai.Ask(ctx, question), nil)
}

// handleFullArticle scrapes the article behind a "show full text" button and
// attaches an AI summary when one can be produced.
func (b *Bot) handleFullArticle(ctx context.Context, chatID int64, callbackData string) {
	b.mu.Lock()
	link, ok := b.links[linkKey(chatID, callbackData)]
	b.mu.Unlock()

	if !ok {
		b.send(ctx, chatID, "لینک خبر پیدا نشد.", nil)
		return
	}

	fullText := b.fetchArticle(ctx, link)
	b.send(ctx, chatID, fullText, nil)

	if fullText == scraper.FallbackText {
		return
	}
	summary := b.ai.Summarize(ctx, fullText)
	b.send(ctx, chatID, "🤖 خلاصه هوشمند:\n"+summary, nil)
}

// fetchArticle serves scraped article text from the TTL cache when possible.
func (b *Bot) fetchArticle(ctx context.Context, link string) string {
	key := b.articles.GenerateKey("article", link)
	if cached, ok := b.articles.Get(key); ok {
		return cached
	}

	text := b.scraper.FetchReadableText(ctx, link)
	if text != scraper.FallbackText {
		b.articles.Set(key, text, b.cfg.CacheTimeout)
	}
	return text
}

func (b *Bot) sendMenu(ctx context.Context, chatID int64) {
	keyboard := &telegram.InlineKeyboardMarkup{
		InlineKeyboard: [][]telegram.InlineKeyboardButton{
			{{Text: "📰 اخبار روز استقلال", CallbackData: "esteghlal_news"}},
			{{Text: "🗞 آخرین اخبار ورزشی", CallbackData: "latest_news"}},
			{
				{Text: "⚽️ فوتبال", CallbackData: "cat_football"},
				{Text: "🏀 بسکتبال", CallbackData: "cat_basketball"},
			},
			{
				{Text: "🤼 کشتی و رزمی", CallbackData: "cat_wrestling"},
				{Text: "🏐 والیبال", CallbackData: "cat_volleyball"},
			},
			{{Text: "🏃 دو و میدانی", CallbackData: "cat_athletics"}},
		},
	}
	b.send(ctx, chatID, "به ربات آبی دل خوش آمدید! 💙\nیکی از گزینه‌های زیر را انتخاب کنید:", keyboard)
}

func (b *Bot) send(ctx context.Context, chatID int64, text string, keyboard *telegram.InlineKeyboardMarkup) {
	if err := b.api.SendMessage(ctx, chatID, text, keyboard); err != nil {
		logger.Error("sendMessage failed", "chat_id", chatID, "error", err)
		metrics.Global.SetError(err.Error())
	}
}

func linkKey(chatID int64, callbackData string) string {
	return strconv.FormatInt(chatID, 10) + ":" + callbackData
}

func fullCallbackData(idx int) string {
	return fmt.Sprintf("full_%d", idx)
}
