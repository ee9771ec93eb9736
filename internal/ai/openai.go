package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIClient is the thin wrapper around the OpenAI chat API. Callers go
// through Service, which adds caching, budgets and fallback values.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  openai.GPT4o,
	}
}

func (c *OpenAIClient) chat(ctx context.Context, system, user string, maxTokens int, temperature float32, jsonMode bool) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}
	if jsonMode {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (c *OpenAIClient) Summarize(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(`لطفاً متن خبری فارسی زیر را به صورت مختصر و مفید خلاصه کنید. خلاصه باید:
- حداکثر 3-4 جمله باشد
- نکات مهم و کلیدی را شامل شود
- به زبان فارسی و با قواعد درست نوشته شود
- خوانا و روان باشد

متن خبر:
%s`, text)

	return c.chat(ctx,
		"شما یک خلاصه‌نویس حرفه‌ای هستید که متخصص در خلاصه‌سازی اخبار ورزشی فارسی است.",
		prompt, 200, 0.3, false)
}

func (c *OpenAIClient) Classify(ctx context.Context, title, description string) (string, error) {
	prompt := fmt.Sprintf(`لطفاً این خبر ورزشی را در یکی از دسته‌بندی‌های زیر قرار دهید:
- فوتبال
- بسکتبال
- والیبال
- کشتی و رزمی
- دو و میدانی
- سایر ورزش‌ها

فقط نام دسته را بنویسید.

متن خبر:
عنوان: %s
توضیحات: %s`, title, description)

	return c.chat(ctx,
		"شما یک متخصص دسته‌بندی اخبار ورزشی فارسی هستید.",
		prompt, 20, 0.1, false)
}

func (c *OpenAIClient) ExtractKeywords(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(`لطفاً کلمات کلیدی مهم از متن خبری فارسی زیر استخراج کنید.
پاسخ را به صورت JSON با فرمت زیر ارائه دهید:
{"keywords": ["کلمه1", "کلمه2", "کلمه3"]}

متن:
%s`, text)

	return c.chat(ctx,
		"شما یک استخراج‌کننده کلمات کلیدی از متن فارسی هستید.",
		prompt, 100, 0.2, true)
}

func (c *OpenAIClient) AnalyzeSentiment(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf(`لطفاً احساس و تون کلی متن خبری فارسی زیر را تحلیل کنید.
پاسخ را به صورت JSON با فرمت زیر ارائه دهید:
{"sentiment": "positive/negative/neutral", "confidence": 0.85, "reasoning": "دلیل تحلیل"}

متن:
%s`, text)

	return c.chat(ctx,
		"شما یک تحلیلگر احساسات متن فارسی هستید.",
		prompt, 150, 0.2, true)
}

func (c *OpenAIClient) Ask(ctx context.Context, question string) (string, error) {
	return c.chat(ctx,
		"تو یک کارشناس فوتبال مخصوص تیم استقلال هستی. اطلاعات کاملی از تاریخ، بازیکنان، مربیان و رکوردهای این تیم داری.",
		question, 300, 0.7, false)
}
