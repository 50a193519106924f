// Package chat проксирует диалог посетителя сайта во внешний генеративный AI-сервис.
package chat

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// Роли реплик в истории диалога.
const (
	RoleUser  = string(genai.RoleUser)
	RoleModel = string(genai.RoleModel)
)

// ErrNotConfigured возвращается, если клиент AI-сервиса не создан.
var ErrNotConfigured = errors.New("chat client not configured")

// Turn описывает одну реплику диалога.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Client обращается к модели через Gemini API.
type Client struct {
	genai *genai.Client
	model string
}

// NewClient создаёт клиент AI-сервиса. Таймаут не задаётся: запрос ограничен только контекстом.
// Пустой baseURL оставляет адрес API по умолчанию.
func NewClient(ctx context.Context, baseURL, apiKey, model string) (*Client, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}

	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Client{genai: gc, model: model}, nil
}

// Generate отправляет системную инструкцию и историю диалога и возвращает текст ответа.
// Пустая строка означает, что сервис не вернул текста.
func (c *Client) Generate(ctx context.Context, system string, history []Turn) (string, error) {
	if c == nil || c.genai == nil {
		return "", ErrNotConfigured
	}

	contents := make([]*genai.Content, 0, len(history))
	for _, t := range history {
		contents = append(contents, genai.NewContentFromText(t.Text, genai.Role(t.Role)))
	}

	var cfg *genai.GenerateContentConfig
	if system != "" {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		}
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	return resp.Text(), nil
}
