// Package openai реализует адаптер LLM провайдера для OpenAI-совместимых API.
//
// Соблюдает контракт llm.Provider: один вызов — один текстовый ответ.
// Стоп-последовательности пробрасываются в API как есть.
package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/ilkoid/zveno-ai/pkg/config"
	"github.com/ilkoid/zveno-ai/pkg/llm"
	"github.com/ilkoid/zveno-ai/pkg/utils"
	openai "github.com/sashabaranov/go-openai"
)

// Client реализует интерфейс llm.Provider для OpenAI-совместимых API.
//
// Параметры генерации (temperature, max_tokens, top_p, penalties)
// фиксируются при создании клиента из ModelDef; стоп-последовательности
// приходят с каждым запросом.
type Client struct {
	api      *openai.Client
	modelDef config.ModelDef
}

// NewClient создает OpenAI клиент на основе конфигурации модели.
//
// Принимает ModelDef напрямую для упрощения создания клиентов через factory.
// Использует APIKey из конфигурации для аутентификации.
func NewClient(modelDef config.ModelDef) *Client {
	// Поддержка custom BaseURL для non-OpenAI провайдеров (Zai, DeepSeek и т.д.)
	cfg := openai.DefaultConfig(modelDef.APIKey)
	if modelDef.BaseURL != "" {
		cfg.BaseURL = modelDef.BaseURL
	}

	client := openai.NewClientWithConfig(cfg)

	return &Client{
		api:      client,
		modelDef: modelDef,
	}
}

// Generate выполняет запрос к API и возвращает текст ответа модели.
//
// Алгоритм:
//  1. Собирает ChatCompletionRequest с промптом как user-сообщением
//  2. Применяет параметры модели из конфигурации
//  3. Добавляет стоп-последовательности запроса (если есть)
//  4. Вызывает API и возвращает content первого choice
//
// Все ошибки возвращаются, никаких panic.
func (c *Client) Generate(ctx context.Context, req llm.Request) (string, error) {
	startTime := time.Now()

	utils.Debug("LLM request started",
		"model", c.modelDef.ModelName,
		"prompt_length", len(req.Prompt),
		"stop_count", len(req.Stop))

	// 1. Один промпт — одно user-сообщение
	apiReq := openai.ChatCompletionRequest{
		Model: c.modelDef.ModelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.Prompt,
			},
		},
	}

	// 2. Параметры модели из конфигурации
	if c.modelDef.Temperature > 0 {
		apiReq.Temperature = float32(c.modelDef.Temperature)
	}
	if c.modelDef.MaxTokens > 0 {
		apiReq.MaxTokens = c.modelDef.MaxTokens
	}
	if c.modelDef.TopP > 0 {
		apiReq.TopP = float32(c.modelDef.TopP)
	}
	if c.modelDef.FrequencyPenalty != 0 {
		apiReq.FrequencyPenalty = float32(c.modelDef.FrequencyPenalty)
	}
	if c.modelDef.PresencePenalty != 0 {
		apiReq.PresencePenalty = float32(c.modelDef.PresencePenalty)
	}

	// 3. Стоп-последовательности конкретного запроса
	if len(req.Stop) > 0 {
		apiReq.Stop = req.Stop
	}

	// 4. Вызываем API
	resp, err := c.api.CreateChatCompletion(ctx, apiReq)
	if err != nil {
		utils.Error("LLM API request failed",
			"error", err,
			"model", c.modelDef.ModelName,
			"duration_ms", time.Since(startTime).Milliseconds())
		return "", fmt.Errorf("openai api error: %w", err)
	}

	// Проверяем что есть хотя бы один выбор
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	content := resp.Choices[0].Message.Content

	utils.Info("LLM response received",
		"model", c.modelDef.ModelName,
		"content_length", len(content),
		"duration_ms", time.Since(startTime).Milliseconds())

	return content, nil
}

// Ensure Client implements llm.Provider
var _ llm.Provider = (*Client)(nil)
