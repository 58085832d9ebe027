// Package httpchain — цепочка "запрос к API → суммаризация ответа".
package httpchain

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/ilkoid/zveno-ai/pkg/chain"
	"github.com/ilkoid/zveno-ai/pkg/llm"
	"github.com/ilkoid/zveno-ai/pkg/prompt"
	"github.com/ilkoid/zveno-ai/pkg/requests"
	"github.com/ilkoid/zveno-ai/pkg/utils"
)

const (
	questionKey = "question"
	outputKey   = "output"
)

const responseTemplate = "Question:{question}\n\n" +
	"{api_url}\n\n" +
	"Here is the response from the API:\n\n" +
	"{api_response}\n\n" +
	"Summarize this response to answer the original question.\n\n" +
	"Summary:"

// ResponsePrompt — промпт суммаризации ответа API.
var ResponsePrompt = prompt.New(responseTemplate,
	[]string{"question", "api_url", "api_response"})

// HTTPRequestChain выполняет GET запрос и просит модель суммировать
// тело ответа применительно к вопросу пользователя.
type HTTPRequestChain struct {
	answerChain *chain.LLMChain
	requests    *requests.TextRequests
	apiURL      string
}

// New создаёт HTTP цепочку для готового URL.
func New(provider llm.Provider, req *requests.TextRequests, apiURL string) *HTTPRequestChain {
	return NewWithPrompt(provider, req, apiURL, ResponsePrompt)
}

// NewWithPrompt создаёт HTTP цепочку с заданным промптом суммаризации.
func NewWithPrompt(provider llm.Provider, req *requests.TextRequests, apiURL string, tmpl *prompt.Template) *HTTPRequestChain {
	return &HTTPRequestChain{
		answerChain: chain.NewLLMChain(provider, tmpl),
		requests:    req,
		apiURL:      strings.TrimSpace(apiURL),
	}
}

// NewWithParameters создаёт HTTP цепочку, прикрепляя query-параметры к URL.
//
// Параметры с nil значением пропускаются; остальные URL-кодируются.
func NewWithParameters(provider llm.Provider, req *requests.TextRequests, apiURL string, parameters map[string]any) *HTTPRequestChain {
	return New(provider, req, BuildURL(apiURL, parameters))
}

// BuildURL прикрепляет query-параметры к базовому URL.
//
// nil значения пропускаются — отсутствующий параметр не должен
// превращаться в пустую пару "key=".
func BuildURL(apiURL string, parameters map[string]any) string {
	values := url.Values{}
	for key, value := range parameters {
		if value == nil {
			continue
		}
		values.Set(key, fmt.Sprint(value))
	}
	if len(values) == 0 {
		return apiURL
	}
	return apiURL + "?" + values.Encode()
}

// ChainType возвращает тег цепочки.
func (c *HTTPRequestChain) ChainType() string {
	return "http_request_chain"
}

// InputKeys возвращает единственный ключ с вопросом.
func (c *HTTPRequestChain) InputKeys() []string {
	return []string{questionKey}
}

// OutputKeys возвращает единственный выходной ключ.
func (c *HTTPRequestChain) OutputKeys() []string {
	return []string{outputKey}
}

// Apply выполняет GET запрос и суммирует ответ моделью.
//
// Неуспешный статус или сбой транспорта — ActionExecutionError;
// модель при этом не вызывается. Стоп-маркер суммаризации не нужен.
func (c *HTTPRequestChain) Apply(ctx context.Context, inputs map[string]any) (map[string]string, error) {
	utils.Info("HTTP chain request", "url", c.apiURL)

	apiResponse, err := c.requests.Get(ctx, c.apiURL)
	if err != nil {
		return nil, &chain.ActionExecutionError{Action: "http", Cause: err}
	}

	answer, err := c.answerChain.Predict(ctx, map[string]any{
		questionKey:    inputs[questionKey],
		"api_url":      c.apiURL,
		"api_response": apiResponse,
	})
	if err != nil {
		return nil, err
	}

	return map[string]string{outputKey: strings.TrimSpace(answer)}, nil
}

// Ensure HTTPRequestChain implements Chain
var _ chain.Chain = (*HTTPRequestChain)(nil)
