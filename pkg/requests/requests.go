// Package requests — текстовый HTTP клиент для цепочек.
//
// Цепочкам нужен узкий контракт: метод + URL → тело ответа строкой.
// Клиент несёт фиксированный набор заголовков и rate limiter; ретраев
// нет — неуспех действия поднимается вызывающему как есть.
package requests

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ilkoid/zveno-ai/pkg/config"
	"github.com/ilkoid/zveno-ai/pkg/utils"
)

// HTTPClient интерфейс для выполнения HTTP запросов.
//
// Позволяет мокировать HTTP клиент в тестах.
// Стандартный *http.Client реализует этот интерфейс.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// RequestError — неуспешный (не 2xx) HTTP ответ.
type RequestError struct {
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("http request failed: status %d, body: %s", e.StatusCode, e.Body)
}

// TextRequests выполняет HTTP запросы и возвращает тело ответа текстом.
type TextRequests struct {
	httpClient HTTPClient // Интерфейс вместо конкретного типа для testability
	headers    map[string]string
	limiter    *rate.Limiter
}

// New создаёт клиент с заголовками по умолчанию из конфигурации.
func New(cfg config.HTTPConfig, headers map[string]string) (*TextRequests, error) {
	cfg = cfg.GetDefaults()

	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid http.timeout format: %w", err)
	}

	// rate_limit в запросах/минуту → rate.Limit в запросах/секунду
	ratePerSec := float64(cfg.RateLimit) / 60.0

	return &TextRequests{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: headers,
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), cfg.BurstLimit),
	}, nil
}

// NewWithClient создаёт клиент с внешним HTTPClient (используется в тестах).
func NewWithClient(client HTTPClient, headers map[string]string) *TextRequests {
	return &TextRequests{
		httpClient: client,
		headers:    headers,
		limiter:    rate.NewLimiter(rate.Inf, 0),
	}
}

// Get выполняет GET запрос и возвращает тело ответа.
func (r *TextRequests) Get(ctx context.Context, url string) (string, error) {
	return r.do(ctx, http.MethodGet, url, "")
}

// Post выполняет POST запрос с текстовым телом и возвращает тело ответа.
func (r *TextRequests) Post(ctx context.Context, url string, body string) (string, error) {
	return r.do(ctx, http.MethodPost, url, body)
}

// Delete выполняет DELETE запрос и возвращает тело ответа.
func (r *TextRequests) Delete(ctx context.Context, url string) (string, error) {
	return r.do(ctx, http.MethodDelete, url, "")
}

// do выполняет запрос: ждёт лимитер, ставит заголовки, читает тело.
// Не-2xx статус — RequestError с телом ответа.
func (r *TextRequests) do(ctx context.Context, method, url, body string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait: %w", err)
	}

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return "", err
	}
	for key, value := range r.headers {
		req.Header.Set(key, value)
	}

	utils.Debug("HTTP request", "method", method, "url", url)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &RequestError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	return string(respBody), nil
}
