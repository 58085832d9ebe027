package runner

import (
	"encoding/base64"

	"github.com/ilkoid/zveno-ai/pkg/config"
)

// Структуры payload внешнего контракта Runner-а.
// Это то, что приходит от вызывающего (CLI, web-слой) в JSON/YAML виде.

// ModelParameters — выбор модели и переопределения её параметров.
//
// Model ссылается на имя в config.Models.Definitions (пустая строка —
// модель по умолчанию). Переопределяются только явно заданные поля,
// поэтому числовые параметры — указатели.
type ModelParameters struct {
	Model            string   `json:"model" yaml:"model"`
	Temperature      *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
	TopP             *float64 `json:"top_p,omitempty" yaml:"top_p,omitempty"`
	FrequencyPenalty *float64 `json:"frequency_penalty,omitempty" yaml:"frequency_penalty,omitempty"`
	PresencePenalty  *float64 `json:"presence_penalty,omitempty" yaml:"presence_penalty,omitempty"`
	MaxTokens        *int     `json:"max_tokens,omitempty" yaml:"max_tokens,omitempty"`
}

// apply накладывает переопределения на копию определения модели.
func (p ModelParameters) apply(def config.ModelDef) config.ModelDef {
	if p.Temperature != nil {
		def.Temperature = *p.Temperature
	}
	if p.TopP != nil {
		def.TopP = *p.TopP
	}
	if p.FrequencyPenalty != nil {
		def.FrequencyPenalty = *p.FrequencyPenalty
	}
	if p.PresencePenalty != nil {
		def.PresencePenalty = *p.PresencePenalty
	}
	if p.MaxTokens != nil {
		def.MaxTokens = *p.MaxTokens
	}
	return def
}

// Property — именованное значение для подстановки в шаблоны и команды.
type Property struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// HTTPRequest — параметры HTTP действия.
type HTTPRequest struct {
	APIURL             string `json:"api_url" yaml:"api_url"`
	AuthorizationToken string `json:"authorization_token,omitempty" yaml:"authorization_token,omitempty"`
	Username           string `json:"username,omitempty" yaml:"username,omitempty"`
	Password           string `json:"password,omitempty" yaml:"password,omitempty"`
	ContentType        string `json:"content_type,omitempty" yaml:"content_type,omitempty"`
}

// Headers возвращает заголовки запроса.
//
// Если явный токен не задан, но задан username — Authorization
// выводится как Basic из пары username:password.
func (r *HTTPRequest) Headers() map[string]string {
	token := r.AuthorizationToken
	if token == "" && r.Username != "" {
		credentials := r.Username + ":" + r.Password
		token = "Basic " + base64.StdEncoding.EncodeToString([]byte(credentials))
	}

	headers := make(map[string]string)
	if token != "" {
		headers["Authorization"] = token
	}
	if r.ContentType != "" {
		headers["Content-Type"] = r.ContentType
	}
	return headers
}

// DBRequest — параметры SQL действия.
//
// Driver/DSN переопределяют секцию database конфигурации; SQLCmd (если
// задан) переводит цепочку в шаблонный режим вместо генерации SQL моделью.
type DBRequest struct {
	Driver string `json:"driver,omitempty" yaml:"driver,omitempty"`
	DSN    string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
	SQLCmd string `json:"sql_cmd,omitempty" yaml:"sql_cmd,omitempty"`
}

// ChainPayload — описание одного шага: вид цепочки плюс его детали.
//
// Prompt задаёт текст шаблона напрямую; PromptRef — имя шаблона из
// реестра источников (file/S3/DB). Заданы оба — Prompt побеждает.
type ChainPayload struct {
	ChainType       string          `json:"chain_type" yaml:"chain_type"`
	Prompt          string          `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	PromptRef       string          `json:"prompt_ref,omitempty" yaml:"prompt_ref,omitempty"`
	ModelParameters ModelParameters `json:"model_parameters" yaml:"model_parameters"`
	HTTPRequest     *HTTPRequest    `json:"http_request,omitempty" yaml:"http_request,omitempty"`
	DBRequest       *DBRequest      `json:"db_request,omitempty" yaml:"db_request,omitempty"`
	Properties      []Property      `json:"properties,omitempty" yaml:"properties,omitempty"`
	OutputVariable  string          `json:"output_variable,omitempty" yaml:"output_variable,omitempty"`
}

// MultiChainsPayload — конвейер: упорядоченные шаги + общий промпт.
//
// Выход каждого шага подставляется в общий промпт на место
// {output_variable} перед выполнением следующего шага.
type MultiChainsPayload struct {
	Prompt          string          `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	PromptRef       string          `json:"prompt_ref,omitempty" yaml:"prompt_ref,omitempty"`
	ModelParameters ModelParameters `json:"model_parameters" yaml:"model_parameters"`
	Chains          []ChainPayload  `json:"chains" yaml:"chains"`
	Properties      []Property      `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// CompletionPayload — одиночный вызов модели без цепочки.
type CompletionPayload struct {
	Prompt          string          `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	PromptRef       string          `json:"prompt_ref,omitempty" yaml:"prompt_ref,omitempty"`
	ModelParameters ModelParameters `json:"model_parameters" yaml:"model_parameters"`
	Properties      []Property      `json:"properties,omitempty" yaml:"properties,omitempty"`
}
