// Package runner — внешняя точка входа движка цепочек.
//
// Принимает структурированный payload (вид цепочки + детали), собирает
// из него цепочку с моделью и action-адаптером и возвращает текстовый
// результат. Конвейер RunChains прогоняет упорядоченный список шагов,
// подставляя выход каждого шага в общий промпт перед следующим.
package runner

import (
	"context"
	"fmt"

	"github.com/ilkoid/zveno-ai/pkg/chain"
	"github.com/ilkoid/zveno-ai/pkg/chain/httpchain"
	"github.com/ilkoid/zveno-ai/pkg/chain/sqlchain"
	"github.com/ilkoid/zveno-ai/pkg/config"
	"github.com/ilkoid/zveno-ai/pkg/database"
	"github.com/ilkoid/zveno-ai/pkg/factory"
	"github.com/ilkoid/zveno-ai/pkg/llm"
	"github.com/ilkoid/zveno-ai/pkg/prompt"
	"github.com/ilkoid/zveno-ai/pkg/prompts"
	"github.com/ilkoid/zveno-ai/pkg/requests"
	"github.com/ilkoid/zveno-ai/pkg/utils"
)

// ProviderFactory создаёт адаптер модели по её определению.
// Подменяется в тестах на mock-провайдер.
type ProviderFactory func(config.ModelDef) (llm.Provider, error)

// Runner выполняет payload-ы цепочек поверх конфигурации приложения.
type Runner struct {
	cfg         *config.AppConfig
	newProvider ProviderFactory
	httpClient  requests.HTTPClient // nil — реальный клиент из cfg.HTTP
	sources     *prompts.SourceRegistry
}

// New создаёт Runner с фабрикой провайдеров по умолчанию.
func New(cfg *config.AppConfig) *Runner {
	return &Runner{
		cfg:         cfg,
		newProvider: factory.NewLLMProvider,
	}
}

// WithProviderFactory подменяет фабрику провайдеров (используется в тестах).
func (r *Runner) WithProviderFactory(f ProviderFactory) *Runner {
	r.newProvider = f
	return r
}

// WithHTTPClient подменяет HTTP клиент для http-цепочек (используется в тестах).
func (r *Runner) WithHTTPClient(client requests.HTTPClient) *Runner {
	r.httpClient = client
	return r
}

// WithSources подключает реестр источников шаблонов для prompt_ref.
func (r *Runner) WithSources(registry *prompts.SourceRegistry) *Runner {
	r.sources = registry
	return r
}

// provider собирает адаптер модели: определение из конфигурации
// плюс переопределения из payload.
func (r *Runner) provider(params ModelParameters) (llm.Provider, error) {
	def, ok := r.cfg.GetChatModel(params.Model)
	if !ok {
		return nil, fmt.Errorf("model '%s' is not defined in config", params.Model)
	}
	return r.newProvider(params.apply(def))
}

// resolvePrompt возвращает текст шаблона: inline prompt побеждает,
// иначе шаблон загружается из реестра по prompt_ref.
func (r *Runner) resolvePrompt(ctx context.Context, inline, ref string) (string, error) {
	if inline != "" {
		return inline, nil
	}
	if ref == "" {
		return "", fmt.Errorf("payload defines neither prompt nor prompt_ref")
	}
	if r.sources == nil || !r.sources.HasSources() {
		return "", fmt.Errorf("prompt_ref '%s' requires configured prompt sources", ref)
	}

	file, err := r.sources.Load(ctx, ref)
	if err != nil {
		return "", fmt.Errorf("failed to resolve prompt_ref '%s': %w", ref, err)
	}
	return file.Template, nil
}

// Completion выполняет одиночный вызов модели без цепочки.
func (r *Runner) Completion(ctx context.Context, payload CompletionPayload) (string, error) {
	utils.Info("Invoke completion", "model", payload.ModelParameters.Model)

	provider, err := r.provider(payload.ModelParameters)
	if err != nil {
		return "", err
	}

	text, err := r.resolvePrompt(ctx, payload.Prompt, payload.PromptRef)
	if err != nil {
		return "", err
	}

	llmChain := chain.NewLLMChain(provider, prompt.FromTemplate(text))
	return chain.Run(ctx, llmChain, propertiesToMap(payload.Properties))
}

// RunChain выполняет один шаг по его payload.
//
// Диспетчеризация — исчерпывающий switch по ChainKind: новый вид
// цепочки не скомпилируется, пока не получит ветку здесь.
func (r *Runner) RunChain(ctx context.Context, payload ChainPayload) (string, error) {
	kind, err := ParseChainKind(payload.ChainType)
	if err != nil {
		return "", err
	}

	utils.Info("Invoke chain", "kind", kind.String())

	switch kind {
	case KindLLM:
		return r.runLLMChain(ctx, payload)
	case KindHTTPRequest:
		return r.runHTTPChain(ctx, payload)
	case KindDatabase:
		return r.runDatabaseChain(ctx, payload)
	}
	return "", &UnsupportedChainTypeError{ChainType: payload.ChainType}
}

// RunChains выполняет конвейер: каждый шаг по порядку, его выход
// подставляется в общий промпт на место {output_variable}, и после
// всех шагов выполняется финальный вызов модели с итоговым промптом.
//
// Шаги никогда не переупорядочиваются и не параллелятся: промпт
// каждого следующего шага текстуально зависит от предыдущих выходов.
func (r *Runner) RunChains(ctx context.Context, payload MultiChainsPayload) (string, error) {
	sharedPrompt, err := r.resolvePrompt(ctx, payload.Prompt, payload.PromptRef)
	if err != nil {
		return "", err
	}

	for i, step := range payload.Chains {
		result, err := r.RunChain(ctx, step)
		if err != nil {
			return "", fmt.Errorf("chain step %d (%s): %w", i, step.ChainType, err)
		}
		sharedPrompt = ReplaceToken(result, step.OutputVariable, sharedPrompt)
	}

	return r.Completion(ctx, CompletionPayload{
		Prompt:          sharedPrompt,
		ModelParameters: payload.ModelParameters,
		Properties:      payload.Properties,
	})
}

// runLLMChain — простой шаг: рендер шаблона properties и вызов модели.
func (r *Runner) runLLMChain(ctx context.Context, payload ChainPayload) (string, error) {
	provider, err := r.provider(payload.ModelParameters)
	if err != nil {
		return "", err
	}

	text, err := r.resolvePrompt(ctx, payload.Prompt, payload.PromptRef)
	if err != nil {
		return "", err
	}

	llmChain := chain.NewLLMChain(provider, prompt.FromTemplate(text))
	return chain.Run(ctx, llmChain, propertiesToMap(payload.Properties))
}

// runHTTPChain — шаг HTTP действия: GET + суммаризация ответа.
//
// Вопрос шага — промпт payload-а с подставленными properties.
func (r *Runner) runHTTPChain(ctx context.Context, payload ChainPayload) (string, error) {
	if payload.HTTPRequest == nil {
		return "", fmt.Errorf("chain type '%s' requires http_request payload", payload.ChainType)
	}

	provider, err := r.provider(payload.ModelParameters)
	if err != nil {
		return "", err
	}

	text, err := r.resolvePrompt(ctx, payload.Prompt, payload.PromptRef)
	if err != nil {
		return "", err
	}
	question := MergeProperties(payload.Properties, text)

	headers := payload.HTTPRequest.Headers()
	var textRequests *requests.TextRequests
	if r.httpClient != nil {
		textRequests = requests.NewWithClient(r.httpClient, headers)
	} else {
		textRequests, err = requests.New(r.cfg.HTTP, headers)
		if err != nil {
			return "", err
		}
	}

	httpChain := httpchain.New(provider, textRequests, payload.HTTPRequest.APIURL)
	return chain.Run(ctx, httpChain, map[string]any{"question": question})
}

// runDatabaseChain — шаг SQL действия.
//
// С заданным sql_cmd — шаблонный режим (properties подставляются в
// команду); без него модель генерирует SQL по вопросу и схеме.
func (r *Runner) runDatabaseChain(ctx context.Context, payload ChainPayload) (string, error) {
	if payload.DBRequest == nil {
		return "", fmt.Errorf("chain type '%s' requires db_request payload", payload.ChainType)
	}

	provider, err := r.provider(payload.ModelParameters)
	if err != nil {
		return "", err
	}

	text, err := r.resolvePrompt(ctx, payload.Prompt, payload.PromptRef)
	if err != nil {
		return "", err
	}

	dbConfig := r.cfg.Database
	if payload.DBRequest.Driver != "" {
		dbConfig.Driver = payload.DBRequest.Driver
	}
	if payload.DBRequest.DSN != "" {
		dbConfig.DSN = payload.DBRequest.DSN
	}

	db, err := database.Open(dbConfig)
	if err != nil {
		return "", err
	}
	defer db.Close()

	var dbChain *sqlchain.DatabaseChain
	if payload.DBRequest.SQLCmd != "" {
		dbChain = sqlchain.FromSQLCmd(provider, db, payload.DBRequest.SQLCmd, propertiesToMap(payload.Properties))
	} else {
		dbChain = sqlchain.FromLLM(provider, db)
	}

	return chain.Run(ctx, dbChain, map[string]any{dbChain.InputKey(): text})
}
