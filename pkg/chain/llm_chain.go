package chain

import (
	"context"

	"github.com/ilkoid/zveno-ai/pkg/llm"
	"github.com/ilkoid/zveno-ai/pkg/prompt"
	"github.com/ilkoid/zveno-ai/pkg/utils"
)

// DefaultOutputKey — выходной ключ LLMChain по умолчанию.
const DefaultOutputKey = "text"

// StopKey — служебный входной ключ со стоп-последовательностями ([]string).
//
// Не входит в контракт InputKeys: стоп-последовательности опциональны
// и передаются цепочкой-владельцем, а не вызывающим.
const StopKey = "stop"

// LLMChain — простейшая цепочка: рендер шаблона → вызов модели.
//
// Строительный блок для составных цепочек (sqlchain, httpchain):
// они владеют своим LLMChain и вызывают Predict/PredictAndParse.
type LLMChain struct {
	llm       llm.Provider
	prompt    *prompt.Template
	outputKey string
	parser    prompt.OutputParser
}

// NewLLMChain создаёт LLM цепочку с выходным ключом по умолчанию.
func NewLLMChain(provider llm.Provider, tmpl *prompt.Template) *LLMChain {
	return &LLMChain{
		llm:       provider,
		prompt:    tmpl,
		outputKey: DefaultOutputKey,
	}
}

// NewLLMChainWithOutput создаёт LLM цепочку с явным выходным ключом
// и опциональным парсером ответа (для decider-этапа).
func NewLLMChainWithOutput(provider llm.Provider, tmpl *prompt.Template, outputKey string, parser prompt.OutputParser) *LLMChain {
	return &LLMChain{
		llm:       provider,
		prompt:    tmpl,
		outputKey: outputKey,
		parser:    parser,
	}
}

// ChainType возвращает тег цепочки.
func (c *LLMChain) ChainType() string {
	return "llm_chain"
}

// InputKeys возвращает переменные шаблона промпта.
func (c *LLMChain) InputKeys() []string {
	return c.prompt.Variables()
}

// OutputKeys возвращает единственный выходной ключ.
func (c *LLMChain) OutputKeys() []string {
	return []string{c.outputKey}
}

// Apply рендерит промпт и вызывает модель.
func (c *LLMChain) Apply(ctx context.Context, inputs map[string]any) (map[string]string, error) {
	text, err := c.Predict(ctx, inputs)
	if err != nil {
		return nil, err
	}
	return map[string]string{c.outputKey: text}, nil
}

// Predict рендерит промпт из inputs и возвращает сырой текст модели.
//
// Стоп-последовательности берутся из служебного ключа StopKey (если есть).
// Ошибка рендера — TemplateRenderError, ошибка модели — ModelInvocationError.
func (c *LLMChain) Predict(ctx context.Context, inputs map[string]any) (string, error) {
	promptText, err := c.prompt.Render(inputs)
	if err != nil {
		return "", err
	}

	req := llm.Request{Prompt: promptText}
	if stop, ok := inputs[StopKey].([]string); ok {
		req.Stop = stop
	}

	utils.Debug("LLM chain predict",
		"prompt_length", len(req.Prompt),
		"stop_count", len(req.Stop))

	text, err := c.llm.Generate(ctx, req)
	if err != nil {
		return "", &ModelInvocationError{Cause: err}
	}

	return text, nil
}

// PredictAndParse вызывает модель и прогоняет ответ через парсер.
//
// Без настроенного парсера возвращает ответ как единственный элемент списка.
func (c *LLMChain) PredictAndParse(ctx context.Context, inputs map[string]any) ([]string, error) {
	text, err := c.Predict(ctx, inputs)
	if err != nil {
		return nil, err
	}

	if c.parser == nil {
		return []string{text}, nil
	}

	return c.parser.Parse(text)
}

// Ensure LLMChain implements Chain
var _ Chain = (*LLMChain)(nil)
