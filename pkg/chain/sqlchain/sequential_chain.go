package sqlchain

import (
	"context"
	"strings"

	"github.com/ilkoid/zveno-ai/pkg/chain"
	"github.com/ilkoid/zveno-ai/pkg/database"
	"github.com/ilkoid/zveno-ai/pkg/llm"
	"github.com/ilkoid/zveno-ai/pkg/prompt"
	"github.com/ilkoid/zveno-ai/pkg/utils"
)

// SequentialChain — двухэтапная SQL цепочка: decider → SQL.
//
// Decider-этап просит модель выбрать из каталога таблицы, релевантные
// вопросу, и передаёт выбор вложенной DatabaseChain как ограничение.
// Для широких схем это сокращает промпт генерации до нескольких таблиц.
type SequentialChain struct {
	sqlChain     *DatabaseChain
	deciderChain *chain.LLMChain
	inputKey     string
}

// NewSequential создаёт decider-цепочку со стандартными промптами.
func NewSequential(provider llm.Provider, db *database.Database) *SequentialChain {
	return NewSequentialWithPrompts(provider, db, QueryPrompt, DeciderPrompt)
}

// NewSequentialWithPrompts создаёт decider-цепочку с заданными промптами
// генерации SQL и выбора таблиц.
func NewSequentialWithPrompts(provider llm.Provider, db *database.Database, queryPrompt, deciderPrompt *prompt.Template) *SequentialChain {
	return &SequentialChain{
		sqlChain:     FromLLMWithPrompt(provider, db, queryPrompt),
		deciderChain: chain.NewLLMChainWithOutput(provider, deciderPrompt, "table_names", prompt.CommaSeparatedListParser{}),
		inputKey:     "query",
	}
}

// ChainType возвращает тег цепочки.
func (c *SequentialChain) ChainType() string {
	return "sql_database_sequential_chain"
}

// InputKeys возвращает единственный ключ с вопросом.
func (c *SequentialChain) InputKeys() []string {
	return []string{c.inputKey}
}

// OutputKeys возвращает выходные ключи вложенной SQL цепочки.
func (c *SequentialChain) OutputKeys() []string {
	return c.sqlChain.OutputKeys()
}

// Apply выполняет decider-этап и делегирует вложенной SQL цепочке.
//
// Ответ decider-а парсится как comma-список и валидируется против
// каталога без учёта регистра; несуществующие имена отбрасываются,
// порядок и регистр ответа decider-а сохраняются. Пустой выбор не
// ошибка: вложенная цепочка получает пустое ограничение.
func (c *SequentialChain) Apply(ctx context.Context, inputs map[string]any) (map[string]string, error) {
	tableNames, err := c.sqlChain.Database().TableNames(ctx)
	if err != nil {
		return nil, err
	}

	candidates, err := c.deciderChain.PredictAndParse(ctx, map[string]any{
		"query":       inputs[c.inputKey],
		"table_names": strings.Join(tableNames, ", "),
	})
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(tableNames))
	for _, name := range tableNames {
		known[strings.ToLower(name)] = true
	}

	selected := make([]string, 0, len(candidates))
	for _, name := range candidates {
		if known[strings.ToLower(name)] {
			selected = append(selected, name)
		}
	}

	utils.Info("Decider selected tables", "tables", strings.Join(selected, ", "))

	return chain.Call(ctx, c.sqlChain, map[string]any{
		c.sqlChain.InputKey(): inputs[c.inputKey],
		TableNamesKey:         selected,
	}, true)
}

// Ensure SequentialChain implements Chain
var _ chain.Chain = (*SequentialChain)(nil)
