// Package sqlchain — цепочка "вопрос → SQL → выполнение → ответ".
package sqlchain

import (
	"context"
	"fmt"
	"strings"

	"github.com/ilkoid/zveno-ai/pkg/chain"
	"github.com/ilkoid/zveno-ai/pkg/database"
	"github.com/ilkoid/zveno-ai/pkg/llm"
	"github.com/ilkoid/zveno-ai/pkg/prompt"
	"github.com/ilkoid/zveno-ai/pkg/utils"
)

// DefaultTopK — лимит строк, подставляемый в промпт генерации SQL.
const DefaultTopK = 5

// TableNamesKey — служебный входной ключ с ограничением набора таблиц
// ([]string). Не входит в InputKeys: передаётся составной цепочкой
// (sequential decider), а не вызывающим. nil — без ограничения.
const TableNamesKey = "table_names_to_use"

// stopMarker обрывает генерацию до того, как модель сфабрикует SQLResult.
var stopMarker = []string{"\n\nSQLResult:"}

// DatabaseChain — SQL цепочка generate-and-run.
//
// Два режима:
//   - генерация: модель пишет SQL по вопросу и схеме, команда извлекается
//     из ответа (extract.go);
//   - шаблонная команда: SQL задан заранее (sqlCmd + properties), модель
//     вызывается один раз — только для формулировки ответа.
//
// ВНИМАНИЕ: цепочка выполняет SQL, который написала модель. На данных,
// где важна безопасность, используйте соединение с минимальными правами.
type DatabaseChain struct {
	llmChain     *chain.LLMChain
	database     *database.Database
	topK         int
	inputKey     string
	outputKey    string
	returnDirect bool

	// шаблонный режим: sqlCmd содержит {placeholder}-ы, значения — в properties
	sqlCmd     string
	properties map[string]any
}

// FromLLM создаёт SQL цепочку в режиме генерации со стандартным промптом.
func FromLLM(provider llm.Provider, db *database.Database) *DatabaseChain {
	return FromLLMWithPrompt(provider, db, QueryPrompt)
}

// FromLLMWithPrompt создаёт SQL цепочку в режиме генерации с заданным промптом.
func FromLLMWithPrompt(provider llm.Provider, db *database.Database, tmpl *prompt.Template) *DatabaseChain {
	return &DatabaseChain{
		llmChain:  chain.NewLLMChain(provider, tmpl),
		database:  db,
		topK:      DefaultTopK,
		inputKey:  "query",
		outputKey: "result",
	}
}

// FromSQLCmd создаёт SQL цепочку с заранее заданной командой.
//
// Placeholder-ы вида {name} в sqlCmd подставляются из properties; сами
// properties дополнительно попадают во входы answer-промпта.
func FromSQLCmd(provider llm.Provider, db *database.Database, sqlCmd string, properties map[string]any) *DatabaseChain {
	c := FromLLMWithPrompt(provider, db, CmdPrompt)
	c.sqlCmd = sqlCmd
	c.properties = properties
	return c
}

// WithReturnDirect включает возврат сырого результата SQL без answer-этапа.
func (c *DatabaseChain) WithReturnDirect(v bool) *DatabaseChain {
	c.returnDirect = v
	return c
}

// WithTopK задаёт лимит строк для промпта генерации.
func (c *DatabaseChain) WithTopK(k int) *DatabaseChain {
	c.topK = k
	return c
}

// Database возвращает адаптер БД цепочки.
func (c *DatabaseChain) Database() *database.Database {
	return c.database
}

// InputKey возвращает имя входного ключа с вопросом.
func (c *DatabaseChain) InputKey() string {
	return c.inputKey
}

// ChainType возвращает тег цепочки.
func (c *DatabaseChain) ChainType() string {
	return "sql_database_chain"
}

// InputKeys возвращает единственный ключ с вопросом.
func (c *DatabaseChain) InputKeys() []string {
	return []string{c.inputKey}
}

// OutputKeys возвращает единственный выходной ключ с ответом.
func (c *DatabaseChain) OutputKeys() []string {
	return []string{c.outputKey}
}

// Apply выполняет цепочку.
//
// Алгоритм:
//  1. собрать описание схемы (ограничение — служебный ключ TableNamesKey);
//     неизвестные таблицы — UnknownResourceError ДО вызова модели;
//  2. получить SQL команду: генерацией со стоп-маркером SQLResult либо
//     подстановкой properties в заданный шаблон;
//  3. выполнить команду (';' предварительно удаляются);
//  4. при returnDirect вернуть сырой результат, иначе — второй вызов
//     модели для формулировки ответа.
func (c *DatabaseChain) Apply(ctx context.Context, inputs map[string]any) (map[string]string, error) {
	tableInfo, err := c.database.TableInfo(ctx, tableRestriction(inputs))
	if err != nil {
		return nil, err
	}

	question := fmt.Sprint(inputs[c.inputKey])

	llmInputs := map[string]any{
		"table_info": tableInfo,
		"top_k":      c.topK,
		"dialect":    c.database.Dialect(),
	}

	var inputText, command string
	if c.sqlCmd == "" {
		// Режим генерации: "SQLQuery:" в конце входа провоцирует модель
		// продолжить именно командой.
		inputText = question + "\nSQLQuery:"
		llmInputs["input"] = inputText
		llmInputs[chain.StopKey] = stopMarker

		generated, err := c.llmChain.Predict(ctx, llmInputs)
		if err != nil {
			return nil, err
		}
		command = ExtractCommand(generated)
	} else {
		inputText = question
		llmInputs["input"] = inputText
		command = c.sqlCmd
		for key, value := range c.properties {
			llmInputs[key] = value
			command = strings.ReplaceAll(command, "{"+key+"}", fmt.Sprint(value))
		}
	}

	command = strings.ReplaceAll(command, ";", "")
	utils.Info("SQL chain command", "command", strings.TrimSpace(command))

	result, err := c.database.Run(ctx, command, true)
	if err != nil {
		return nil, &chain.ActionExecutionError{Action: "sql", Cause: err}
	}

	if c.returnDirect {
		return map[string]string{c.outputKey: result}, nil
	}

	// Answer-этап: дописываем результат в тот же вход и просим модель
	// сформулировать ответ. Стоп-маркер здесь не нужен — модель должна
	// дойти до конца ответа.
	llmInputs["input"] = inputText + fmt.Sprintf("\nSQLResult:\n%s\nAnswer:", result)
	delete(llmInputs, chain.StopKey)

	answer, err := c.llmChain.Predict(ctx, llmInputs)
	if err != nil {
		return nil, err
	}

	return map[string]string{c.outputKey: strings.TrimSpace(answer)}, nil
}

// tableRestriction читает служебное ограничение таблиц из входов.
func tableRestriction(inputs map[string]any) []string {
	if names, ok := inputs[TableNamesKey].([]string); ok {
		return names
	}
	return nil
}

// Ensure DatabaseChain implements Chain
var _ chain.Chain = (*DatabaseChain)(nil)
