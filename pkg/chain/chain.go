// Package chain предоставляет контракт цепочки — именованной композируемой
// единицы выполнения с фиксированным набором входных и выходных ключей.
//
// Базовый контракт не выполняет I/O: все side effects делегированы
// конкретной реализации через Apply. Валидация входов и слияние
// результата — общие для всех цепочек и живут в Call.
package chain

import (
	"context"
	"fmt"
)

// Chain представляет единицу выполнения с контрактом входов/выходов.
//
// Реализация обязана быть безопасной для конкурентных НЕЗАВИСИМЫХ вызовов:
// всё состояние одного вызова живёт в локальных переменных Apply,
// а не в полях структуры.
type Chain interface {
	// ChainType возвращает строковый тег конкретного варианта цепочки.
	ChainType() string

	// InputKeys возвращает ключи, которые обязан передать вызывающий.
	InputKeys() []string

	// OutputKeys возвращает ключи, гарантированно присутствующие в результате.
	OutputKeys() []string

	// Apply выполняет шаг цепочки. Валидацией входов не занимается —
	// это делает Call.
	Apply(ctx context.Context, inputs map[string]any) (map[string]string, error)
}

// Call выполняет цепочку с валидацией контракта.
//
// Алгоритм:
//  1. Проверяет что каждый ключ из InputKeys присутствует в inputs,
//     иначе MissingInputError.
//  2. Вызывает Apply.
//  3. Если returnOnlyOutputs — возвращает только выходы; иначе сливает
//     входы с выходами. Политика коллизии ключей: выходы побеждают.
func Call(ctx context.Context, c Chain, inputs map[string]any, returnOnlyOutputs bool) (map[string]string, error) {
	// 1. Валидация контракта входов
	for _, key := range c.InputKeys() {
		if _, ok := inputs[key]; !ok {
			return nil, &MissingInputError{ChainType: c.ChainType(), Key: key}
		}
	}

	// 2. Шаг конкретной цепочки
	outputs, err := c.Apply(ctx, inputs)
	if err != nil {
		return nil, err
	}

	if returnOnlyOutputs {
		return outputs, nil
	}

	// 3. Слияние: сначала входы, потом выходы (выходы побеждают)
	result := make(map[string]string, len(inputs)+len(outputs))
	for k, v := range inputs {
		result[k] = fmt.Sprint(v)
	}
	for k, v := range outputs {
		result[k] = v
	}

	return result, nil
}

// Run выполняет цепочку с единственным выходным ключом и возвращает его значение.
//
// Возвращает ошибку, если цепочка объявляет не ровно один выходной ключ.
func Run(ctx context.Context, c Chain, inputs map[string]any) (string, error) {
	outputKeys := c.OutputKeys()
	if len(outputKeys) != 1 {
		return "", fmt.Errorf("chain '%s': Run supports exactly one output key, got %d",
			c.ChainType(), len(outputKeys))
	}

	outputs, err := Call(ctx, c, inputs, true)
	if err != nil {
		return "", err
	}

	return outputs[outputKeys[0]], nil
}
