package chain

import "fmt"

// Типизированные ошибки оркестрации.
//
// Ни одна из них не ретраится внутри движка: частично выполненное действие
// (например, разрушительный SQL) никогда не должно маскироваться. Ошибки
// всегда поднимаются до вызывающего.

// MissingInputError — объявленный входной ключ отсутствует при вызове цепочки.
type MissingInputError struct {
	ChainType string
	Key       string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("chain '%s': missing input key '%s'", e.ChainType, e.Key)
}

// ModelInvocationError — сбой адаптера при вызове языковой модели.
type ModelInvocationError struct {
	Cause error
}

func (e *ModelInvocationError) Error() string {
	return fmt.Sprintf("model invocation failed: %v", e.Cause)
}

func (e *ModelInvocationError) Unwrap() error {
	return e.Cause
}

// ActionExecutionError — сбой action target: SQL ошибка или неуспешный HTTP ответ.
type ActionExecutionError struct {
	// Action — какое действие выполнялось ("sql", "http")
	Action string
	Cause  error
}

func (e *ActionExecutionError) Error() string {
	return fmt.Sprintf("%s action execution failed: %v", e.Action, e.Cause)
}

func (e *ActionExecutionError) Unwrap() error {
	return e.Cause
}
