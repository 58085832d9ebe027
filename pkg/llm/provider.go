// Интерфейс Провайдера через который работает весь движок цепочек.

package llm

import "context"

// Request — один запрос на генерацию текста.
type Request struct {
	// Prompt — полный текст промпта
	Prompt string

	// Stop — стоп-последовательности для этого запроса (может быть nil).
	// Генерация обрывается до того, как модель успеет сфабриковать
	// продолжение (например, секцию "SQLResult:").
	Stop []string
}

// Provider — контракт для любого AI-сервиса.
//
// Каждая цепочка владеет собственным экземпляром провайдера,
// никаких глобальных синглтонов.
type Provider interface {
	// Generate отправляет промпт и возвращает текстовый ответ модели.
	Generate(ctx context.Context, req Request) (string, error)
}
