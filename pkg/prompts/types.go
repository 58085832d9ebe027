package prompts

import "fmt"

// TemplateFile — содержимое загруженного шаблона промпта.
//
// Используется всеми реализациями TemplateSource интерфейса.
type TemplateFile struct {
	// Template — текст шаблона с {placeholder}-ами
	Template string `yaml:"template"`

	// Variables — объявленные переменные шаблона (опционально;
	// пустой список означает "вывести из текста")
	Variables []string `yaml:"variables"`

	// Metadata — метаданные шаблона
	Metadata map[string]any `yaml:"metadata"`
}

// ErrNotFound возвращается когда источник не содержит шаблон.
var ErrNotFound = fmt.Errorf("prompt template not found in source")
