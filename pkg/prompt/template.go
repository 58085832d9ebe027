// Package prompt предоставляет шаблоны промптов с подстановкой {name} плейсхолдеров.
//
// Шаблон объявляет набор переменных; Render подставляет их значения за один
// проход. Подставленные значения — литеральный текст, повторного сканирования
// на плейсхолдеры нет.
package prompt

import (
	"fmt"
	"regexp"
)

// placeholderRe — плейсхолдер вида {name}.
var placeholderRe = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// TemplateRenderError — объявленная переменная шаблона не найдена в переданных значениях.
type TemplateRenderError struct {
	Variable string
}

func (e *TemplateRenderError) Error() string {
	return fmt.Sprintf("prompt template: variable '%s' is not provided", e.Variable)
}

// Template — шаблон промпта: текст с {name} плейсхолдерами и набор переменных.
//
// Иммутабелен после создания, безопасен для конкурентного Render.
type Template struct {
	variables []string
	text      string
}

// New создаёт шаблон с явным набором переменных.
func New(text string, variables []string) *Template {
	return &Template{
		variables: variables,
		text:      text,
	}
}

// FromTemplate создаёт шаблон, выводя набор переменных из самого текста.
//
// Используется там, где вызывающая сторона передаёт сырой текст промпта
// (multi-chain runner): каждый найденный {name} становится переменной.
func FromTemplate(text string) *Template {
	matches := placeholderRe.FindAllStringSubmatch(text, -1)

	seen := make(map[string]bool)
	variables := make([]string, 0, len(matches))
	for _, m := range matches {
		name := m[1]
		if !seen[name] {
			seen[name] = true
			variables = append(variables, name)
		}
	}

	return New(text, variables)
}

// Variables возвращает объявленный набор переменных шаблона.
func (t *Template) Variables() []string {
	result := make([]string, len(t.variables))
	copy(result, t.variables)
	return result
}

// Text возвращает исходный текст шаблона.
func (t *Template) Text() string {
	return t.text
}

// Render подставляет значения переменных в текст шаблона.
//
// Правила:
//   - каждая объявленная переменная обязана присутствовать в vars,
//     иначе TemplateRenderError;
//   - лишние ключи в vars молча игнорируются;
//   - одноимённые плейсхолдеры получают одно и то же значение;
//   - подстановка за один проход — значение не сканируется повторно,
//     даже если содержит {другой_плейсхолдер}.
func (t *Template) Render(vars map[string]any) (string, error) {
	// 1. Проверяем что все объявленные переменные переданы
	declared := make(map[string]bool, len(t.variables))
	for _, name := range t.variables {
		declared[name] = true
		if _, ok := vars[name]; !ok {
			return "", &TemplateRenderError{Variable: name}
		}
	}

	// 2. Один проход по тексту: заменяем только объявленные плейсхолдеры
	result := placeholderRe.ReplaceAllStringFunc(t.text, func(match string) string {
		name := match[1 : len(match)-1] // без фигурных скобок
		if !declared[name] {
			return match // необъявленный плейсхолдер остаётся как есть
		}
		return fmt.Sprint(vars[name])
	})

	return result, nil
}
