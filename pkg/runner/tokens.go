package runner

import "strings"

// Подстановка токенов конвейера. Это буквальная замена подстрок, а не
// рендер шаблона: значения могут содержать '{' и не должны
// интерпретироваться повторно.

// MergeProperties подставляет значения properties в шаблон по месту
// {key} плейсхолдеров. Плейсхолдеры без property остаются как есть.
func MergeProperties(properties []Property, template string) string {
	output := template
	for _, p := range properties {
		output = strings.ReplaceAll(output, "{"+p.Key+"}", p.Value)
	}
	return output
}

// ReplaceToken подставляет выход шага на место {outputVariable} в общем
// промпте конвейера.
func ReplaceToken(data, outputVariable, template string) string {
	return strings.ReplaceAll(template, "{"+outputVariable+"}", data)
}

// propertiesToMap переводит properties во входы цепочки.
func propertiesToMap(properties []Property) map[string]any {
	inputs := make(map[string]any, len(properties))
	for _, p := range properties {
		inputs[p.Key] = p.Value
	}
	return inputs
}
