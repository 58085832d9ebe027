package prompt

import "strings"

// OutputParser — разбор сырого текста модели в структурированное значение.
//
// Используется decider-этапом: модель возвращает список имён через запятую,
// парсер превращает его в []string.
type OutputParser interface {
	// Parse разбирает текст ответа модели.
	Parse(text string) ([]string, error)
}

// CommaSeparatedListParser разбирает ответ модели как список через запятую.
//
// Каждый элемент очищается от окружающих пробелов; пустые элементы
// отбрасываются.
type CommaSeparatedListParser struct{}

// Parse разбирает текст как comma-separated список.
func (p CommaSeparatedListParser) Parse(text string) ([]string, error) {
	parts := strings.Split(text, ",")

	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result, nil
}

var _ OutputParser = CommaSeparatedListParser{}
