package sqlchain

import (
	"regexp"
	"strings"
)

// commandBlockRe — блок команды между маркером "SQLQuery:" и маркером
// "SQLResult:" в начале строки. (?s) — точка захватывает переводы строк.
var commandBlockRe = regexp.MustCompile(`(?s)SQLQuery:(.*?)\nSQLResult:`)

// ExtractCommand извлекает SQL команду из свободного текста модели.
//
// Чистая функция: текст → команда. Стратегии пробуются по порядку:
//  1. подстрока между маркерами "SQLQuery:" и "\nSQLResult:";
//  2. текст до первого из маркеров "\nSQLResult" / "\nAnswer"
//     (какой встретился раньше), с удалёнными ';';
//  3. весь текст целиком.
//
// Стратегия 3 — не обработка ошибки, а отложенный отказ: если текст
// не удалось ограничить, провал (если он есть) случится на этапе
// выполнения команды.
func ExtractCommand(text string) string {
	// Стратегия 1: явные маркеры-ограничители
	if m := commandBlockRe.FindStringSubmatch(text); m != nil {
		return m[1]
	}

	// Стратегия 2: первый из маркеров результата/ответа ограничивает команду
	index1 := strings.Index(text, "\nSQLResult")
	index2 := strings.Index(text, "\nAnswer")
	if index1 != -1 && (index2 == -1 || index1 < index2) {
		return strings.ReplaceAll(text[:index1], ";", "")
	}
	if index2 != -1 {
		return strings.ReplaceAll(text[:index2], ";", "")
	}

	// Стратегия 3: маркеров нет — команда это весь ответ
	return text
}
