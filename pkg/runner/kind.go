package runner

import (
	"fmt"
	"strings"
)

// ChainKind — закрытое множество видов цепочек, доступных через Runner.
//
// Вид — типизированный enum, а не строковое сравнение по месту:
// добавление нового вида ломает компиляцию во всех switch без default.
type ChainKind int

const (
	// KindLLM — простая цепочка рендер-промпта и вызова модели.
	KindLLM ChainKind = iota
	// KindHTTPRequest — HTTP цепочка: GET запрос + суммаризация ответа.
	KindHTTPRequest
	// KindDatabase — SQL цепочка generate-and-run.
	KindDatabase
)

// String возвращает каноническое имя вида.
func (k ChainKind) String() string {
	switch k {
	case KindLLM:
		return "llm"
	case KindHTTPRequest:
		return "http_request"
	case KindDatabase:
		return "database"
	default:
		return fmt.Sprintf("ChainKind(%d)", int(k))
	}
}

// UnsupportedChainTypeError — неизвестный тег вида цепочки в payload.
type UnsupportedChainTypeError struct {
	ChainType string
}

func (e *UnsupportedChainTypeError) Error() string {
	return fmt.Sprintf("unsupported chain type: '%s'", e.ChainType)
}

// ParseChainKind разбирает строковый тег из payload в ChainKind.
// Регистр и разделители не значимы: "httpRequest" == "http_request".
func ParseChainKind(s string) (ChainKind, error) {
	normalized := strings.ToLower(strings.ReplaceAll(s, "_", ""))
	switch normalized {
	case "llm":
		return KindLLM, nil
	case "httprequest", "http":
		return KindHTTPRequest, nil
	case "database", "db", "sql":
		return KindDatabase, nil
	default:
		return 0, &UnsupportedChainTypeError{ChainType: s}
	}
}
