package prompts

import (
	"context"
	"fmt"
)

// SourceRegistry — реестр источников шаблонов с fallback chain.
//
// Источники пробуются по порядку добавления. Первый успешный Load()
// возвращается; если не сработал ни один — возвращается последняя ошибка.
type SourceRegistry struct {
	sources []TemplateSource
}

// NewSourceRegistry создаёт новый реестр источников.
func NewSourceRegistry() *SourceRegistry {
	return &SourceRegistry{
		sources: make([]TemplateSource, 0),
	}
}

// AddSource добавляет источник в fallback chain.
// Источники пробуются в порядке добавления.
func (r *SourceRegistry) AddSource(source TemplateSource) {
	r.sources = append(r.sources, source)
}

// Load загружает шаблон из первого доступного источника.
func (r *SourceRegistry) Load(ctx context.Context, name string) (*TemplateFile, error) {
	var lastErr error

	for i, source := range r.sources {
		file, err := source.Load(ctx, name)
		if err == nil {
			return file, nil
		}
		lastErr = fmt.Errorf("source %d: %w", i, err)
	}

	if lastErr != nil {
		return nil, fmt.Errorf("all sources failed for '%s': %w", name, lastErr)
	}

	return nil, fmt.Errorf("no sources configured for prompt template '%s'", name)
}

// HasSources проверяет, есть ли хотя бы один источник.
func (r *SourceRegistry) HasSources() bool {
	return len(r.sources) > 0
}
