package prompts

import "context"

// TemplateSource — интерфейс для загрузки шаблонов промптов из
// различных источников (файлы, S3, база данных).
//
// Новый источник — новая реализация, существующий код не меняется.
type TemplateSource interface {
	// Load загружает шаблон по имени.
	// Возвращает ошибку, если источник не содержит шаблон.
	Load(ctx context.Context, name string) (*TemplateFile, error)
}
