package sources

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ilkoid/zveno-ai/pkg/prompts"
)

// DatabaseSource — загрузка шаблонов из SQL базы данных.
type DatabaseSource struct {
	db    *sql.DB
	table string
}

// NewDatabaseSource создаёт источник шаблонов из SQL таблицы.
//
// Структура таблицы:
//
//	CREATE TABLE prompts (
//	    id VARCHAR(255) PRIMARY KEY,
//	    template TEXT,
//	    variables TEXT,   -- JSON список имён
//	    metadata TEXT     -- JSON объект
//	);
func NewDatabaseSource(db *sql.DB, table string) *DatabaseSource {
	if table == "" {
		table = "prompts"
	}
	return &DatabaseSource{
		db:    db,
		table: table,
	}
}

// Load загружает шаблон из базы данных по имени.
func (s *DatabaseSource) Load(ctx context.Context, name string) (*prompts.TemplateFile, error) {
	var template, variablesJSON, metadataJSON sql.NullString

	query := fmt.Sprintf(
		"SELECT template, variables, metadata FROM %s WHERE id = ?",
		s.table,
	)

	err := s.db.QueryRowContext(ctx, query, name).Scan(&template, &variablesJSON, &metadataJSON)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: '%s' in table '%s'", prompts.ErrNotFound, name, s.table)
	}
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}

	file := &prompts.TemplateFile{
		Template: template.String,
	}

	if variablesJSON.Valid && variablesJSON.String != "" {
		if err := json.Unmarshal([]byte(variablesJSON.String), &file.Variables); err != nil {
			return nil, fmt.Errorf("failed to parse variables JSON: %w", err)
		}
	}
	if metadataJSON.Valid && metadataJSON.String != "" {
		if err := json.Unmarshal([]byte(metadataJSON.String), &file.Metadata); err != nil {
			return nil, fmt.Errorf("failed to parse metadata JSON: %w", err)
		}
	}

	return file, nil
}

// Ensure DatabaseSource implements TemplateSource
var _ prompts.TemplateSource = (*DatabaseSource)(nil)
