// Package database — обёртка над database/sql для SQL цепочек.
//
// Предоставляет то, что нужно движку цепочек от источника данных:
// список таблиц, текстовое описание схемы для промпта и выполнение
// одиночной команды с текстовым результатом.
//
// Драйвер не импортируется здесь: его регистрирует вызывающая сторона
// (cmd утилиты и тесты используют mattn/go-sqlite3).
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/ilkoid/zveno-ai/pkg/config"
	"github.com/ilkoid/zveno-ai/pkg/utils"
)

// UnknownResourceError — запрошенное ограничение содержит имена таблиц,
// которых нет в базе. Возвращается ДО любого вызова модели, чтобы не
// тратить инвокации впустую.
type UnknownResourceError struct {
	Resources []string
}

func (e *UnknownResourceError) Error() string {
	return fmt.Sprintf("tables %v not found in database", e.Resources)
}

// Database — обёртка вокруг открытого *sql.DB.
//
// Экземпляр принадлежит создавшей его цепочке и не разделяется между
// конкурентными вызовами (сам *sql.DB потокобезопасен, но контракт
// движка — один адаптер на инвокацию либо внешний пул).
type Database struct {
	db            *sql.DB
	dialect       string
	includeTables []string
	ignoreTables  []string
	sampleRows    int
}

// Open открывает соединение по конфигурации и возвращает обёртку.
//
// Резолв credentials/DSN — забота config слоя; сюда приходит готовое
// значение (никакого чтения environment внутри адаптера).
func Open(cfg config.DatabaseConfig) (*Database, error) {
	cfg = cfg.GetDefaults()

	if len(cfg.IncludeTables) > 0 && len(cfg.IgnoreTables) > 0 {
		return nil, fmt.Errorf("cannot specify both include_tables and ignore_tables")
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return New(db, cfg), nil
}

// New оборачивает уже открытое соединение (используется в тестах).
func New(db *sql.DB, cfg config.DatabaseConfig) *Database {
	cfg = cfg.GetDefaults()

	return &Database{
		db:            db,
		dialect:       dialectForDriver(cfg.Driver),
		includeTables: cfg.IncludeTables,
		ignoreTables:  cfg.IgnoreTables,
		sampleRows:    cfg.SampleRows,
	}
}

// dialectForDriver приводит имя драйвера к имени диалекта для промпта.
func dialectForDriver(driver string) string {
	switch driver {
	case "sqlite3":
		return "sqlite"
	default:
		return strings.ToLower(driver)
	}
}

// Dialect возвращает имя SQL диалекта (в нижнем регистре).
func (d *Database) Dialect() string {
	return d.dialect
}

// Close закрывает соединение.
func (d *Database) Close() error {
	return d.db.Close()
}

// TableNames возвращает имена доступных таблиц.
//
// include_tables (если задан) возвращается как есть; иначе список
// читается из каталога БД, и из него вычитается ignore_tables.
func (d *Database) TableNames(ctx context.Context) ([]string, error) {
	if len(d.includeTables) > 0 {
		result := make([]string, len(d.includeTables))
		copy(result, d.includeTables)
		return result, nil
	}

	allTables, err := d.listAllTables(ctx)
	if err != nil {
		return nil, err
	}

	if len(d.ignoreTables) == 0 {
		return allTables, nil
	}

	ignored := make(map[string]bool, len(d.ignoreTables))
	for _, name := range d.ignoreTables {
		ignored[name] = true
	}

	result := make([]string, 0, len(allTables))
	for _, name := range allTables {
		if !ignored[name] {
			result = append(result, name)
		}
	}
	return result, nil
}

// listAllTables читает список таблиц из каталога БД.
func (d *Database) listAllTables(ctx context.Context) ([]string, error) {
	var query string
	switch d.dialect {
	case "sqlite":
		query = "SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name"
	default:
		return nil, fmt.Errorf("listing tables is not supported for dialect '%s': set include_tables", d.dialect)
	}

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// TableInfo возвращает текстовое описание схемы для промпта: DDL каждой
// таблицы плюс несколько строк-примеров (Rajkumar et al, 2022 — примеры
// строк заметно улучшают качество генерации SQL).
//
// names ограничивает набор таблиц; nil означает "все доступные".
// Имена из ограничения сопоставляются без учёта регистра; имена без
// соответствия в базе — UnknownResourceError.
func (d *Database) TableInfo(ctx context.Context, names []string) (string, error) {
	usable, err := d.TableNames(ctx)
	if err != nil {
		return "", err
	}

	selected := usable
	if names != nil {
		// Сопоставляем ограничение с реальными таблицами case-insensitively,
		// возвращая канонические имена из каталога.
		byLower := make(map[string]string, len(usable))
		for _, name := range usable {
			byLower[strings.ToLower(name)] = name
		}

		var missing []string
		selected = make([]string, 0, len(names))
		for _, name := range names {
			canonical, ok := byLower[strings.ToLower(name)]
			if !ok {
				missing = append(missing, name)
				continue
			}
			selected = append(selected, canonical)
		}
		if len(missing) > 0 {
			return "", &UnknownResourceError{Resources: missing}
		}
	}

	var tables []string
	for _, tableName := range selected {
		ddl, err := d.TableDDL(ctx, tableName)
		if err != nil {
			return "", err
		}
		tableInfo := strings.TrimRight(ddl, "\n")

		if d.sampleRows > 0 {
			sample, err := d.SampleRows(ctx, tableName)
			if err != nil {
				return "", err
			}
			tableInfo += "\n\n/*\n" + sample + "\n*/"
		}

		tables = append(tables, tableInfo)
	}

	return strings.Join(tables, "\n\n"), nil
}

// TableDDL возвращает CREATE TABLE выражение таблицы.
func (d *Database) TableDDL(ctx context.Context, tableName string) (string, error) {
	switch d.dialect {
	case "sqlite":
		var ddl sql.NullString
		err := d.db.QueryRowContext(ctx,
			"SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?", tableName).Scan(&ddl)
		if err == sql.ErrNoRows {
			return "", &UnknownResourceError{Resources: []string{tableName}}
		}
		if err != nil {
			return "", fmt.Errorf("failed to read DDL for '%s': %w", tableName, err)
		}
		return ddl.String, nil
	default:
		return "", fmt.Errorf("DDL lookup is not supported for dialect '%s'", d.dialect)
	}
}

// SampleRows возвращает несколько строк таблицы в текстовом виде.
func (d *Database) SampleRows(ctx context.Context, tableName string) (string, error) {
	command := fmt.Sprintf("SELECT * FROM %s LIMIT %d", tableName, d.sampleRows)
	result, err := d.Run(ctx, command, true)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d rows from %s table:\n%s", d.sampleRows, tableName, result), nil
}

// Run выполняет одну SQL команду и возвращает текстовый результат.
//
// Для команд, возвращающих строки — таблица с \t-разделителями
// (с заголовком при includeColumnNames); для остальных — "Update Count: N".
//
// Пустая команда сюда доходит и отвергается драйвером — это осознанно:
// движок цепочек не занимается валидацией SQL.
func (d *Database) Run(ctx context.Context, command string, includeColumnNames bool) (string, error) {
	utils.Debug("Run SQL command", "command", command)

	if !returnsRows(command) {
		res, err := d.db.ExecContext(ctx, command)
		if err != nil {
			return "", fmt.Errorf("sql execution failed: %w", err)
		}
		count, err := res.RowsAffected()
		if err != nil {
			return "", fmt.Errorf("sql execution failed: %w", err)
		}
		return fmt.Sprintf("Update Count: %d", count), nil
	}

	rows, err := d.db.QueryContext(ctx, command)
	if err != nil {
		return "", fmt.Errorf("sql query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return "", fmt.Errorf("sql query failed: %w", err)
	}

	var sb strings.Builder
	if includeColumnNames {
		sb.WriteString(strings.Join(columns, "\t"))
		sb.WriteString("\n")
	}

	values := make([]sql.NullString, len(columns))
	scanArgs := make([]any, len(columns))
	for i := range values {
		scanArgs[i] = &values[i]
	}

	var dataRows []string
	for rows.Next() {
		if err := rows.Scan(scanArgs...); err != nil {
			return "", fmt.Errorf("sql row scan failed: %w", err)
		}
		cells := make([]string, len(values))
		for i, v := range values {
			if v.Valid {
				cells[i] = v.String
			} else {
				cells[i] = "NULL"
			}
		}
		dataRows = append(dataRows, strings.Join(cells, "\t"))
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("sql query failed: %w", err)
	}

	sb.WriteString(strings.Join(dataRows, "\n"))
	return sb.String(), nil
}

// returnsRows определяет, возвращает ли команда результирующие строки.
func returnsRows(command string) bool {
	head := strings.ToUpper(strings.TrimSpace(command))
	for _, keyword := range []string{"SELECT", "WITH", "PRAGMA", "EXPLAIN"} {
		if strings.HasPrefix(head, keyword) {
			return true
		}
	}
	return false
}
