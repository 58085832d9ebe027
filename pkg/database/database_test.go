package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ilkoid/zveno-ai/pkg/config"
)

func openTestDB(t *testing.T, cfg config.DatabaseConfig) *Database {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	statements := []string{
		"CREATE TABLE Orders (id INTEGER PRIMARY KEY, amount INTEGER)",
		"CREATE TABLE Customers (id INTEGER PRIMARY KEY, name TEXT)",
		"CREATE TABLE Audit (id INTEGER PRIMARY KEY, note TEXT)",
		"INSERT INTO Orders (id, amount) VALUES (1, 100), (2, 250)",
		"INSERT INTO Customers (id, name) VALUES (1, 'Alice'), (2, NULL)",
	}
	for _, stmt := range statements {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}

	cfg.Driver = "sqlite3"
	return New(db, cfg)
}

// TestTableNamesCatalog verifies catalog listing and the ignore filter.
func TestTableNamesCatalog(t *testing.T) {
	ctx := context.Background()

	t.Run("all tables sorted", func(t *testing.T) {
		db := openTestDB(t, config.DatabaseConfig{})
		names, err := db.TableNames(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Audit", "Customers", "Orders"}, names)
	})

	t.Run("ignore_tables filters catalog", func(t *testing.T) {
		db := openTestDB(t, config.DatabaseConfig{IgnoreTables: []string{"Audit"}})
		names, err := db.TableNames(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Customers", "Orders"}, names)
	})

	t.Run("include_tables returned as is", func(t *testing.T) {
		db := openTestDB(t, config.DatabaseConfig{IncludeTables: []string{"Orders"}})
		names, err := db.TableNames(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"Orders"}, names)
	})
}

// TestTableInfo verifies schema text assembly and restriction handling.
func TestTableInfo(t *testing.T) {
	ctx := context.Background()

	t.Run("DDL with sample rows block", func(t *testing.T) {
		db := openTestDB(t, config.DatabaseConfig{SampleRows: 2})
		info, err := db.TableInfo(ctx, []string{"Orders"})
		require.NoError(t, err)

		assert.Contains(t, info, "CREATE TABLE Orders")
		assert.Contains(t, info, "/*\n2 rows from Orders table:")
		assert.Contains(t, info, "id\tamount")
		assert.Contains(t, info, "1\t100")
		assert.NotContains(t, info, "Customers")
	})

	t.Run("restriction resolves case-insensitively", func(t *testing.T) {
		db := openTestDB(t, config.DatabaseConfig{SampleRows: 1})
		info, err := db.TableInfo(ctx, []string{"orders"})
		require.NoError(t, err)
		assert.Contains(t, info, "CREATE TABLE Orders")
	})

	t.Run("unknown table fails with UnknownResourceError", func(t *testing.T) {
		db := openTestDB(t, config.DatabaseConfig{})
		_, err := db.TableInfo(ctx, []string{"Orders", "Ghost"})
		require.Error(t, err)

		var unknownErr *UnknownResourceError
		require.True(t, errors.As(err, &unknownErr))
		assert.Equal(t, []string{"Ghost"}, unknownErr.Resources)
	})

	t.Run("empty restriction yields empty schema", func(t *testing.T) {
		db := openTestDB(t, config.DatabaseConfig{})
		info, err := db.TableInfo(ctx, []string{})
		require.NoError(t, err)
		assert.Empty(t, info)
	})
}

// TestRun verifies textual result rendering for queries and updates.
func TestRun(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t, config.DatabaseConfig{})

	t.Run("select with header", func(t *testing.T) {
		result, err := db.Run(ctx, "SELECT id, amount FROM Orders ORDER BY id", true)
		require.NoError(t, err)
		assert.Equal(t, "id\tamount\n1\t100\n2\t250", result)
	})

	t.Run("select without header", func(t *testing.T) {
		result, err := db.Run(ctx, "SELECT id FROM Orders ORDER BY id", false)
		require.NoError(t, err)
		assert.Equal(t, "1\n2", result)
	})

	t.Run("null rendered as NULL", func(t *testing.T) {
		result, err := db.Run(ctx, "SELECT name FROM Customers WHERE id = 2", false)
		require.NoError(t, err)
		assert.Equal(t, "NULL", result)
	})

	t.Run("update returns affected count", func(t *testing.T) {
		result, err := db.Run(ctx, "UPDATE Orders SET amount = amount + 1", true)
		require.NoError(t, err)
		assert.Equal(t, "Update Count: 2", result)
	})

	t.Run("invalid sql fails", func(t *testing.T) {
		_, err := db.Run(ctx, "SELECT nothing FROM nowhere", true)
		assert.Error(t, err)
	})
}

// TestDialect verifies driver to dialect mapping.
func TestDialect(t *testing.T) {
	db := openTestDB(t, config.DatabaseConfig{})
	assert.Equal(t, "sqlite", db.Dialect())
}
