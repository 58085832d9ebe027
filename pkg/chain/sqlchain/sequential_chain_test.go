package sqlchain

import (
	"context"
	"strings"
	"testing"

	"github.com/ilkoid/zveno-ai/pkg/chain"
)

// TestSequentialChainDeciderValidation verifies the end-to-end decider
// flow: candidate validation is case-insensitive, keeps the decider's
// casing and ordering, and drops unknown names.
func TestSequentialChainDeciderValidation(t *testing.T) {
	db := openTestDatabase(t)
	provider := &scriptProvider{responses: []string{
		"orders, Products",
		" SELECT COUNT(*) FROM Orders\nSQLResult:",
		"Two orders.",
	}}

	c := NewSequential(provider, db)
	outputs, err := chain.Call(context.Background(), c, map[string]any{"query": "How many orders?"}, true)
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}

	if outputs["result"] != "Two orders." {
		t.Errorf("result = %q, want %q", outputs["result"], "Two orders.")
	}

	if len(provider.requests) != 3 {
		t.Fatalf("model calls = %d, want 3 (decider, generation, answer)", len(provider.requests))
	}

	// Decider-этап получает полный каталог таблиц
	deciderReq := provider.requests[0]
	if !strings.Contains(deciderReq.Prompt, "Customers, Orders") {
		t.Errorf("decider prompt does not list catalog tables:\n%s", deciderReq.Prompt)
	}

	// Генерация ограничена валидированным выбором: "Products" отброшен,
	// "orders" сопоставлен с каноническим Orders
	genReq := provider.requests[1]
	if !strings.Contains(genReq.Prompt, "CREATE TABLE Orders") {
		t.Error("generation prompt does not contain the selected table DDL")
	}
	if strings.Contains(genReq.Prompt, "CREATE TABLE Customers") {
		t.Error("generation prompt leaks a table outside the validated selection")
	}
	if strings.Contains(genReq.Prompt, "Products") {
		t.Error("generation prompt contains an unknown table from the raw decider output")
	}
}

// TestSequentialChainEmptySelection verifies that an empty validated
// selection is not an error: the delegate runs with an empty restriction.
func TestSequentialChainEmptySelection(t *testing.T) {
	db := openTestDatabase(t)
	provider := &scriptProvider{responses: []string{
		"Products, Ghost",
		"SELECT 1\nSQLResult:",
		"Nothing relevant.",
	}}

	c := NewSequential(provider, db)
	outputs, err := chain.Call(context.Background(), c, map[string]any{"query": "irrelevant"}, true)
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if outputs["result"] != "Nothing relevant." {
		t.Errorf("result = %q, want %q", outputs["result"], "Nothing relevant.")
	}

	// Пустой выбор — пустое описание схемы в промпте генерации
	genReq := provider.requests[1]
	if strings.Contains(genReq.Prompt, "CREATE TABLE") {
		t.Error("generation prompt contains DDL despite empty selection")
	}
}

// TestSequentialChainContract verifies input/output key declarations.
func TestSequentialChainContract(t *testing.T) {
	db := openTestDatabase(t)
	c := NewSequential(&scriptProvider{}, db)

	if c.ChainType() != "sql_database_sequential_chain" {
		t.Errorf("ChainType() = %q", c.ChainType())
	}
	if keys := c.InputKeys(); len(keys) != 1 || keys[0] != "query" {
		t.Errorf("InputKeys() = %v, want [query]", keys)
	}
	if keys := c.OutputKeys(); len(keys) != 1 || keys[0] != "result" {
		t.Errorf("OutputKeys() = %v, want [result]", keys)
	}
}
