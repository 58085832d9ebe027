package chain

import (
	"context"
	"errors"
	"testing"

	"github.com/ilkoid/zveno-ai/pkg/llm"
	"github.com/ilkoid/zveno-ai/pkg/prompt"
)

// echoChain — минимальная цепочка для проверки контракта Call.
type echoChain struct {
	inputKeys  []string
	outputKeys []string
	outputs    map[string]string
}

func (c *echoChain) ChainType() string    { return "echo_chain" }
func (c *echoChain) InputKeys() []string  { return c.inputKeys }
func (c *echoChain) OutputKeys() []string { return c.outputKeys }

func (c *echoChain) Apply(_ context.Context, _ map[string]any) (map[string]string, error) {
	return c.outputs, nil
}

// TestCallValidatesInputKeys verifies that a missing declared input fails
// with MissingInputError before Apply runs.
func TestCallValidatesInputKeys(t *testing.T) {
	c := &echoChain{
		inputKeys:  []string{"query"},
		outputKeys: []string{"result"},
		outputs:    map[string]string{"result": "ok"},
	}

	_, err := Call(context.Background(), c, map[string]any{"other": "x"}, true)
	if err == nil {
		t.Fatal("Call() expected error, got nil")
	}

	var missingErr *MissingInputError
	if !errors.As(err, &missingErr) {
		t.Fatalf("error type = %T, want *MissingInputError", err)
	}
	if missingErr.Key != "query" {
		t.Errorf("Key = %q, want %q", missingErr.Key, "query")
	}
	if missingErr.ChainType != "echo_chain" {
		t.Errorf("ChainType = %q, want %q", missingErr.ChainType, "echo_chain")
	}
}

// TestCallMergePolicy verifies that merged results keep inputs and that
// outputs win on key collision.
func TestCallMergePolicy(t *testing.T) {
	c := &echoChain{
		inputKeys:  []string{"query"},
		outputKeys: []string{"result"},
		outputs:    map[string]string{"result": "from output", "query": "overwritten"},
	}

	got, err := Call(context.Background(), c, map[string]any{"query": "original"}, false)
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}

	if got["result"] != "from output" {
		t.Errorf("result = %q, want %q", got["result"], "from output")
	}
	// Коллизия: выход побеждает вход
	if got["query"] != "overwritten" {
		t.Errorf("query = %q, want %q", got["query"], "overwritten")
	}
}

// TestCallReturnOnlyOutputs verifies that inputs are excluded when requested.
func TestCallReturnOnlyOutputs(t *testing.T) {
	c := &echoChain{
		inputKeys:  []string{"query"},
		outputKeys: []string{"result"},
		outputs:    map[string]string{"result": "ok"},
	}

	got, err := Call(context.Background(), c, map[string]any{"query": "q"}, true)
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if len(got) != 1 || got["result"] != "ok" {
		t.Errorf("Call() = %v, want map[result:ok]", got)
	}
}

// TestRunRequiresSingleOutput verifies the single-output contract of Run.
func TestRunRequiresSingleOutput(t *testing.T) {
	c := &echoChain{
		inputKeys:  []string{},
		outputKeys: []string{"a", "b"},
		outputs:    map[string]string{"a": "1", "b": "2"},
	}

	if _, err := Run(context.Background(), c, map[string]any{}); err == nil {
		t.Fatal("Run() expected error for two output keys, got nil")
	}
}

// mockProvider — управляемый адаптер модели для тестов LLMChain.
type mockProvider struct {
	response string
	err      error
	requests []llm.Request
}

func (m *mockProvider) Generate(_ context.Context, req llm.Request) (string, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

// TestLLMChainPredict verifies prompt rendering and stop sequence passing.
func TestLLMChainPredict(t *testing.T) {
	provider := &mockProvider{response: "answer"}
	tmpl := prompt.New("Q={q}", []string{"q"})
	c := NewLLMChain(provider, tmpl)

	got, err := c.Predict(context.Background(), map[string]any{
		"q":     "A",
		StopKey: []string{"\n\nSQLResult:"},
	})
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if got != "answer" {
		t.Errorf("Predict() = %q, want %q", got, "answer")
	}

	if len(provider.requests) != 1 {
		t.Fatalf("Generate calls = %d, want 1", len(provider.requests))
	}
	req := provider.requests[0]
	if req.Prompt != "Q=A" {
		t.Errorf("Prompt = %q, want %q", req.Prompt, "Q=A")
	}
	if len(req.Stop) != 1 || req.Stop[0] != "\n\nSQLResult:" {
		t.Errorf("Stop = %v, want [\\n\\nSQLResult:]", req.Stop)
	}
}

// TestLLMChainModelError verifies that adapter failures surface as
// ModelInvocationError with the cause preserved.
func TestLLMChainModelError(t *testing.T) {
	cause := errors.New("connection refused")
	provider := &mockProvider{err: cause}
	c := NewLLMChain(provider, prompt.New("hi", nil))

	_, err := c.Predict(context.Background(), map[string]any{})
	if err == nil {
		t.Fatal("Predict() expected error, got nil")
	}

	var modelErr *ModelInvocationError
	if !errors.As(err, &modelErr) {
		t.Fatalf("error type = %T, want *ModelInvocationError", err)
	}
	if !errors.Is(err, cause) {
		t.Error("ModelInvocationError does not unwrap to the cause")
	}
}

// TestLLMChainPredictAndParse verifies parser wiring and the no-parser fallback.
func TestLLMChainPredictAndParse(t *testing.T) {
	provider := &mockProvider{response: "orders, customers"}

	withParser := NewLLMChainWithOutput(provider, prompt.New("x", nil), "table_names", prompt.CommaSeparatedListParser{})
	got, err := withParser.PredictAndParse(context.Background(), map[string]any{})
	if err != nil {
		t.Fatalf("PredictAndParse() error = %v", err)
	}
	if len(got) != 2 || got[0] != "orders" || got[1] != "customers" {
		t.Errorf("PredictAndParse() = %v, want [orders customers]", got)
	}

	withoutParser := NewLLMChain(provider, prompt.New("x", nil))
	got, err = withoutParser.PredictAndParse(context.Background(), map[string]any{})
	if err != nil {
		t.Fatalf("PredictAndParse() error = %v", err)
	}
	if len(got) != 1 || got[0] != "orders, customers" {
		t.Errorf("PredictAndParse() = %v, want single raw element", got)
	}
}
