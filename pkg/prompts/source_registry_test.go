package prompts

import (
	"context"
	"fmt"
	"testing"
)

// stubSource — источник с фиксированным результатом.
type stubSource struct {
	file *TemplateFile
	err  error
}

func (s *stubSource) Load(_ context.Context, _ string) (*TemplateFile, error) {
	return s.file, s.err
}

// TestRegistryFallbackChain verifies that sources are tried in order and
// the first success wins.
func TestRegistryFallbackChain(t *testing.T) {
	registry := NewSourceRegistry()
	registry.AddSource(&stubSource{err: fmt.Errorf("unavailable")})
	registry.AddSource(&stubSource{file: &TemplateFile{Template: "from second"}})
	registry.AddSource(&stubSource{file: &TemplateFile{Template: "never reached"}})

	file, err := registry.Load(context.Background(), "any")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if file.Template != "from second" {
		t.Errorf("Template = %q, want %q", file.Template, "from second")
	}
}

// TestRegistryAllSourcesFail verifies the aggregated failure.
func TestRegistryAllSourcesFail(t *testing.T) {
	registry := NewSourceRegistry()
	registry.AddSource(&stubSource{err: fmt.Errorf("first down")})
	registry.AddSource(&stubSource{err: fmt.Errorf("second down")})

	_, err := registry.Load(context.Background(), "tmpl")
	if err == nil {
		t.Fatal("Load() expected error, got nil")
	}
}

// TestRegistryNoSources verifies behavior of an empty registry.
func TestRegistryNoSources(t *testing.T) {
	registry := NewSourceRegistry()

	if registry.HasSources() {
		t.Error("HasSources() = true for empty registry")
	}
	if _, err := registry.Load(context.Background(), "x"); err == nil {
		t.Error("Load() expected error for empty registry")
	}
}
