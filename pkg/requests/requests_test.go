package requests

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

// mockHTTPClient — HTTPClient с фиксированным ответом, запоминает запросы.
type mockHTTPClient struct {
	status   int
	body     string
	err      error
	requests []*http.Request
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return &http.Response{
		StatusCode: m.status,
		Body:       io.NopCloser(strings.NewReader(m.body)),
		Header:     make(http.Header),
	}, nil
}

// TestGetReturnsBody verifies body passthrough and header propagation.
func TestGetReturnsBody(t *testing.T) {
	client := &mockHTTPClient{status: 200, body: `{"temp": 42}`}
	r := NewWithClient(client, map[string]string{
		"Authorization": "Bearer token",
		"Content-Type":  "application/json",
	})

	got, err := r.Get(context.Background(), "https://api.example.com/weather")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != `{"temp": 42}` {
		t.Errorf("Get() = %q, want body passthrough", got)
	}

	if len(client.requests) != 1 {
		t.Fatalf("requests = %d, want 1", len(client.requests))
	}
	req := client.requests[0]
	if req.Method != http.MethodGet {
		t.Errorf("Method = %q, want GET", req.Method)
	}
	if req.Header.Get("Authorization") != "Bearer token" {
		t.Errorf("Authorization header = %q", req.Header.Get("Authorization"))
	}
	if req.Header.Get("Content-Type") != "application/json" {
		t.Errorf("Content-Type header = %q", req.Header.Get("Content-Type"))
	}
}

// TestNonSuccessStatus verifies that non-2xx responses become RequestError.
func TestNonSuccessStatus(t *testing.T) {
	client := &mockHTTPClient{status: 503, body: "unavailable"}
	r := NewWithClient(client, nil)

	_, err := r.Get(context.Background(), "https://api.example.com")
	if err == nil {
		t.Fatal("Get() expected error, got nil")
	}

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error type = %T, want *RequestError", err)
	}
	if reqErr.StatusCode != 503 {
		t.Errorf("StatusCode = %d, want 503", reqErr.StatusCode)
	}
	if reqErr.Body != "unavailable" {
		t.Errorf("Body = %q, want %q", reqErr.Body, "unavailable")
	}
}

// TestTransportError verifies that transport failures pass through.
func TestTransportError(t *testing.T) {
	cause := errors.New("connection refused")
	r := NewWithClient(&mockHTTPClient{err: cause}, nil)

	_, err := r.Get(context.Background(), "https://api.example.com")
	if !errors.Is(err, cause) {
		t.Errorf("error = %v, want transport cause", err)
	}
}

// TestPostSendsBody verifies POST body wiring.
func TestPostSendsBody(t *testing.T) {
	client := &mockHTTPClient{status: 201, body: "created"}
	r := NewWithClient(client, nil)

	got, err := r.Post(context.Background(), "https://api.example.com/items", `{"name":"x"}`)
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	if got != "created" {
		t.Errorf("Post() = %q, want %q", got, "created")
	}

	req := client.requests[0]
	if req.Method != http.MethodPost {
		t.Errorf("Method = %q, want POST", req.Method)
	}
	sent, _ := io.ReadAll(req.Body)
	if string(sent) != `{"name":"x"}` {
		t.Errorf("request body = %q", string(sent))
	}
}
