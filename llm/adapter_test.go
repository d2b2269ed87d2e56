package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kbukum/whispering/httpclient"
)

type mockDialect struct {
	name       string
	chatPath   string
	healthPath string
	buildErr   error
}

func (d *mockDialect) Name() string {
	if d.name != "" {
		return d.name
	}
	return "mock"
}

func (d *mockDialect) ChatPath() string {
	if d.chatPath != "" {
		return d.chatPath
	}
	return "/chat"
}

func (d *mockDialect) HealthPath() string { return d.healthPath }

func (d *mockDialect) BuildRequest(req CompletionRequest) (any, error) {
	if d.buildErr != nil {
		return nil, d.buildErr
	}
	return map[string]any{
		"model":       req.Model,
		"messages":    req.AllMessages(),
		"temperature": req.Temperature,
		"max_tokens":  req.MaxTokens,
	}, nil
}

func (d *mockDialect) ParseResponse(body []byte) (*CompletionResponse, error) {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, httpclient.NewShapeError("body is not a JSON object")
	}
	content, ok := raw["content"].(string)
	if !ok {
		return nil, httpclient.NewShapeError("content: expected string")
	}
	model, _ := raw["model"].(string)
	return &CompletionResponse{
		Content: content,
		Model:   model,
		Usage:   Usage{TotalTokens: 10},
	}, nil
}

func TestAdapter_New_WithDialect(t *testing.T) {
	// Register a mock dialect
	dialectsMu.Lock()
	original := dialects
	dialects = map[string]Dialect{}
	dialectsMu.Unlock()
	defer func() {
		dialectsMu.Lock()
		dialects = original
		dialectsMu.Unlock()
	}()

	RegisterDialect("mock", &mockDialect{})

	a, err := New(Config{
		Dialect: "mock",
		BaseURL: "http://localhost:12345",
		Model:   "test-model",
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if a.Name() != "mock-llm" {
		t.Errorf("Name() = %q, want %q", a.Name(), "mock-llm")
	}
	if a.Dialect().Name() != "mock" {
		t.Errorf("Dialect().Name() = %q, want %q", a.Dialect().Name(), "mock")
	}
}

func TestAdapter_New_UnknownDialect(t *testing.T) {
	_, err := New(Config{Dialect: "nonexistent-xyz"})
	if err == nil {
		t.Fatal("expected error for unknown dialect")
	}
}

func TestAdapter_NewWithDialect(t *testing.T) {
	d := &mockDialect{name: "direct"}
	a, err := NewWithDialect(d, Config{
		BaseURL: "http://localhost:12345",
		Model:   "test-model",
	})
	if err != nil {
		t.Fatalf("NewWithDialect() error: %v", err)
	}
	if a.Name() != "direct-llm" {
		t.Errorf("Name() = %q, want %q", a.Name(), "direct-llm")
	}
}

func TestAdapter_NewWithDialect_NilDialect(t *testing.T) {
	_, err := NewWithDialect(nil, Config{})
	if err != ErrNoDialect {
		t.Errorf("expected ErrNoDialect, got %v", err)
	}
}

func TestAdapter_Execute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat" {
			t.Errorf("path = %q, want /chat", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("method = %q, want POST", r.Method)
		}

		// Verify the request body was built by the dialect
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["model"] != "test-model" {
			t.Errorf("model = %v, want test-model", body["model"])
		}

		json.NewEncoder(w).Encode(map[string]any{
			"content": "Hello from LLM!",
			"model":   "test-model",
		})
	}))
	defer srv.Close()

	d := &mockDialect{}
	a, err := NewWithDialect(d, Config{
		BaseURL: srv.URL,
		Model:   "test-model",
	})
	if err != nil {
		t.Fatalf("NewWithDialect() error: %v", err)
	}

	resp, err := a.Execute(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "Hi"}},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if resp.Content != "Hello from LLM!" {
		t.Errorf("Content = %q, want %q", resp.Content, "Hello from LLM!")
	}
	if resp.Model != "test-model" {
		t.Errorf("Model = %q, want %q", resp.Model, "test-model")
	}
}

func TestAdapter_Execute_AppliesDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)

		if body["model"] != "default-model" {
			t.Errorf("model = %v, want default-model", body["model"])
		}
		if body["temperature"] != 0.7 {
			t.Errorf("temperature = %v, want 0.7", body["temperature"])
		}
		if body["max_tokens"] != float64(100) {
			t.Errorf("max_tokens = %v, want 100", body["max_tokens"])
		}

		json.NewEncoder(w).Encode(map[string]any{"content": "ok", "model": "default-model"})
	}))
	defer srv.Close()

	d := &mockDialect{}
	a, err := NewWithDialect(d, Config{
		BaseURL:     srv.URL,
		Model:       "default-model",
		Temperature: 0.7,
		MaxTokens:   100,
	})
	if err != nil {
		t.Fatalf("error: %v", err)
	}

	// No model, temperature or max tokens on the request.
	_, err = a.Execute(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "test"}},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
}

func TestAdapter_Execute_BuildError(t *testing.T) {
	d := &mockDialect{buildErr: fmt.Errorf("build failed")}
	a, err := NewWithDialect(d, Config{BaseURL: "http://localhost:1"})
	if err != nil {
		t.Fatalf("error: %v", err)
	}

	_, err = a.Execute(context.Background(), CompletionRequest{})
	if err == nil || !strings.Contains(err.Error(), "build request") {
		t.Errorf("expected build request error, got %v", err)
	}
}

func TestAdapter_IsAvailable_WithHealthPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
			return
		}
		w.WriteHeader(404)
	}))
	defer srv.Close()

	d := &mockDialect{healthPath: "/health"}
	a, err := NewWithDialect(d, Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("error: %v", err)
	}

	if !a.IsAvailable(context.Background()) {
		t.Error("IsAvailable() = false, want true")
	}
}

func TestAdapter_IsAvailable_NoHealthPath(t *testing.T) {
	d := &mockDialect{healthPath: ""}
	a, err := NewWithDialect(d, Config{BaseURL: "http://localhost:1"})
	if err != nil {
		t.Fatalf("error: %v", err)
	}

	if !a.IsAvailable(context.Background()) {
		t.Error("IsAvailable() = false, want true")
	}
}

func TestAdapter_Close(t *testing.T) {
	d := &mockDialect{}
	a, err := NewWithDialect(d, Config{BaseURL: "http://localhost:1"})
	if err != nil {
		t.Fatalf("error: %v", err)
	}

	if err := a.Close(context.Background()); err != nil {
		t.Errorf("Close() = %v, want nil", err)
	}
}

func TestAdapter_Execute_ShapeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"unexpected":true}`))
	}))
	defer srv.Close()

	a, err := NewWithDialect(&mockDialect{}, Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("error: %v", err)
	}

	_, err = a.Execute(context.Background(), CompletionRequest{})
	if !httpclient.IsResponseShape(err) {
		t.Fatalf("expected response shape error, got %v", err)
	}
}

func TestAdapter_Execute_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	defer srv.Close()

	a, err := NewWithDialect(&mockDialect{}, Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("error: %v", err)
	}

	_, err = a.Execute(context.Background(), CompletionRequest{})
	var he *httpclient.Error
	if !errors.As(err, &he) || he.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 error, got %v", err)
	}
}

func TestAdapter_SystemPromptPrepended(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []Message `json:"messages"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		if len(body.Messages) != 2 {
			t.Errorf("expected 2 messages, got %d", len(body.Messages))
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if body.Messages[0].Role != RoleSystem || body.Messages[0].Content != "be brief" {
			t.Errorf("unexpected system message %+v", body.Messages[0])
		}
		if body.Messages[1].Role != RoleUser || body.Messages[1].Content != "hello" {
			t.Errorf("unexpected user message %+v", body.Messages[1])
		}
		w.Write([]byte(`{"content":"hi"}`))
	}))
	defer srv.Close()

	a, err := NewWithDialect(&mockDialect{}, Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("error: %v", err)
	}

	got, err := Complete(context.Background(), a, "be brief", "hello", Float(0))
	if err != nil {
		t.Fatalf("Complete() error: %v", err)
	}
	if got != "hi" {
		t.Errorf("Complete() = %q, want hi", got)
	}
}
