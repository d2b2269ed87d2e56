package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	apperrors "github.com/kbukum/whispering/errors"
)

func newJSONLogger(t *testing.T, level string) (*Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return NewWithWriter(&Config{Level: level, Format: FormatJSON}, "whispering", &buf), &buf
}

func lastEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[len(lines)-1]), &entry); err != nil {
		t.Fatalf("invalid JSON log line %q: %v", lines[len(lines)-1], err)
	}
	return entry
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	l, buf := newJSONLogger(t, "debug")
	l.Info("transcription finished", Fields(FieldProvider, "Groq", FieldSizeBytes, 42))

	entry := lastEntry(t, buf)
	if entry["message"] != "transcription finished" {
		t.Errorf("unexpected message %v", entry["message"])
	}
	if entry["service"] != "whispering" {
		t.Errorf("expected service field, got %v", entry["service"])
	}
	if entry[FieldProvider] != "Groq" {
		t.Errorf("expected provider=Groq, got %v", entry[FieldProvider])
	}
	if entry[FieldSizeBytes] != float64(42) {
		t.Errorf("expected size_bytes=42, got %v", entry[FieldSizeBytes])
	}
}

func TestNewWithWriter_LevelFilter(t *testing.T) {
	l, buf := newJSONLogger(t, "warn")
	l.Info("hidden")
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected info/debug to be filtered, got %q", buf.String())
	}
	l.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Error("expected warn to be written")
	}
}

func TestNewInvalidLevel(t *testing.T) {
	l, buf := newJSONLogger(t, "invalid-level")
	l.Debug("hidden")
	l.Info("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected info fallback level, got %q", buf.String())
	}
}

func TestWithComponent(t *testing.T) {
	l, buf := newJSONLogger(t, "info")
	l.WithComponent("transcriber").Info("x")
	if lastEntry(t, buf)[FieldComponent] != "transcriber" {
		t.Error("expected component field")
	}
}

func TestWithContext(t *testing.T) {
	l, buf := newJSONLogger(t, "info")
	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithCallID(ctx, "call-1")
	ctx = ContextWithTraceID(ctx, "trace-1")

	l.WithContext(ctx).Info("x")
	entry := lastEntry(t, buf)
	if entry[FieldRequestID] != "req-1" || entry[FieldCallID] != "call-1" || entry[FieldTraceID] != "trace-1" {
		t.Errorf("expected context ids, got %v", entry)
	}
	if RequestIDFromContext(ctx) != "req-1" {
		t.Error("expected request id round trip")
	}
	if RequestIDFromContext(context.Background()) != "" {
		t.Error("expected empty request id")
	}
}

func TestWithFields(t *testing.T) {
	l, buf := newJSONLogger(t, "info")
	l.WithFields(map[string]interface{}{FieldModel: "whisper-1"}).Info("x")
	if lastEntry(t, buf)[FieldModel] != "whisper-1" {
		t.Error("expected model field")
	}
}

func TestWithError_AppError(t *testing.T) {
	l, buf := newJSONLogger(t, "info")
	err := fmt.Errorf("call: %w", apperrors.Cancelled().WithStage(apperrors.StageCleanup))
	l.WithError(err).Warn("failed")

	entry := lastEntry(t, buf)
	if entry[FieldErrorCode] != "CANCELLED" {
		t.Errorf("expected error_code, got %v", entry[FieldErrorCode])
	}
	if entry[FieldStage] != "cleanup" {
		t.Errorf("expected stage, got %v", entry[FieldStage])
	}
	if entry[FieldError] == nil {
		t.Error("expected error field")
	}
}

func TestWithError_PlainError(t *testing.T) {
	l, buf := newJSONLogger(t, "info")
	l.WithError(fmt.Errorf("boom")).Error("failed")
	entry := lastEntry(t, buf)
	if entry[FieldError] != "boom" {
		t.Errorf("expected error=boom, got %v", entry[FieldError])
	}
	if _, ok := entry[FieldErrorCode]; ok {
		t.Error("plain errors carry no code")
	}
}

func TestConsoleLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: FormatConsole, NoColor: true}, "whispering", &buf)
	l.Info("hello", Fields(FieldProvider, "OpenAI"))
	out := buf.String()
	if !strings.Contains(out, "[WHI][INF]") {
		t.Errorf("expected service and level tag, got %q", out)
	}
	if !strings.Contains(out, "provider:") || !strings.Contains(out, "OpenAI") {
		t.Errorf("expected field in console output, got %q", out)
	}
}

func TestNop(t *testing.T) {
	Nop().Error("discarded")
}

func TestGlobalLogger(t *testing.T) {
	prev := globalLogger
	defer SetGlobalLogger(prev)

	l, buf := newJSONLogger(t, "debug")
	SetGlobalLogger(l)
	if GetGlobalLogger() != l {
		t.Fatal("expected the configured global logger")
	}

	Debug("d")
	Info("i")
	Warn("w")
	Error("e")
	WithComponent("server").Info("c")
	WithContext(ContextWithCallID(context.Background(), "c1")).Info("ctx")

	if n := strings.Count(buf.String(), "\n"); n != 6 {
		t.Errorf("expected 6 lines, got %d", n)
	}
}

func TestInit(t *testing.T) {
	prev := globalLogger
	defer SetGlobalLogger(prev)

	Init(Config{Level: "debug", Format: FormatJSON}, "svc")
	if GetGlobalLogger().service != "svc" {
		t.Errorf("expected service svc, got %q", GetGlobalLogger().service)
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "info" || cfg.Format != FormatConsole || cfg.Output != "stderr" || !cfg.Timestamp {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	valid := &Config{Level: "debug", Format: FormatJSON, Output: "stdout"}
	if err := valid.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	for _, cfg := range []*Config{
		{Level: "loud", Format: FormatJSON, Output: "stdout"},
		{Level: "info", Format: "xml", Output: "stdout"},
		{Level: "info", Format: FormatJSON, Output: "file"},
	} {
		if err := cfg.Validate(); err == nil {
			t.Errorf("expected error for %+v", cfg)
		}
	}
}

func TestRegisterAndGet(t *testing.T) {
	l := Nop()
	Register("custom", l)
	if Get("custom") != l {
		t.Error("expected registered logger")
	}
	if Get("unregistered") == nil {
		t.Error("expected fallback logger")
	}
	found := false
	for _, name := range Registered() {
		if name == "custom" {
			found = true
		}
		if name == "unregistered" {
			t.Error("Get must not register fallback loggers")
		}
	}
	if !found {
		t.Error("expected custom in Registered()")
	}
}

func TestFields(t *testing.T) {
	f := Fields("a", 1, "b", "two", 3, "skipped", "dangling")
	if f["a"] != 1 || f["b"] != "two" {
		t.Errorf("unexpected fields %v", f)
	}
	if len(f) != 2 {
		t.Errorf("expected 2 fields, got %d", len(f))
	}
}

func TestDurationFields(t *testing.T) {
	f := DurationFields("transcribe", 1500*time.Millisecond)
	if f[FieldOperation] != "transcribe" || f[FieldDuration] != int64(1500) {
		t.Errorf("unexpected fields %v", f)
	}
}
