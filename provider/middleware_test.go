package provider_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	apperrors "github.com/kbukum/whispering/errors"
	"github.com/kbukum/whispering/logger"
	"github.com/kbukum/whispering/observability"
	"github.com/kbukum/whispering/provider"
	"github.com/kbukum/whispering/resilience"
)

type echoProvider struct {
	name string
}

func (p *echoProvider) Name() string                       { return p.name }
func (p *echoProvider) IsAvailable(_ context.Context) bool { return true }
func (p *echoProvider) Execute(_ context.Context, input string) (string, error) {
	return "echo:" + input, nil
}

func failing(err error) provider.RequestResponse[string, string] {
	return provider.Func("fail", func(context.Context, string) (string, error) {
		return "", err
	})
}

// --- Chain ---

func TestChain_Empty(t *testing.T) {
	wrapped := provider.Chain[string, string]()(&echoProvider{name: "test"})
	if wrapped.Name() != "test" {
		t.Fatalf("expected 'test', got %q", wrapped.Name())
	}
	result, err := wrapped.Execute(context.Background(), "hello")
	if err != nil || result != "echo:hello" {
		t.Fatalf("expected echo:hello, got %q, err %v", result, err)
	}
}

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(tag string) provider.Middleware[string, string] {
		return func(inner provider.RequestResponse[string, string]) provider.RequestResponse[string, string] {
			return provider.Func(inner.Name(), func(ctx context.Context, in string) (string, error) {
				order = append(order, tag+":before")
				out, err := inner.Execute(ctx, in)
				order = append(order, tag+":after")
				return out, err
			})
		}
	}

	wrapped := provider.Chain(mw("A"), nil, mw("B"), mw("C"))(&echoProvider{name: "test"})
	if _, err := wrapped.Execute(context.Background(), "x"); err != nil {
		t.Fatal(err)
	}

	want := []string{"A:before", "B:before", "C:before", "C:after", "B:after", "A:after"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order[%d] = %q, want %q", i, order[i], want[i])
		}
	}
}

// --- Adapt / Func ---

func TestAdapt(t *testing.T) {
	inner := &echoProvider{name: "inner"}
	adapted := provider.Adapt[int, int, string, string](inner, "lengths",
		func(_ context.Context, n int) (string, error) { return string(make([]byte, n)), nil },
		func(out string) (int, error) { return len(out), nil },
	)
	if adapted.Name() != "lengths" {
		t.Errorf("expected adapted name, got %q", adapted.Name())
	}
	got, err := adapted.Execute(context.Background(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if got != len("echo:")+3 {
		t.Errorf("expected %d, got %d", len("echo:")+3, got)
	}
}

func TestAdapt_MapInErrorSkipsInner(t *testing.T) {
	called := false
	inner := provider.Func("inner", func(context.Context, string) (string, error) {
		called = true
		return "", nil
	})
	adapted := provider.Adapt[string, string, string, string](inner, "x",
		func(context.Context, string) (string, error) { return "", errors.New("bad input") },
		func(s string) (string, error) { return s, nil },
	)
	if _, err := adapted.Execute(context.Background(), "in"); err == nil {
		t.Fatal("expected mapIn error")
	}
	if called {
		t.Error("inner must not run when mapIn fails")
	}
}

// --- WithLogging ---

func bufferLogger(buf *bytes.Buffer) *logger.Logger {
	return logger.NewWithWriter(&logger.Config{Level: "debug", Format: logger.FormatJSON}, "test", buf)
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var m map[string]any
	if err := json.Unmarshal(lines[len(lines)-1], &m); err != nil {
		t.Fatalf("invalid log line %q: %v", lines[len(lines)-1], err)
	}
	return m
}

func TestWithLogging_Success(t *testing.T) {
	var buf bytes.Buffer
	wrapped := provider.WithLogging[string, string](bufferLogger(&buf))(&echoProvider{name: "OpenAI"})

	result, err := wrapped.Execute(context.Background(), "hello")
	if err != nil || result != "echo:hello" {
		t.Fatalf("expected echo:hello, got %q, err %v", result, err)
	}
	line := lastLine(t, &buf)
	if line["level"] != "debug" || line["provider"] != "OpenAI" {
		t.Errorf("unexpected log line %v", line)
	}
	if !wrapped.IsAvailable(context.Background()) {
		t.Error("expected IsAvailable to delegate")
	}
}

func TestWithLogging_CanonicalError(t *testing.T) {
	var buf bytes.Buffer
	appErr := apperrors.HTTPStatus("Groq", 500, "boom").WithStage(apperrors.StageTranscription)
	wrapped := provider.WithLogging[string, string](bufferLogger(&buf))(failing(appErr))

	if _, err := wrapped.Execute(context.Background(), "hello"); err != appErr {
		t.Fatalf("expected error passthrough, got %v", err)
	}
	line := lastLine(t, &buf)
	if line["level"] != "error" {
		t.Errorf("expected error level, got %v", line["level"])
	}
	if line["error_code"] != string(apperrors.ErrCodeHTTPStatus) || line["stage"] != "transcription" {
		t.Errorf("expected code and stage fields, got %v", line)
	}
}

func TestWithLogging_CancelledLogsAtInfo(t *testing.T) {
	var buf bytes.Buffer
	wrapped := provider.WithLogging[string, string](bufferLogger(&buf))(failing(apperrors.Cancelled()))

	_, _ = wrapped.Execute(context.Background(), "hello")
	if line := lastLine(t, &buf); line["level"] != "info" {
		t.Errorf("expected info level for cancellation, got %v", line["level"])
	}
}

// --- WithTracing ---

func TestWithTracing_RecordsErrorCode(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer tp.Shutdown(context.Background())
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	appErr := apperrors.Network("OpenAI", errors.New("refused")).WithStage(apperrors.StageTranscription)
	wrapped := provider.WithTracing[string, string]("transcriber")(failing(appErr))
	if _, err := wrapped.Execute(context.Background(), "x"); err == nil {
		t.Fatal("expected error")
	}

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name != "transcriber.fail" {
		t.Errorf("unexpected span name %q", spans[0].Name)
	}
	attrs := map[string]string{}
	for _, kv := range spans[0].Attributes {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	if attrs[observability.AttrErrorCode] != string(apperrors.ErrCodeNetwork) {
		t.Errorf("expected error code attribute, got %v", attrs)
	}
	if attrs[observability.AttrStage] != "transcription" {
		t.Errorf("expected stage attribute, got %v", attrs)
	}
}

func TestWithTracing_Success(t *testing.T) {
	wrapped := provider.WithTracing[string, string]("svc")(&echoProvider{name: "trace-test"})
	result, err := wrapped.Execute(context.Background(), "hello")
	if err != nil || result != "echo:hello" {
		t.Fatalf("expected echo:hello, got %q, err %v", result, err)
	}
	if !wrapped.IsAvailable(context.Background()) {
		t.Error("expected IsAvailable to delegate")
	}
}

// --- WithMetrics ---

func TestWithMetrics_RecordsErrorCode(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer mp.Shutdown(context.Background())

	metrics, err := observability.NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatal(err)
	}
	wrapped := provider.WithMetrics[string, string](metrics, "transcription")(failing(apperrors.PayloadTooLarge(30, 25)))
	_, _ = wrapped.Execute(context.Background(), "x")

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatal(err)
	}
	var code string
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "error.total" {
				continue
			}
			sum := m.Data.(metricdata.Sum[int64])
			v, _ := sum.DataPoints[0].Attributes.Value("code")
			code = v.AsString()
		}
	}
	if code != string(apperrors.ErrCodePayloadTooLarge) {
		t.Errorf("expected error.total with code %s, got %q", apperrors.ErrCodePayloadTooLarge, code)
	}
}

func TestWithMetrics_NilIsPassthrough(t *testing.T) {
	p := &echoProvider{name: "plain"}
	if wrapped := provider.WithMetrics[string, string](nil, "x")(p); wrapped != provider.RequestResponse[string, string](p) {
		t.Error("expected nil metrics to return the inner provider")
	}
}

// --- WithRetry ---

func TestWithRetry_RetriesRetryableAppErrors(t *testing.T) {
	attempts := 0
	inner := provider.Func("flaky", func(context.Context, string) (string, error) {
		attempts++
		if attempts < 3 {
			return "", apperrors.Network("OpenAI", errors.New("reset"))
		}
		return "ok", nil
	})
	wrapped := provider.WithRetry[string, string](resilience.RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: time.Millisecond,
	})(inner)

	got, err := wrapped.Execute(context.Background(), "x")
	if err != nil || got != "ok" {
		t.Fatalf("expected ok after retries, got %q, %v", got, err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestWithRetry_SkipsNonRetryable(t *testing.T) {
	attempts := 0
	inner := provider.Func("auth", func(context.Context, string) (string, error) {
		attempts++
		return "", apperrors.HTTPStatus("OpenAI", 401, "bad key")
	})
	wrapped := provider.WithRetry[string, string](resilience.RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond})(inner)

	if _, err := wrapped.Execute(context.Background(), "x"); !apperrors.IsCode(err, apperrors.ErrCodeHTTPStatus) {
		t.Fatalf("expected HTTP status error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected a single attempt, got %d", attempts)
	}
}

func TestWithRetry_CancelledContextIsCanonical(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	wrapped := provider.WithRetry[string, string](resilience.RetryConfig{})(&echoProvider{name: "x"})

	if _, err := wrapped.Execute(ctx, "x"); !apperrors.IsCode(err, apperrors.ErrCodeCancelled) {
		t.Fatalf("expected CANCELLED, got %v", err)
	}
}
