package observability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := Config{ServiceName: "whispering"}
	cfg.ApplyDefaults()

	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected Interval 15s, got %v", cfg.Interval)
	}
	if cfg.Environment != "development" {
		t.Errorf("expected development environment, got %s", cfg.Environment)
	}
}

func TestNewMetrics(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	metrics, err := NewMetrics(meter)
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}
	if metrics == nil {
		t.Fatal("expected non-nil metrics")
	}

	ctx := context.Background()
	metrics.RecordOperation(ctx, "OpenAI", "execute", "ok", 50*time.Millisecond)
	metrics.RecordAudioSize(ctx, "OpenAI", 1024)
	metrics.RecordError(ctx, "NETWORK_ERROR", "transcriber")
}

func TestSetup_Disabled(t *testing.T) {
	m, shutdown, err := Setup(context.Background(), Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m == nil {
		t.Fatal("expected metrics bound to the global meter")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("unexpected shutdown error: %v", err)
	}
}

func TestServiceHealth_AddComponent(t *testing.T) {
	sh := NewServiceHealth("whispering", "dev")
	sh.AddComponent(Health{Name: "OpenAI", Status: HealthStatusUp})
	if sh.Status != HealthStatusUp {
		t.Errorf("expected up, got %s", sh.Status)
	}

	sh.AddComponent(Health{Name: "cleanup", Status: HealthStatusDegraded})
	if sh.Status != HealthStatusDegraded {
		t.Errorf("expected degraded, got %s", sh.Status)
	}

	sh.AddComponent(Health{Name: "faster-whisper-server", Status: HealthStatusDown})
	if sh.Status != HealthStatusDown {
		t.Errorf("expected down, got %s", sh.Status)
	}

	sh.AddComponent(Health{Name: "late", Status: HealthStatusDegraded})
	if sh.Status != HealthStatusDown {
		t.Errorf("expected 'down' not overridden by 'degraded', got %s", sh.Status)
	}
	if len(sh.Components) != 4 {
		t.Errorf("expected 4 components, got %d", len(sh.Components))
	}
}

func TestStartSpan(t *testing.T) {
	ctx, span := StartSpan(context.Background(), SpanTranscribe)
	defer span.End()

	if span == nil {
		t.Fatal("expected non-nil span")
	}
	if SpanFromContext(ctx) == nil {
		t.Fatal("expected span in context")
	}
}

func TestSetSpanAttributeAndError(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer tp.Shutdown(context.Background())
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	ctx, span := StartSpan(context.Background(), "test-attrs")
	SetSpanAttribute(ctx, AttrProvider, "Groq")
	SetSpanAttribute(ctx, AttrAudioBytes, int64(2048))
	SetSpanAttribute(ctx, "float-key", 3.14)
	SetSpanAttribute(ctx, "bool-key", true)
	SetSpanAttribute(ctx, "unsupported-key", struct{}{})
	SetSpanError(ctx, fmt.Errorf("test error"))
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	var found bool
	for _, attr := range spans[0].Attributes {
		if string(attr.Key) == AttrProvider && attr.Value.AsString() == "Groq" {
			found = true
		}
	}
	if !found {
		t.Error("expected provider attribute on span")
	}
	if len(spans[0].Events) != 1 {
		t.Errorf("expected the error recorded as an event, got %d events", len(spans[0].Events))
	}
}

func TestSetSpanAttributeNoSpan(t *testing.T) {
	ctx := context.Background()
	SetSpanAttribute(ctx, "key", "value")
	SetSpanError(ctx, fmt.Errorf("no span error"))
}

func TestInitTracerAndMeter(t *testing.T) {
	cfg := Config{ServiceName: "test", Insecure: true}
	cfg.ApplyDefaults()

	tp, err := InitTracer(context.Background(), cfg)
	if err != nil {
		t.Fatalf("InitTracer failed: %v", err)
	}
	defer tp.Shutdown(context.Background())

	mp, err := InitMeter(context.Background(), cfg)
	if err != nil {
		t.Fatalf("InitMeter failed: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = mp.Shutdown(ctx)
}

func TestProbe(t *testing.T) {
	up := Probe(context.Background(), "Groq", time.Second, func(context.Context) bool { return true })
	if up.Status != HealthStatusUp || up.Name != "Groq" {
		t.Errorf("unexpected health %+v", up)
	}

	down := Probe(context.Background(), "faster-whisper-server", time.Second, func(context.Context) bool { return false })
	if down.Status != HealthStatusDegraded || down.Message == "" {
		t.Errorf("unexpected health %+v", down)
	}

	slow := Probe(context.Background(), "faster-whisper-server", 10*time.Millisecond, func(ctx context.Context) bool {
		<-ctx.Done()
		return false
	})
	if slow.Message != "probe timed out" {
		t.Errorf("expected timeout message, got %q", slow.Message)
	}
}
