package whisper

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/kbukum/whispering/errors"
	"github.com/kbukum/whispering/transcription"
)

func TestExecute_JSONBody(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/audio/transcriptions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("self-hosted requests carry no credentials")
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"text":" abc "}`))
	}))
	defer srv.Close()

	p, err := NewProvider(Config{URL: srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	resp, err := p.Execute(context.Background(), transcription.Request{
		Audio:   transcription.NewAudio([]byte("RIFF0000WAVE"), "audio/wav"),
		Options: transcription.Options{OutputLanguage: "de", Temperature: "0.4", Prompt: "p"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Text != " abc " {
		t.Errorf("unexpected text %q", resp.Text)
	}

	if got["file"] != base64.StdEncoding.EncodeToString([]byte("RIFF0000WAVE")) {
		t.Errorf("unexpected file field %v", got["file"])
	}
	if got["filename"] != "recording.wav" {
		t.Errorf("unexpected filename %v", got["filename"])
	}
	if got["model"] != transcription.FasterWhisperModel {
		t.Errorf("expected default model, got %v", got["model"])
	}
	if got["language"] != "de" || got["prompt"] != "p" || got["temperature"] != 0.4 {
		t.Errorf("unexpected optional fields %v", got)
	}
}

func TestExecute_OmitsAutoLanguageAndBadTemperature(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"text":"abc"}`))
	}))
	defer srv.Close()

	p, _ := NewProvider(Config{URL: srv.URL, Model: "tiny"})
	_, err := p.Execute(context.Background(), transcription.Request{
		Audio:   transcription.NewAudio([]byte("x"), "audio/webm"),
		Options: transcription.Options{OutputLanguage: "auto", Temperature: "not-a-number"},
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"language", "temperature", "prompt"} {
		if _, ok := got[key]; ok {
			t.Errorf("expected %s to be omitted, got %v", key, got)
		}
	}
	if got["model"] != "tiny" {
		t.Errorf("expected configured model, got %v", got["model"])
	}
}

func TestExecute_EmbeddedError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"message":"model not loaded"}}`))
	}))
	defer srv.Close()

	p, _ := NewProvider(Config{URL: srv.URL})
	_, err := p.Execute(context.Background(), transcription.Request{Audio: transcription.NewAudio([]byte("x"), "audio/webm")})
	if !apperrors.IsCode(err, apperrors.ErrCodeProviderReported) {
		t.Fatalf("expected PROVIDER_REPORTED_ERROR, got %v", err)
	}
}

func TestIsAvailable(t *testing.T) {
	healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(404)
			return
		}
		w.Write([]byte("OK"))
	}))
	defer healthy.Close()

	p, _ := NewProvider(Config{URL: healthy.URL})
	if !p.IsAvailable(context.Background()) {
		t.Error("expected healthy server to be available")
	}

	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(503)
	}))
	defer down.Close()
	p2, _ := NewProvider(Config{URL: down.URL})
	if p2.IsAvailable(context.Background()) {
		t.Error("expected 503 to be unavailable")
	}
}

func TestDefaults(t *testing.T) {
	p, err := NewProvider(Config{})
	if err != nil {
		t.Fatal(err)
	}
	if p.cfg.URL != "http://localhost:8000" || p.cfg.Model != "Systran/faster-whisper-medium.en" {
		t.Errorf("unexpected defaults %+v", p.cfg)
	}
	if p.Name() != "faster-whisper-server" {
		t.Errorf("unexpected name %q", p.Name())
	}
}
