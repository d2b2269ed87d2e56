package transcriber

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kbukum/whispering/cleanup"
	apperrors "github.com/kbukum/whispering/errors"
	"github.com/kbukum/whispering/httpclient"
	"github.com/kbukum/whispering/logger"
	"github.com/kbukum/whispering/observability"
	"github.com/kbukum/whispering/provider"
	"github.com/kbukum/whispering/resilience"
	"github.com/kbukum/whispering/result"
	"github.com/kbukum/whispering/settings"
	"github.com/kbukum/whispering/transcription"
	"github.com/kbukum/whispering/transcription/openai"
	"github.com/kbukum/whispering/transcription/whisper"
)

const (
	component     = "transcriber"
	healthTimeout = 3 * time.Second
)

// Service runs transcriptions against the provider selected in the current
// settings snapshot. It keeps no per-call state, so concurrent calls are
// independent.
type Service struct {
	settings  settings.Source
	log       *logger.Logger
	metrics   *observability.Metrics
	httpOpts  []httpclient.Option
	endpoints map[transcription.ProviderID]string
	timeout   time.Duration
	retry     *resilience.RetryConfig
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithMetrics records provider calls and audio sizes on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithHTTPOptions passes options to every HTTP client the service creates.
func WithHTTPOptions(opts ...httpclient.Option) Option {
	return func(s *Service) { s.httpOpts = append(s.httpOpts, opts...) }
}

// WithEndpoint overrides the base URL of a hosted provider, e.g. to route
// through a proxy. faster-whisper-server takes its URL from the settings.
func WithEndpoint(p transcription.ProviderID, baseURL string) Option {
	return func(s *Service) { s.endpoints[p] = baseURL }
}

// WithTimeout sets the per-request timeout for transcription uploads.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithRetry retries provider calls that fail with a retryable error. Calls
// are not retried unless this option is given.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(s *Service) { s.retry = &cfg }
}

// New creates a Service reading settings from src on every call.
func New(src settings.Source, opts ...Option) *Service {
	s := &Service{
		settings:  src,
		log:       logger.Get(component),
		endpoints: make(map[transcription.ProviderID]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Transcribe converts audio to text with the configured provider and runs
// the cleanup step when a cleanup prompt is set in opts or the settings.
//
// A cleanup failure after a successful transcription is reported as
// CLEANUP_FAILED carrying the raw transcript (see RawTranscript). A
// cancellation at any point is reported as CANCELLED.
func (s *Service) Transcribe(ctx context.Context, audio transcription.Audio, opts transcription.Options) result.Result[string, *apperrors.AppError] {
	snap := s.settings.Snapshot()
	ctx = logger.ContextWithCallID(ctx, uuid.NewString())
	log := s.log.WithContext(ctx)

	start := time.Now()
	fields := logger.Fields(
		logger.FieldProvider, string(snap.Provider),
		logger.FieldSizeBytes, audio.Size(),
	)
	log.Debug("transcription started", fields)

	res := s.transcribe(ctx, snap, audio, opts)

	fields[logger.FieldDuration] = time.Since(start).Milliseconds()
	if res.IsOk() {
		log.Info("transcription finished", fields)
	} else {
		log.WithError(res.Err()).Warn("transcription failed", fields)
	}
	return res
}

func (s *Service) transcribe(ctx context.Context, snap settings.Snapshot, audio transcription.Audio, opts transcription.Options) result.Result[string, *apperrors.AppError] {
	spec, ok := transcription.SpecFor(snap.Provider)
	if !ok {
		return result.Fail[string](transcription.UnknownProvider(snap.Provider))
	}
	if appErr := spec.Check(snap.APIKey(spec.ID), audio); appErr != nil {
		return result.Fail[string](appErr)
	}
	if audio.Size() == 0 {
		return result.Fail[string](apperrors.InvalidInput("audio", "The recording is empty.").
			WithStage(apperrors.StageTranscription))
	}

	opts = withDefaults(opts, snap)

	var cleaner *cleanup.Cleaner
	if opts.CleanupPrompt != "" {
		if appErr := snap.Cleanup.CheckCredential(); appErr != nil {
			return result.Fail[string](appErr)
		}
		c, err := cleanup.New(snap.Cleanup,
			cleanup.WithLogger(s.log),
			cleanup.WithMetrics(s.metrics),
			cleanup.WithHTTPOptions(s.httpOpts...),
		)
		if err != nil {
			return result.Fail[string](apperrors.Internal(err).WithStage(apperrors.StageCleanup))
		}
		cleaner = c
	}

	backend, closer, appErr := s.backend(spec.ID, snap)
	if appErr != nil {
		return result.Fail[string](appErr)
	}
	defer closer.Close(context.WithoutCancel(ctx))

	if s.metrics != nil {
		s.metrics.RecordAudioSize(ctx, string(spec.ID), audio.Size())
	}

	resp, err := backend.Execute(ctx, transcription.Request{Audio: audio, Options: opts})
	if err != nil {
		return result.Fail[string](transcription.FromHTTPError(string(spec.ID), err))
	}
	text := strings.TrimSpace(resp.Text)
	if cleaner == nil {
		return result.Ok[string, *apperrors.AppError](text)
	}

	cleaned := cleaner.Cleanup(ctx, text, opts.CleanupPrompt, cleanup.ParseTemperature(opts.CleanupTemperature))
	if cleaned.IsOk() {
		return cleaned
	}
	if cleaned.Err().Code == apperrors.ErrCodeCancelled {
		return result.Fail[string](cleaned.Err().WithStage(apperrors.StageCleanup))
	}
	return result.Fail[string](apperrors.CleanupFailed(cleaned.Err(), text))
}

// backend builds the provider's backend wrapped in logging, tracing and
// metrics middleware.
func (s *Service) backend(id transcription.ProviderID, snap settings.Snapshot) (transcription.Backend, provider.Closeable, *apperrors.AppError) {
	var (
		inner  transcription.Backend
		closer provider.Closeable
	)
	switch id {
	case transcription.OpenAI, transcription.Groq:
		b, err := openai.New(openai.Config{
			Provider: id,
			APIKey:   snap.APIKey(id),
			BaseURL:  s.endpoints[id],
			Timeout:  s.timeout,
		}, s.httpOpts...)
		if err != nil {
			return nil, nil, apperrors.Internal(err).WithStage(apperrors.StageTranscription)
		}
		inner, closer = b, b
	case transcription.FasterWhisperServer:
		p, err := whisper.NewProvider(whisper.Config{
			URL:     snap.FasterWhisperURL,
			Model:   snap.FasterWhisperModel,
			Timeout: s.timeout,
		}, s.httpOpts...)
		if err != nil {
			return nil, nil, apperrors.Internal(err).WithStage(apperrors.StageTranscription)
		}
		inner, closer = p, p
	default:
		return nil, nil, transcription.UnknownProvider(id)
	}

	var retry provider.Middleware[transcription.Request, transcription.Response]
	if s.retry != nil {
		retry = provider.WithRetry[transcription.Request, transcription.Response](*s.retry)
	}
	wrapped := provider.Chain(
		provider.WithLogging[transcription.Request, transcription.Response](s.log),
		provider.WithTracing[transcription.Request, transcription.Response](observability.SpanTranscribe),
		provider.WithMetrics[transcription.Request, transcription.Response](s.metrics, component),
		retry,
	)(inner)
	return wrapped, closer, nil
}

// withDefaults fills empty options from the snapshot.
func withDefaults(opts transcription.Options, snap settings.Snapshot) transcription.Options {
	if opts.OutputLanguage == "" {
		opts.OutputLanguage = snap.OutputLanguage
	}
	if opts.Prompt == "" {
		opts.Prompt = snap.Prompt
	}
	if opts.Temperature == "" {
		opts.Temperature = snap.Temperature
	}
	if opts.CleanupPrompt == "" {
		opts.CleanupPrompt = snap.CleanupPrompt
	}
	if opts.CleanupTemperature == "" {
		opts.CleanupTemperature = snap.CleanupTemperature
	}
	return opts
}

// Cleanup runs only the cleanup step with the snapshot's endpoint
// settings. An empty prompt falls back to the configured cleanup prompt,
// then to cleanup.DefaultSystemPrompt.
func (s *Service) Cleanup(ctx context.Context, text, prompt string, temperature float64) result.Result[string, *apperrors.AppError] {
	snap := s.settings.Snapshot()
	prompt = cleanup.SystemPrompt(prompt, snap.CleanupPrompt)
	c, err := cleanup.New(snap.Cleanup,
		cleanup.WithLogger(s.log),
		cleanup.WithMetrics(s.metrics),
		cleanup.WithHTTPOptions(s.httpOpts...),
	)
	if err != nil {
		return result.Fail[string](apperrors.Internal(err).WithStage(apperrors.StageCleanup))
	}
	return c.Cleanup(logger.ContextWithCallID(ctx, uuid.NewString()), strings.TrimSpace(text), prompt, temperature)
}

// CleanupPrompt returns the configured cleanup prompt, possibly empty.
func (s *Service) CleanupPrompt() string {
	return s.settings.Snapshot().CleanupPrompt
}

// CleanupTemperature returns the configured cleanup temperature.
func (s *Service) CleanupTemperature() float64 {
	return cleanup.ParseTemperature(s.settings.Snapshot().CleanupTemperature)
}

// RawTranscript returns the transcript preserved in a CLEANUP_FAILED error.
func RawTranscript(err error) (string, bool) {
	if !apperrors.IsCode(err, apperrors.ErrCodeCleanupFailed) {
		return "", false
	}
	appErr, _ := apperrors.AsAppError(err)
	text, ok := appErr.Details["transcript"].(string)
	return text, ok
}

// Health probes the configured provider. Hosted providers report up when a
// key is configured; faster-whisper-server is asked for GET /health.
func (s *Service) Health(ctx context.Context) observability.Health {
	snap := s.settings.Snapshot()
	name := string(snap.Provider)

	if _, ok := transcription.SpecFor(snap.Provider); !ok {
		return observability.Health{Name: name, Status: observability.HealthStatusDown, Message: "unknown provider"}
	}
	backend, closer, appErr := s.backend(snap.Provider, snap)
	if appErr != nil {
		return observability.Health{Name: name, Status: observability.HealthStatusDown, Message: appErr.Error()}
	}
	defer closer.Close(context.WithoutCancel(ctx))
	return observability.Probe(ctx, name, healthTimeout, backend.IsAvailable)
}
