package endpoint

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/whispering/cleanup"
	apperrors "github.com/kbukum/whispering/errors"
	"github.com/kbukum/whispering/result"
	"github.com/kbukum/whispering/server"
	"github.com/kbukum/whispering/transcription"
	"github.com/kbukum/whispering/validation"
)

// Cleaner runs the cleanup step on text.
type Cleaner interface {
	Cleanup(ctx context.Context, text, prompt string, temperature float64) result.Result[string, *apperrors.AppError]
}

// Transcriber is the service behind the API routes.
type Transcriber interface {
	Cleaner
	Transcribe(ctx context.Context, audio transcription.Audio, opts transcription.Options) result.Result[string, *apperrors.AppError]
	CleanupPrompt() string
	CleanupTemperature() float64
}

// CleanerFactory builds a Cleaner for a caller-supplied API key.
type CleanerFactory func(apiKey string) (Cleaner, error)

// TextResponse is the success body of /api/transcribe and /api/cleanup.
type TextResponse struct {
	Text string `json:"text"`
}

// transcribeForm holds the optional form fields sent with the audio file.
type transcribeForm struct {
	OutputLanguage     string `form:"output_language" validate:"max=8"`
	Prompt             string `form:"prompt"`
	Temperature        string `form:"temperature"`
	CleanupPrompt      string `form:"cleanup_prompt"`
	CleanupTemperature string `form:"cleanup_temperature"`
}

// Transcribe accepts a multipart upload with the recording in the "audio"
// field (or "file") and returns the transcript.
func Transcribe(svc Transcriber) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form transcribeForm
		if err := c.ShouldBind(&form); err != nil {
			server.RespondWithError(c, bodyError(err, "form"))
			return
		}
		if err := validation.Validate(form); err != nil {
			server.RespondWithError(c, err)
			return
		}

		audio, appErr := readAudio(c)
		if appErr != nil {
			server.RespondWithError(c, appErr)
			return
		}

		res := svc.Transcribe(c.Request.Context(), audio, transcription.Options{
			OutputLanguage:     form.OutputLanguage,
			Prompt:             form.Prompt,
			Temperature:        form.Temperature,
			CleanupPrompt:      form.CleanupPrompt,
			CleanupTemperature: form.CleanupTemperature,
		})
		if !res.IsOk() {
			server.RespondWithError(c, res.Err())
			return
		}
		server.RespondOK(c, TextResponse{Text: res.Value()})
	}
}

func readAudio(c *gin.Context) (transcription.Audio, *apperrors.AppError) {
	fh, err := c.FormFile("audio")
	if errors.Is(err, http.ErrMissingFile) {
		fh, err = c.FormFile("file")
	}
	if err != nil {
		return transcription.Audio{}, bodyError(err, "audio")
	}
	f, err := fh.Open()
	if err != nil {
		return transcription.Audio{}, apperrors.Internal(err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return transcription.Audio{}, bodyError(err, "audio")
	}
	audio := transcription.NewAudio(data, fh.Header.Get("Content-Type"))
	audio.FileName = fh.Filename
	return audio, nil
}

type cleanupRequest struct {
	Text        string   `json:"text" validate:"required"`
	Prompt      string   `json:"prompt"`
	Temperature *float64 `json:"temperature" validate:"omitempty,gte=0,lte=2"`
}

// Cleanup runs the cleanup step on posted text using the configured
// endpoint. An empty prompt falls back to the configured cleanup prompt.
func Cleanup(svc Transcriber) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cleanupRequest
		if !bindJSON(c, &req) {
			return
		}
		temperature := svc.CleanupTemperature()
		if req.Temperature != nil {
			temperature = *req.Temperature
		}
		res := svc.Cleanup(c.Request.Context(), req.Text, req.Prompt, temperature)
		if !res.IsOk() {
			server.RespondWithError(c, res.Err())
			return
		}
		server.RespondOK(c, TextResponse{Text: res.Value()})
	}
}

type gptRequest struct {
	Text   string `json:"text" validate:"required"`
	Prompt string `json:"prompt"`
	APIKey string `json:"apiKey" validate:"required"`
}

// GPTResponse is the success body of /api/gpt.
type GPTResponse struct {
	Content string `json:"content"`
}

// GPT is the cleanup proxy for clients that hold their own API key. The
// prompt falls back to the configured cleanup prompt, then to
// cleanup.DefaultSystemPrompt.
func GPT(newCleaner CleanerFactory, defaults Transcriber) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req gptRequest
		if !bindJSON(c, &req) {
			return
		}
		cleaner, err := newCleaner(req.APIKey)
		if err != nil {
			server.RespondWithError(c, apperrors.Internal(err).WithStage(apperrors.StageCleanup))
			return
		}
		prompt := cleanup.SystemPrompt(req.Prompt, defaults.CleanupPrompt())
		res := cleaner.Cleanup(c.Request.Context(), req.Text, prompt, defaults.CleanupTemperature())
		if !res.IsOk() {
			server.RespondWithError(c, res.Err())
			return
		}
		server.RespondOK(c, GPTResponse{Content: res.Value()})
	}
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		server.RespondWithError(c, bodyError(err, "body"))
		return false
	}
	if err := validation.Validate(dst); err != nil {
		server.RespondWithError(c, err)
		return false
	}
	return true
}

// bodyError maps a request read failure. Bodies cut off by the size limit
// become 413.
func bodyError(err error, field string) *apperrors.AppError {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperrors.New(apperrors.ErrCodePayloadTooLarge, "The upload is too large", http.StatusRequestEntityTooLarge).
			WithDetail("limit_bytes", tooLarge.Limit)
	}
	if errors.Is(err, http.ErrMissingFile) {
		return apperrors.InvalidInput(field, "An audio file is required.")
	}
	return apperrors.InvalidInput(field, err.Error())
}
