package transcription

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	apperrors "github.com/kbukum/whispering/errors"
	"github.com/kbukum/whispering/httpclient"
)

// Envelope is a validated transcription response body: either a transcript
// or an error reported by the provider inside a 2xx response.
type Envelope struct {
	Text string
	// ErrorMessage is set when the body is {"error": {"message": ...}}.
	ErrorMessage string
	IsError      bool
}

// ParseResponse validates body against {text: string} | {error: {message:
// string}}. Branches are tried in that order, so a string "text" wins over
// an "error" key.
func ParseResponse(body []byte) (Envelope, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return Envelope{}, httpclient.NewShapeError("body: expected a JSON object")
	}

	if text, ok := stringField(raw, "text"); ok {
		return Envelope{Text: text}, nil
	}

	if errField, ok := raw["error"]; ok && string(errField) != "null" {
		var errObj map[string]json.RawMessage
		if err := json.Unmarshal(errField, &errObj); err != nil || errObj == nil {
			return Envelope{}, httpclient.NewShapeError("error: expected an object")
		}
		msg, ok := stringField(errObj, "message")
		if !ok {
			return Envelope{}, httpclient.NewShapeError("error.message: expected string")
		}
		return Envelope{ErrorMessage: msg, IsError: true}, nil
	}

	return Envelope{}, httpclient.NewShapeError(`text: expected string`, `error: expected {"message": string}`)
}

// ResponseSchema is ParseResponse as an httpclient schema.
var ResponseSchema httpclient.Schema[Envelope] = httpclient.SchemaFunc[Envelope](ParseResponse)

func stringField(obj map[string]json.RawMessage, key string) (string, bool) {
	v, ok := obj[key]
	if !ok || string(v) == "null" {
		return "", false
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return "", false
	}
	return s, true
}

// Result converts an envelope into a Response, mapping the embedded error
// branch to PROVIDER_REPORTED_ERROR.
func (e Envelope) Result(service string) (Response, error) {
	if e.IsError {
		return Response{}, apperrors.ProviderReported(service, e.ErrorMessage).
			WithStage(apperrors.StageTranscription)
	}
	return Response{Text: e.Text}, nil
}

// FromHTTPError maps an httpclient failure into a transcription-stage
// canonical error.
func FromHTTPError(service string, err error) *apperrors.AppError {
	appErr := httpclient.ToAppError(service, err)
	if appErr == nil {
		return nil
	}
	if appErr.Stage == "" {
		appErr.Stage = apperrors.StageTranscription
	}
	return appErr
}

// ParseTemperature parses a temperature setting. ok is false when s is
// blank or not a finite number, in which case the field is left off the wire.
func ParseTemperature(s string) (t float64, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
