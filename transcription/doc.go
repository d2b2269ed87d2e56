// Package transcription defines the supported speech-to-text providers and
// the request, response and error types shared by their backends.
//
// The provider set is closed: OpenAI, Groq and a self-hosted
// faster-whisper-server. SpecFor describes each one and Spec.Check runs the
// credential and size preconditions that must pass before any upload.
//
// # Backends
//
//   - transcription/openai: multipart uploads to OpenAI-compatible hosted APIs (OpenAI, Groq)
//   - transcription/whisper: JSON uploads to faster-whisper-server
//
// Every backend validates the response body with ParseResponse, which
// distinguishes a transcript from an error the provider reported inside a
// successful HTTP response.
package transcription
