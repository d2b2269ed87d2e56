// Package transcriber orchestrates a transcription call: it reads the
// settings snapshot, validates credentials and payload size before any
// network I/O, uploads the audio to the selected provider, and optionally
// rewrites the result through the cleanup step.
//
//	svc := transcriber.New(settingsSource)
//	res := svc.Transcribe(ctx, transcription.NewAudio(data, "audio/webm"), transcription.Options{})
//	if !res.IsOk() {
//		if raw, ok := transcriber.RawTranscript(res.Err()); ok {
//			// cleanup failed but the transcript is still usable
//		}
//	}
package transcriber
