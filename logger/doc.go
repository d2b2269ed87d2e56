// Package logger provides structured logging using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields.
//
//	logging:
//	  level: "info"
//	  format: "json"
//
//	log := logger.Get("transcriber")
//	log.WithContext(ctx).Info("transcription finished", logger.Fields("provider", "Groq"))
package logger
