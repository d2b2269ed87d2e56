// Package server is the HTTP front end for the transcription service.
//
// Server wraps a Gin engine in the middleware stack from server/middleware.
// Routes from server/endpoint expose:
//
//	GET  /health           provider and service health
//	GET  /alive            liveness probe
//	GET  /version          build information
//	POST /api/transcribe   multipart audio upload, returns {"text": ...}
//	POST /api/cleanup      {"text", "prompt", "temperature"}, returns {"text": ...}
//	POST /api/gpt          {"text", "prompt", "apiKey"}, returns {"content": ...}
//
// Failures are rendered as {"error": {...}} with the status taken from the
// canonical error.
package server
