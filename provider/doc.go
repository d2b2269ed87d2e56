// Package provider defines the backend abstraction shared by transcription
// services and the cleanup LLM.
//
// A backend is a RequestResponse[I, O]: one request in, one result out.
// Cross-cutting behavior is layered with Middleware:
//
//	backend = provider.Chain(
//		provider.WithLogging[Request, Response](log),
//		provider.WithTracing[Request, Response]("transcriber"),
//		provider.WithMetrics[Request, Response](metrics, "transcription"),
//	)(backend)
//
// Middlewares understand canonical errors (package errors) and report their
// code and stage.
package provider
