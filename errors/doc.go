// Package errors provides the canonical error shape used across the
// transcription core. Every lower-level failure is mapped into an AppError
// carrying a machine-readable code, a title and description for the user,
// an optional remediation action and the failing stage.
package errors
