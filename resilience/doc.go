// Package resilience provides retry with exponential backoff.
//
// Nothing in the transcription core retries on its own; callers that want
// retries opt in through httpclient.Config.Retry.
package resilience
