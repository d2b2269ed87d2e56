// Package cleanup rewrites a raw transcript through a chat completion
// endpoint.
//
// A call sends exactly two messages, the steering prompt as the system
// message and the transcript as the user message, and returns the trimmed
// content of the first choice:
//
//	c, err := cleanup.New(cleanup.Config{APIKey: key})
//	res := c.Cleanup(ctx, transcript, prompt, cleanup.ParseTemperature(setting))
//	if !res.IsOk() {
//		// res.Err().Stage == errors.StageCleanup
//	}
package cleanup
