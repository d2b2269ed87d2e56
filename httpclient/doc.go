// Package httpclient provides the HTTP client used to talk to transcription
// and chat-completion services.
//
// Every failure is classified into an *Error whose Kind is one of network,
// http_status, response_shape or cancelled. Typed helpers validate 2xx
// bodies against a Schema so shape mismatches never escape as zero values.
//
//	a, _ := httpclient.New(httpclient.Config{
//	    Name:    "OpenAI",
//	    BaseURL: "https://api.openai.com/v1",
//	    Auth:    httpclient.BearerAuth(key),
//	})
//
//	body := (&httpclient.MultipartBody{}).SetField("model", "whisper-1").
//	    AddFile("file", "recording.webm", "audio/webm", data)
//	resp, err := httpclient.Post(a, ctx, "/audio/transcriptions", body, schema)
package httpclient
