package transcription

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const bytesPerMB = 1024 * 1024

// Audio is an immutable recording handed to a provider.
type Audio struct {
	Data []byte
	// MIMEType may carry parameters, e.g. "audio/webm;codecs=opus".
	MIMEType string
	// FileName is informational; uploads are always named recording.<ext>.
	FileName string
}

// NewAudio wraps raw bytes. An empty mimeType is sniffed from the content.
func NewAudio(data []byte, mimeType string) Audio {
	if mimeType == "" {
		mimeType = mimetype.Detect(data).String()
	}
	return Audio{Data: data, MIMEType: mimeType}
}

// LoadAudio reads a recording from disk and sniffs its MIME type.
func LoadAudio(path string) (Audio, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Audio{}, fmt.Errorf("read audio file: %w", err)
	}
	a := NewAudio(data, "")
	a.FileName = filepath.Base(path)
	return a, nil
}

// Size returns the payload size in bytes.
func (a Audio) Size() int64 { return int64(len(a.Data)) }

// SizeMB returns the payload size in mebibytes.
func (a Audio) SizeMB() float64 { return float64(len(a.Data)) / bytesPerMB }

// MediaType returns the MIME type without parameters, falling back to
// content sniffing and then audio/webm.
func (a Audio) MediaType() string {
	if mt, _, err := mime.ParseMediaType(a.MIMEType); err == nil && mt != "" {
		return mt
	}
	if len(a.Data) > 0 {
		if detected := mimetype.Detect(a.Data); !detected.Is("application/octet-stream") {
			mt, _, _ := strings.Cut(detected.String(), ";")
			return mt
		}
	}
	return defaultAudioMIME
}

// Extension returns the file extension, without the dot, for the audio's
// MIME type: "audio/webm;codecs=opus" gives "webm".
func (a Audio) Extension() string {
	mt := a.MediaType()
	if m := mimetype.Lookup(mt); m != nil && m.Extension() != "" {
		return strings.TrimPrefix(m.Extension(), ".")
	}
	if _, sub, ok := strings.Cut(mt, "/"); ok && sub != "" {
		sub = strings.TrimPrefix(sub, "x-")
		if i := strings.IndexAny(sub, "+."); i > 0 {
			sub = sub[:i]
		}
		return sub
	}
	return defaultAudioExt
}

// UploadName returns the multipart file name sent to providers.
func (a Audio) UploadName() string {
	return recordingFileName + "." + a.Extension()
}
