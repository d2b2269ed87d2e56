package httpclient

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

const defaultFileContentType = "application/octet-stream"

// MultipartBody builds a multipart/form-data upload such as the
// /audio/transcriptions form. Set it as Request.Body; the adapter writes the
// boundary Content-Type itself.
//
// Files are written before fields, and fields keep the order they were set
// in.
type MultipartBody struct {
	files  []filePart
	fields []fieldPart
}

type filePart struct {
	field, name, contentType string
	data                     []byte
}

type fieldPart struct {
	key, value string
}

// SetField sets a form field. Empty values are skipped so optional settings
// such as language or prompt are simply absent. Setting a key again replaces
// its value in place.
func (m *MultipartBody) SetField(key, value string) *MultipartBody {
	if value == "" {
		return m
	}
	for i := range m.fields {
		if m.fields[i].key == key {
			m.fields[i].value = value
			return m
		}
	}
	m.fields = append(m.fields, fieldPart{key: key, value: value})
	return m
}

// AddFile appends a file part. An empty contentType is sent as
// application/octet-stream.
func (m *MultipartBody) AddFile(field, fileName, contentType string, data []byte) *MultipartBody {
	if contentType == "" {
		contentType = defaultFileContentType
	}
	m.files = append(m.files, filePart{field: field, name: fileName, contentType: contentType, data: data})
	return m
}

// Field returns the value set for key.
func (m *MultipartBody) Field(key string) (string, bool) {
	for _, f := range m.fields {
		if f.key == key {
			return f.value, true
		}
	}
	return "", false
}

// encode renders the body and its Content-Type header value.
func (m *MultipartBody) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, f := range m.files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition",
			`form-data; name="`+quoteEscaper.Replace(f.field)+`"; filename="`+quoteEscaper.Replace(f.name)+`"`)
		h.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.data); err != nil {
			return nil, "", err
		}
	}
	for _, f := range m.fields {
		if err := w.WriteField(f.key, f.value); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)
