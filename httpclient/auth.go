package httpclient

import "net/http"

// AuthType identifies how credentials are attached to a request.
type AuthType int

const (
	AuthNone AuthType = iota
	// AuthBearer sends "Authorization: Bearer <token>", as OpenAI and Groq expect.
	AuthBearer
	// AuthHeader sends the credential in a named header, e.g. for a
	// faster-whisper-server behind an authenticating proxy.
	AuthHeader
)

// AuthConfig configures request authentication.
type AuthConfig struct {
	Type   AuthType
	Token  string
	Header string
}

// BearerAuth creates a bearer token auth config. An empty token disables
// auth, so a missing key reaches the provider as an unauthenticated request
// instead of "Bearer ".
func BearerAuth(token string) *AuthConfig {
	if token == "" {
		return &AuthConfig{Type: AuthNone}
	}
	return &AuthConfig{Type: AuthBearer, Token: token}
}

// HeaderAuth sends value in the named header.
func HeaderAuth(header, value string) *AuthConfig {
	if header == "" || value == "" {
		return &AuthConfig{Type: AuthNone}
	}
	return &AuthConfig{Type: AuthHeader, Header: header, Token: value}
}

func (a *AuthConfig) apply(req *http.Request) {
	if a == nil {
		return
	}
	switch a.Type {
	case AuthBearer:
		req.Header.Set("Authorization", "Bearer "+a.Token)
	case AuthHeader:
		req.Header.Set(a.Header, a.Token)
	}
}
