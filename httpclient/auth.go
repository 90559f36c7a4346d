package httpclient

import "net/http"

// AuthType identifies the authentication method.
type AuthType int

const (
	// AuthNone disables authentication.
	AuthNone AuthType = iota
	// AuthScheme sends "Authorization: <Scheme> <Token>".
	AuthScheme
	// AuthAPIKey sends the key in a named header.
	AuthAPIKey
)

// AuthConfig configures request authentication.
type AuthConfig struct {
	// Type is the authentication method.
	Type AuthType
	// Scheme is the Authorization scheme (AuthScheme), e.g. "Bearer" or "Token".
	Scheme string
	// Token is the credential (AuthScheme).
	Token string
	// Key is the API key value (AuthAPIKey).
	Key string
	// Header is the header carrying the API key (AuthAPIKey). Defaults to "X-API-Key".
	Header string
}

// BearerAuth creates a bearer token auth config.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthScheme, Scheme: "Bearer", Token: token}
}

// TokenAuth creates an "Authorization: Token <key>" auth config, the form
// Deepgram expects.
func TokenAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthScheme, Scheme: "Token", Token: token}
}

// APIKeyAuthHeader creates an API key auth config sent in the given header.
func APIKeyAuthHeader(key, header string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, Header: header}
}

// apply applies authentication to an HTTP request.
func (a *AuthConfig) apply(req *http.Request) {
	if a == nil {
		return
	}
	switch a.Type {
	case AuthScheme:
		scheme := a.Scheme
		if scheme == "" {
			scheme = "Bearer"
		}
		req.Header.Set("Authorization", scheme+" "+a.Token)
	case AuthAPIKey:
		header := a.Header
		if header == "" {
			header = "X-API-Key"
		}
		req.Header.Set(header, a.Key)
	}
}
