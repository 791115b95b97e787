package httpclient

import "encoding/base64"

// DefaultAPIKeyHeader is the header used for API-key auth when the
// descriptor does not name one.
const DefaultAPIKeyHeader = "X-API-Key"

// AuthType identifies the authentication method.
type AuthType int

const (
	// AuthNone disables authentication.
	AuthNone AuthType = iota
	// AuthAPIKey sends the key in a configurable header.
	AuthAPIKey
	// AuthBearer sets Authorization: Bearer <token>.
	AuthBearer
	// AuthBasic sets Authorization: Basic <base64(user:pass)>.
	AuthBasic
	// AuthOAuth2 exchanges client credentials for a bearer token once, at
	// the time the descriptor is applied.
	AuthOAuth2
)

// String returns the auth type name.
func (t AuthType) String() string {
	switch t {
	case AuthNone:
		return "none"
	case AuthAPIKey:
		return "api_key"
	case AuthBearer:
		return "bearer"
	case AuthBasic:
		return "basic"
	case AuthOAuth2:
		return "oauth2"
	default:
		return "unknown"
	}
}

// AuthConfig is a tagged descriptor over the supported authentication
// methods. Exactly one variant is active, selected by Type.
type AuthConfig struct {
	// Type selects the variant.
	Type AuthType
	// HeaderName is the API-key header name (AuthAPIKey). Defaults to
	// DefaultAPIKeyHeader.
	HeaderName string
	// Key is the API key value (AuthAPIKey).
	Key string
	// Token is the bearer token (AuthBearer).
	Token string
	// Username and Password are the basic-auth credentials (AuthBasic).
	Username string
	Password string
	// ClientID, ClientSecret, TokenURL and Scope drive the one-shot
	// client-credentials exchange (AuthOAuth2). Scope is optional.
	ClientID     string
	ClientSecret string
	TokenURL     string
	Scope        string
}

// APIKeyAuth creates an API-key descriptor using the default header.
func APIKeyAuth(key string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, HeaderName: DefaultAPIKeyHeader}
}

// APIKeyAuthHeader creates an API-key descriptor with a custom header name.
func APIKeyAuthHeader(key, headerName string) *AuthConfig {
	return &AuthConfig{Type: AuthAPIKey, Key: key, HeaderName: headerName}
}

// BearerAuth creates a bearer-token descriptor.
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Type: AuthBearer, Token: token}
}

// BasicAuth creates a basic-auth descriptor.
func BasicAuth(username, password string) *AuthConfig {
	return &AuthConfig{Type: AuthBasic, Username: username, Password: password}
}

// OAuth2Auth creates a client-credentials descriptor. Scope may be empty.
func OAuth2Auth(clientID, clientSecret, tokenURL, scope string) *AuthConfig {
	return &AuthConfig{
		Type:         AuthOAuth2,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
		Scope:        scope,
	}
}

// apiKeyHeader returns the header name for an API-key descriptor.
func (a *AuthConfig) apiKeyHeader() string {
	if a.HeaderName != "" {
		return a.HeaderName
	}
	return DefaultAPIKeyHeader
}

func basicCredentials(username, password string) string {
	return base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
}
