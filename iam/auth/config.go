package auth

import (
	"net/http"
	"time"

	"github.com/Abraxas-365/craftable/errx"
)

// Config configuración completa del módulo de autenticación
type Config struct {
	JWT         JWTConfig   `json:"jwt" yaml:"jwt"`
	OAuth       OAuthConfig `json:"oauth" yaml:"oauth"`
	FrontendURL string      `json:"frontend_url" yaml:"frontend_url"`
}

// JWTConfig configuración para los tokens de sesión firmados
type JWTConfig struct {
	SecretKey  string        `json:"secret_key" yaml:"secret_key"`
	SessionTTL time.Duration `json:"session_ttl" yaml:"session_ttl"`
	Issuer     string        `json:"issuer" yaml:"issuer"`
}

// OAuthConfig configuración del proveedor OAuth
type OAuthConfig struct {
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	RedirectURL  string   `json:"redirect_url"`
	Scopes       []string `json:"scopes"`
}

// MaxSessionTTL es la vida máxima permitida para una sesión.
const MaxSessionTTL = 24 * time.Hour

// DefaultConfig retorna configuración por defecto
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			SessionTTL: MaxSessionTTL,
			Issuer:     "tekshila",
		},
		OAuth: OAuthConfig{
			Scopes: []string{"repo", "user:email"},
		},
		FrontendURL: "http://localhost:3000",
	}
}

// Validate valida la configuración
func (c *Config) Validate() error {
	if c.JWT.SecretKey == "" {
		return ErrMissingJWTSecret()
	}

	if len(c.JWT.SecretKey) < 32 {
		return ErrWeakJWTSecret()
	}

	if c.JWT.SessionTTL <= 0 || c.JWT.SessionTTL > MaxSessionTTL {
		return ErrInvalidSessionTTL().WithDetail("session_ttl", c.JWT.SessionTTL.String())
	}

	return c.OAuth.Validate()
}

// Validate valida la configuración OAuth
func (oc *OAuthConfig) Validate() error {
	// Solo validar si hay configuración (permite arrancar sin OAuth en tests)
	if oc.ClientID == "" && oc.ClientSecret == "" {
		return nil
	}

	if oc.ClientID == "" {
		return ErrMissingOAuthClientID()
	}

	if oc.ClientSecret == "" {
		return ErrMissingOAuthClientSecret()
	}

	if oc.RedirectURL == "" {
		return ErrMissingOAuthRedirectURL()
	}

	if len(oc.Scopes) == 0 {
		return ErrMissingOAuthScopes()
	}

	return nil
}

// IsEnabled verifica si el proveedor OAuth está habilitado
func (oc *OAuthConfig) IsEnabled() bool {
	return oc.ClientID != "" && oc.ClientSecret != ""
}

// Config error codes
var (
	CodeMissingJWTSecret         = ErrRegistry.Register("MISSING_JWT_SECRET", errx.TypeValidation, http.StatusBadRequest, "JWT secret key is required")
	CodeWeakJWTSecret            = ErrRegistry.Register("WEAK_JWT_SECRET", errx.TypeValidation, http.StatusBadRequest, "JWT secret key must be at least 32 characters")
	CodeInvalidSessionTTL        = ErrRegistry.Register("INVALID_SESSION_TTL", errx.TypeValidation, http.StatusBadRequest, "Session TTL must be positive and at most 24h")
	CodeMissingOAuthClientID     = ErrRegistry.Register("MISSING_OAUTH_CLIENT_ID", errx.TypeValidation, http.StatusBadRequest, "OAuth client ID is required")
	CodeMissingOAuthClientSecret = ErrRegistry.Register("MISSING_OAUTH_CLIENT_SECRET", errx.TypeValidation, http.StatusBadRequest, "OAuth client secret is required")
	CodeMissingOAuthRedirectURL  = ErrRegistry.Register("MISSING_OAUTH_REDIRECT_URL", errx.TypeValidation, http.StatusBadRequest, "OAuth redirect URL is required")
	CodeMissingOAuthScopes       = ErrRegistry.Register("MISSING_OAUTH_SCOPES", errx.TypeValidation, http.StatusBadRequest, "OAuth scopes are required")
)

// Helper functions para crear errores de configuración
func ErrMissingJWTSecret() *errx.Error {
	return ErrRegistry.New(CodeMissingJWTSecret)
}

func ErrWeakJWTSecret() *errx.Error {
	return ErrRegistry.New(CodeWeakJWTSecret)
}

func ErrInvalidSessionTTL() *errx.Error {
	return ErrRegistry.New(CodeInvalidSessionTTL)
}

func ErrMissingOAuthClientID() *errx.Error {
	return ErrRegistry.New(CodeMissingOAuthClientID)
}

func ErrMissingOAuthClientSecret() *errx.Error {
	return ErrRegistry.New(CodeMissingOAuthClientSecret)
}

func ErrMissingOAuthRedirectURL() *errx.Error {
	return ErrRegistry.New(CodeMissingOAuthRedirectURL)
}

func ErrMissingOAuthScopes() *errx.Error {
	return ErrRegistry.New(CodeMissingOAuthScopes)
}
