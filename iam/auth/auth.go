package auth

import (
	"net/http"
	"time"

	"github.com/Abraxas-365/craftable/errx"
)

// ============================================================================
// Session Types
// ============================================================================

// Identity es el snapshot del perfil de usuario reportado por GitHub.
// Se obtiene una sola vez al autenticar y viaja dentro del token de sesión.
type Identity struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
	HTMLURL   string `json:"html_url,omitempty"`
}

// Session representa una sesión autenticada. Nunca se persiste en el
// servidor: viaja hacia el cliente como un token firmado y opaco.
type Session struct {
	GitHubToken string    `json:"github_token"`
	Identity    Identity  `json:"identity"`
	IssuedAt    time.Time `json:"issued_at"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// IsExpired verifica si la sesión ha expirado
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// TokenResponse respuesta del intercambio de código por token
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Scope       string `json:"scope"`
}

// ============================================================================
// Error Registry - Errores específicos de Auth
// ============================================================================

var ErrRegistry = errx.NewRegistry("AUTH")

// Códigos de error del flujo OAuth
var (
	CodeProviderDenied      = ErrRegistry.Register("PROVIDER_DENIED", errx.TypeExternal, http.StatusBadRequest, "GitHub denegó la autorización")
	CodeStateMismatch       = ErrRegistry.Register("STATE_MISMATCH", errx.TypeValidation, http.StatusBadRequest, "Estado OAuth inválido")
	CodeMissingCode         = ErrRegistry.Register("MISSING_CODE", errx.TypeValidation, http.StatusBadRequest, "No se recibió código de autorización")
	CodeExchangeFailed      = ErrRegistry.Register("EXCHANGE_FAILED", errx.TypeExternal, http.StatusBadGateway, "Falló el intercambio de código por token")
	CodeIdentityFetchFailed = ErrRegistry.Register("IDENTITY_FETCH_FAILED", errx.TypeExternal, http.StatusBadGateway, "Falló la obtención del perfil de usuario")
)

// Códigos de error de tokens de sesión
var (
	CodeTokenGenerationFailed = ErrRegistry.Register("TOKEN_GENERATION_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Error al generar token de sesión")
	CodeInvalidSessionToken   = ErrRegistry.Register("INVALID_SESSION_TOKEN", errx.TypeAuthorization, http.StatusUnauthorized, "Token de sesión inválido")
	CodeSessionExpired        = ErrRegistry.Register("SESSION_EXPIRED", errx.TypeAuthorization, http.StatusUnauthorized, "Sesión expirada")
	CodeStaleProviderToken    = ErrRegistry.Register("STALE_PROVIDER_TOKEN", errx.TypeAuthorization, http.StatusUnauthorized, "Token de GitHub rechazado por el proveedor")
)

// Helper functions para crear errores
func ErrProviderDenied() *errx.Error {
	return ErrRegistry.New(CodeProviderDenied)
}

func ErrStateMismatch() *errx.Error {
	return ErrRegistry.New(CodeStateMismatch)
}

func ErrMissingCode() *errx.Error {
	return ErrRegistry.New(CodeMissingCode)
}

func ErrExchangeFailed() *errx.Error {
	return ErrRegistry.New(CodeExchangeFailed)
}

func ErrIdentityFetchFailed() *errx.Error {
	return ErrRegistry.New(CodeIdentityFetchFailed)
}

func ErrTokenGenerationFailed() *errx.Error {
	return ErrRegistry.New(CodeTokenGenerationFailed)
}

func ErrInvalidSessionToken() *errx.Error {
	return ErrRegistry.New(CodeInvalidSessionToken)
}

func ErrSessionExpired() *errx.Error {
	return ErrRegistry.New(CodeSessionExpired)
}

func ErrStaleProviderToken() *errx.Error {
	return ErrRegistry.New(CodeStaleProviderToken)
}
