package auth

import "context"

// OAuthService define el contrato del flujo OAuth contra el proveedor
type OAuthService interface {
	GetAuthURL(state string) string
	ExchangeCode(ctx context.Context, code string) (*TokenResponse, error)
	GetUserInfo(ctx context.Context, accessToken string) (*Identity, error)
}

// TokenService define el contrato para emitir y verificar tokens de sesión
type TokenService interface {
	IssueSession(session Session) (string, error)
	VerifySession(token string) (*Session, error)
}
