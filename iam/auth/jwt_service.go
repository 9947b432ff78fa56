package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// JWTService implementación del TokenService usando JWT firmado con HMAC.
// La verificación de firma dentro de la librería usa comparación de tiempo
// constante, por lo que no hay canal lateral en el chequeo de integridad.
type JWTService struct {
	secretKey  []byte
	sessionTTL time.Duration
	issuer     string
}

// NewJWTService crea una nueva instancia del servicio JWT
func NewJWTService(secretKey string, sessionTTL time.Duration, issuer string) *JWTService {
	if sessionTTL <= 0 || sessionTTL > MaxSessionTTL {
		sessionTTL = MaxSessionTTL
	}
	if issuer == "" {
		issuer = "tekshila"
	}

	return &JWTService{
		secretKey:  []byte(secretKey),
		sessionTTL: sessionTTL,
		issuer:     issuer,
	}
}

// SessionClaims claims personalizados del token de sesión
type SessionClaims struct {
	GitHubToken string   `json:"github_token"`
	Identity    Identity `json:"identity"`
	jwt.RegisteredClaims
}

// IssueSession firma una sesión y retorna el token opaco. La expiración
// del token nunca excede MaxSessionTTL desde el momento de emisión.
func (j *JWTService) IssueSession(session Session) (string, error) {
	if session.GitHubToken == "" {
		return "", ErrTokenGenerationFailed().WithDetail("reason", "empty provider token")
	}

	now := time.Now()
	expiresAt := session.ExpiresAt
	if expiresAt.IsZero() || expiresAt.After(now.Add(j.sessionTTL)) {
		expiresAt = now.Add(j.sessionTTL)
	}

	claims := SessionClaims{
		GitHubToken: session.GitHubToken,
		Identity:    session.Identity,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    j.issuer,
			Subject:   session.Identity.Login,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", ErrTokenGenerationFailed().WithDetail("error", err.Error())
	}

	return tokenString, nil
}

// VerifySession valida y decodifica un token de sesión. Retorna siempre un
// error tipado: encoding malformado, firma inválida, claims incompletos o
// expiración vencida. Nunca incluye el token crudo en el error.
func (j *JWTService) VerifySession(tokenString string) (*Session, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (any, error) {
		// Verificar el método de firma
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrSessionExpired()
		}
		return nil, ErrInvalidSessionToken()
	}

	if !token.Valid {
		return nil, ErrInvalidSessionToken()
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok {
		return nil, ErrInvalidSessionToken()
	}

	if claims.GitHubToken == "" || claims.Identity.Login == "" {
		return nil, ErrInvalidSessionToken().WithDetail("reason", "missing required claims")
	}

	if claims.ExpiresAt == nil {
		return nil, ErrInvalidSessionToken().WithDetail("reason", "missing expiry claim")
	}

	session := &Session{
		GitHubToken: claims.GitHubToken,
		Identity:    claims.Identity,
		ExpiresAt:   claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		session.IssuedAt = claims.IssuedAt.Time
	}

	return session, nil
}
