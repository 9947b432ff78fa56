package auth

import (
	"strings"
	"time"

	"github.com/ShatadruDhar/tekshila/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

const (
	// SessionCookieName cookie que transporta el token de sesión firmado
	SessionCookieName = "auth_token"
	// StateCookieName cookie de un solo uso para el parámetro state de OAuth
	StateCookieName = "oauth_state"
)

// AuthMiddleware middleware para autenticación de sesión con Fiber
type AuthMiddleware struct {
	tokenService TokenService
}

// NewAuthMiddleware crea un nuevo middleware de autenticación
func NewAuthMiddleware(tokenService TokenService) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
	}
}

// Authenticate middleware que valida el token de sesión antes de cada handler
func (am *AuthMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := ExtractSessionToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Not authenticated",
			})
		}

		// Validar firma y vigencia; un token expirado o alterado nunca pasa
		session, err := am.tokenService.VerifySession(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Not authenticated",
			})
		}

		// Agregar la sesión al contexto de Fiber
		c.Locals(string(kernel.SessionContextKey), session)

		return c.Next()
	}
}

// ExtractSessionToken extrae el token del header Authorization o de la cookie.
// El header "Bearer <token>" tiene prioridad sobre la cookie de sesión.
func ExtractSessionToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" && parts[1] != "" {
			return parts[1]
		}
	}

	return c.Cookies(SessionCookieName)
}

// GetSession helper para extraer la sesión autenticada de Fiber
func GetSession(c *fiber.Ctx) (*Session, bool) {
	session, ok := c.Locals(string(kernel.SessionContextKey)).(*Session)
	return session, ok && session != nil
}

// RejectStaleSession limpia la cookie de sesión y responde 401. Se usa cuando
// GitHub rechaza el token del proveedor aunque nuestra firma siga vigente.
func RejectStaleSession(c *fiber.Ctx) error {
	ClearSessionCookie(c)
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": "GitHub token expired",
	})
}

// SetSessionCookie escribe la cookie de sesión con los atributos de seguridad
func SetSessionCookie(c *fiber.Ctx, token string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		MaxAge:   int(ttl.Seconds()),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
		Path:     "/",
	})
}

// ClearSessionCookie invalida la cookie de sesión en el navegador
func ClearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
		Path:     "/",
	})
}
