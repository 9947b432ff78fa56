package auth

import (
	"time"

	"github.com/Abraxas-365/craftable/logx"
	"github.com/ShatadruDhar/tekshila/github"
	"github.com/gofiber/fiber/v2"
)

const stateCookieTTL = 10 * time.Minute

// AuthHandlers maneja las rutas de autenticación con Fiber
type AuthHandlers struct {
	oauthService OAuthService
	tokenService TokenService
	ghClient     github.Client
	config       Config
}

// NewAuthHandlers crea un nuevo handler de autenticación
func NewAuthHandlers(
	oauthService OAuthService,
	tokenService TokenService,
	ghClient github.Client,
	config Config,
) *AuthHandlers {
	return &AuthHandlers{
		oauthService: oauthService,
		tokenService: tokenService,
		ghClient:     ghClient,
		config:       config,
	}
}

// RegisterRoutes registra las rutas de autenticación en Fiber
func (ah *AuthHandlers) RegisterRoutes(app *fiber.App) {
	auth := app.Group("/auth")

	auth.Get("/login", ah.InitiateLogin)
	auth.Get("/callback", ah.HandleCallback)
	auth.Get("/user", ah.GetCurrentUser)
	auth.Post("/logout", ah.Logout)
}

// InitiateLogin inicia el flujo OAuth con GitHub
func (ah *AuthHandlers) InitiateLogin(c *fiber.Ctx) error {
	if ah.config.OAuth.ClientID == "" {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "GitHub Client ID not configured",
		})
	}

	// Generar estado OAuth y guardarlo en una cookie de corta vida
	state := GenerateState()

	c.Cookie(&fiber.Cookie{
		Name:     StateCookieName,
		Value:    state,
		MaxAge:   int(stateCookieTTL.Seconds()),
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
		Path:     "/",
	})

	return c.Redirect(ah.oauthService.GetAuthURL(state), fiber.StatusFound)
}

// HandleCallback maneja el callback OAuth de GitHub. Cualquier falla termina
// en un redirect a la página de login del frontend con un código de error.
func (ah *AuthHandlers) HandleCallback(c *fiber.Ctx) error {
	// GitHub reporta negación de acceso vía query param error
	if errorParam := c.Query("error"); errorParam != "" {
		return ah.redirectWithError(c, errorParam)
	}

	// Validar el estado ANTES de tocar el proveedor: un state inválido
	// no debe gastar el código de autorización
	returnedState := c.Query("state")
	storedState := c.Cookies(StateCookieName)
	ah.clearStateCookie(c)

	if !ValidateState(returnedState, storedState) {
		return ah.redirectWithError(c, "invalid_state")
	}

	code := c.Query("code")
	if code == "" {
		return ah.redirectWithError(c, "no_code")
	}

	// Intercambiar código por token
	tokenResp, err := ah.oauthService.ExchangeCode(c.Context(), code)
	if err != nil {
		logx.Error("OAuth code exchange failed: %v", err)
		return ah.redirectWithError(c, "auth_failed")
	}

	// Obtener el snapshot de identidad del usuario
	identity, err := ah.oauthService.GetUserInfo(c.Context(), tokenResp.AccessToken)
	if err != nil {
		logx.Error("OAuth identity fetch failed: %v", err)
		return ah.redirectWithError(c, "auth_failed")
	}

	// Emitir nuestro token de sesión firmado
	now := time.Now()
	session := Session{
		GitHubToken: tokenResp.AccessToken,
		Identity:    *identity,
		IssuedAt:    now,
		ExpiresAt:   now.Add(ah.config.JWT.SessionTTL),
	}

	sessionToken, err := ah.tokenService.IssueSession(session)
	if err != nil {
		logx.Error("Failed to issue session token: %v", err)
		return ah.redirectWithError(c, "auth_failed")
	}

	SetSessionCookie(c, sessionToken, ah.config.JWT.SessionTTL)

	return c.Redirect(ah.config.FrontendURL+"/?auth=success", fiber.StatusFound)
}

// GetCurrentUser obtiene la identidad del usuario autenticado. La identidad
// se refresca contra GitHub para detectar tokens de proveedor revocados.
func (ah *AuthHandlers) GetCurrentUser(c *fiber.Ctx) error {
	token := ExtractSessionToken(c)
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Not authenticated",
		})
	}

	session, err := ah.tokenService.VerifySession(token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid token",
		})
	}

	// Revalidar el token del proveedor: GitHub es la fuente de verdad
	user, err := ah.ghClient.GetAuthenticatedUser(c.Context(), session.GitHubToken)
	if err != nil {
		if github.IsUnauthorized(err) {
			return RejectStaleSession(c)
		}
		logx.Error("Failed to fetch authenticated user: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Failed to fetch user info",
		})
	}

	return c.JSON(fiber.Map{
		"user":  user,
		"token": session.GitHubToken,
	})
}

// Logout invalida la cookie de sesión del navegador
func (ah *AuthHandlers) Logout(c *fiber.Ctx) error {
	ClearSessionCookie(c)

	return c.JSON(fiber.Map{
		"success": true,
	})
}

func (ah *AuthHandlers) redirectWithError(c *fiber.Ctx, code string) error {
	return c.Redirect(ah.config.FrontendURL+"/login.html?error="+code, fiber.StatusFound)
}

func (ah *AuthHandlers) clearStateCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     StateCookieName,
		Value:    "",
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "Lax",
		Path:     "/",
	})
}
