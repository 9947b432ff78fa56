package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
)

func newGuardedApp(t *testing.T) (*fiber.App, TokenService) {
	t.Helper()

	tokenService := NewJWTService(testSecret, 24*time.Hour, "tekshila")
	middleware := NewAuthMiddleware(tokenService)

	app := fiber.New()
	app.Get("/protected", middleware.Authenticate(), func(c *fiber.Ctx) error {
		session, ok := GetSession(c)
		if !ok {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "no session"})
		}
		return c.JSON(fiber.Map{"login": session.Identity.Login})
	})

	return app, tokenService
}

func TestAuthenticateWithoutCredentials(t *testing.T) {
	app, _ := newGuardedApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	if body["error"] != "Not authenticated" {
		t.Fatalf("unexpected error message %q", body["error"])
	}
}

func TestAuthenticateWithCookie(t *testing.T) {
	app, tokenService := newGuardedApp(t)

	token, err := tokenService.IssueSession(testSession())
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}

	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	if body["login"] != "octocat" {
		t.Fatalf("expected session in handler, got %q", body["login"])
	}
}

func TestAuthenticateWithBearerHeader(t *testing.T) {
	app, tokenService := newGuardedApp(t)

	token, err := tokenService.IssueSession(testSession())
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestAuthenticateHeaderTakesPriority(t *testing.T) {
	app, tokenService := newGuardedApp(t)

	token, err := tokenService.IssueSession(testSession())
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}

	// Header válido con cookie basura: el header gana
	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "garbage"})

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestAuthenticateInvalidToken(t *testing.T) {
	app, _ := newGuardedApp(t)

	req := httptest.NewRequest("GET", "/protected", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "not-a-jwt"})

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}
