package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func testOAuthConfig() OAuthConfig {
	return OAuthConfig{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:8080/auth/callback",
		Scopes:       []string{"repo", "user:email"},
	}
}

func TestGetAuthURL(t *testing.T) {
	svc := NewGitHubOAuthService(testOAuthConfig())

	authURL := svc.GetAuthURL("state-token")

	parsed, err := url.Parse(authURL)
	if err != nil {
		t.Fatalf("parse auth url: %v", err)
	}
	if !strings.HasPrefix(authURL, GitHubAuthURL) {
		t.Fatalf("expected auth url to start with %s, got %s", GitHubAuthURL, authURL)
	}

	query := parsed.Query()
	if got := query.Get("client_id"); got != "client-id" {
		t.Fatalf("expected client_id client-id, got %q", got)
	}
	if got := query.Get("state"); got != "state-token" {
		t.Fatalf("expected state state-token, got %q", got)
	}
	if got := query.Get("scope"); got != "repo user:email" {
		t.Fatalf("expected scope %q, got %q", "repo user:email", got)
	}
	if got := query.Get("redirect_uri"); got != "http://localhost:8080/auth/callback" {
		t.Fatalf("unexpected redirect_uri %q", got)
	}
}

func TestExchangeCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if got := r.FormValue("code"); got != "auth-code" {
			t.Errorf("expected code auth-code, got %q", got)
		}
		if got := r.FormValue("client_secret"); got != "client-secret" {
			t.Errorf("expected client secret in form, got %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"access_token": "gho_exchanged",
			"token_type":   "bearer",
			"scope":        "repo,user:email",
		})
	}))
	defer server.Close()

	svc := NewGitHubOAuthService(testOAuthConfig())
	svc.tokenURL = server.URL

	resp, err := svc.ExchangeCode(context.Background(), "auth-code")
	if err != nil {
		t.Fatalf("exchange code: %v", err)
	}
	if resp.AccessToken != "gho_exchanged" {
		t.Fatalf("expected access token gho_exchanged, got %q", resp.AccessToken)
	}
}

func TestExchangeCodeProviderError(t *testing.T) {
	// GitHub responde 200 con un campo error para códigos inválidos
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"error":             "bad_verification_code",
			"error_description": "The code passed is incorrect or expired.",
		})
	}))
	defer server.Close()

	svc := NewGitHubOAuthService(testOAuthConfig())
	svc.tokenURL = server.URL

	if _, err := svc.ExchangeCode(context.Background(), "stale-code"); err == nil {
		t.Fatal("expected error for rejected code")
	}
}

func TestExchangeCodeEmptyToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer server.Close()

	svc := NewGitHubOAuthService(testOAuthConfig())
	svc.tokenURL = server.URL

	if _, err := svc.ExchangeCode(context.Background(), "auth-code"); err == nil {
		t.Fatal("expected error for empty access token")
	}
}

func TestGetUserInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer gho_token" {
			t.Errorf("expected bearer token, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":    42,
			"login": "octocat",
			"name":  "The Octocat",
		})
	}))
	defer server.Close()

	svc := NewGitHubOAuthService(testOAuthConfig())
	svc.userURL = server.URL

	identity, err := svc.GetUserInfo(context.Background(), "gho_token")
	if err != nil {
		t.Fatalf("get user info: %v", err)
	}
	if identity.Login != "octocat" {
		t.Fatalf("expected login octocat, got %q", identity.Login)
	}
	if identity.ID != 42 {
		t.Fatalf("expected id 42, got %d", identity.ID)
	}
}

func TestGetUserInfoUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	svc := NewGitHubOAuthService(testOAuthConfig())
	svc.userURL = server.URL

	if _, err := svc.GetUserInfo(context.Background(), "revoked"); err == nil {
		t.Fatal("expected error for revoked token")
	}
}
