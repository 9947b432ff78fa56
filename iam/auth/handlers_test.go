package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ShatadruDhar/tekshila/github"
	"github.com/gofiber/fiber/v2"
)

type fakeOAuthService struct {
	exchangeCalls int
	exchangeErr   error
	identity      *Identity
	identityErr   error
}

func (f *fakeOAuthService) GetAuthURL(state string) string {
	return "https://github.com/login/oauth/authorize?state=" + state
}

func (f *fakeOAuthService) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	f.exchangeCalls++
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return &TokenResponse{AccessToken: "gho_exchanged", TokenType: "bearer"}, nil
}

func (f *fakeOAuthService) GetUserInfo(ctx context.Context, accessToken string) (*Identity, error) {
	if f.identityErr != nil {
		return nil, f.identityErr
	}
	if f.identity != nil {
		return f.identity, nil
	}
	return &Identity{ID: 42, Login: "octocat", Name: "The Octocat"}, nil
}

type fakeGitHubClient struct {
	user *github.User
	err  error
}

func (f *fakeGitHubClient) GetAuthenticatedUser(ctx context.Context, token string) (*github.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.user != nil {
		return f.user, nil
	}
	return &github.User{ID: 42, Login: "octocat"}, nil
}

func (f *fakeGitHubClient) ListRepositories(ctx context.Context, token string, opts github.ListRepositoriesOptions) ([]github.Repository, error) {
	return nil, nil
}

func (f *fakeGitHubClient) ListBranches(ctx context.Context, token, owner, repo string) ([]github.Branch, error) {
	return nil, nil
}

func (f *fakeGitHubClient) GetRef(ctx context.Context, token, owner, repo, branch string) (*github.Ref, error) {
	return nil, nil
}

func (f *fakeGitHubClient) CreateRef(ctx context.Context, token, owner, repo, branch, sha string) (*github.Ref, error) {
	return nil, nil
}

func (f *fakeGitHubClient) GetContents(ctx context.Context, token, owner, repo, path, ref string) (*github.FileContent, error) {
	return nil, nil
}

func (f *fakeGitHubClient) PutContents(ctx context.Context, token, owner, repo, path string, req github.PutContentsRequest) (*github.CommitResult, error) {
	return nil, nil
}

func (f *fakeGitHubClient) CreatePullRequest(ctx context.Context, token, owner, repo string, req github.NewPullRequest) (*github.PullRequest, error) {
	return nil, nil
}

func testAuthConfig() Config {
	cfg := DefaultConfig()
	cfg.JWT.SecretKey = testSecret
	cfg.OAuth = testOAuthConfig()
	return cfg
}

func newTestApp(oauth *fakeOAuthService, gh github.Client) (*fiber.App, TokenService) {
	cfg := testAuthConfig()
	tokenService := NewJWTService(cfg.JWT.SecretKey, cfg.JWT.SessionTTL, cfg.JWT.Issuer)

	app := fiber.New()
	handlers := NewAuthHandlers(oauth, tokenService, gh, cfg)
	handlers.RegisterRoutes(app)

	return app, tokenService
}

func cookieValue(resp *http.Response, name string) string {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

func TestInitiateLogin(t *testing.T) {
	app, _ := newTestApp(&fakeOAuthService{}, &fakeGitHubClient{})

	req := httptest.NewRequest("GET", "/auth/login", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	if resp.StatusCode != fiber.StatusFound {
		t.Fatalf("expected 302, got %d", resp.StatusCode)
	}

	location := resp.Header.Get("Location")
	if !strings.HasPrefix(location, "https://github.com/login/oauth/authorize") {
		t.Fatalf("expected redirect to provider, got %q", location)
	}

	state := cookieValue(resp, StateCookieName)
	if state == "" {
		t.Fatal("expected oauth_state cookie")
	}
	if !strings.Contains(location, "state="+state) {
		t.Fatalf("expected auth url to carry the state cookie value, got %q", location)
	}
}

func TestInitiateLoginWithoutClientID(t *testing.T) {
	cfg := testAuthConfig()
	cfg.OAuth.ClientID = ""
	tokenService := NewJWTService(cfg.JWT.SecretKey, cfg.JWT.SessionTTL, cfg.JWT.Issuer)

	app := fiber.New()
	NewAuthHandlers(&fakeOAuthService{}, tokenService, &fakeGitHubClient{}, cfg).RegisterRoutes(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/auth/login", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", resp.StatusCode)
	}

	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	if body["error"] != "GitHub Client ID not configured" {
		t.Fatalf("unexpected error message %q", body["error"])
	}
}

func TestCallbackStateMismatch(t *testing.T) {
	oauth := &fakeOAuthService{}
	app, _ := newTestApp(oauth, &fakeGitHubClient{})

	req := httptest.NewRequest("GET", "/auth/callback?code=auth-code&state=returned", nil)
	req.AddCookie(&http.Cookie{Name: StateCookieName, Value: "stored"})

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	if resp.StatusCode != fiber.StatusFound {
		t.Fatalf("expected 302, got %d", resp.StatusCode)
	}
	if !strings.Contains(resp.Header.Get("Location"), "error=invalid_state") {
		t.Fatalf("expected invalid_state redirect, got %q", resp.Header.Get("Location"))
	}

	// Un state inválido no debe gastar el código de autorización
	if oauth.exchangeCalls != 0 {
		t.Fatalf("expected zero exchange calls, got %d", oauth.exchangeCalls)
	}
}

func TestCallbackMissingStateCookie(t *testing.T) {
	oauth := &fakeOAuthService{}
	app, _ := newTestApp(oauth, &fakeGitHubClient{})

	req := httptest.NewRequest("GET", "/auth/callback?code=auth-code&state=returned", nil)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if !strings.Contains(resp.Header.Get("Location"), "error=invalid_state") {
		t.Fatalf("expected invalid_state redirect, got %q", resp.Header.Get("Location"))
	}
	if oauth.exchangeCalls != 0 {
		t.Fatalf("expected zero exchange calls, got %d", oauth.exchangeCalls)
	}
}

func TestCallbackProviderDenied(t *testing.T) {
	app, _ := newTestApp(&fakeOAuthService{}, &fakeGitHubClient{})

	req := httptest.NewRequest("GET", "/auth/callback?error=access_denied", nil)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if !strings.Contains(resp.Header.Get("Location"), "error=access_denied") {
		t.Fatalf("expected access_denied redirect, got %q", resp.Header.Get("Location"))
	}
}

func TestCallbackMissingCode(t *testing.T) {
	app, _ := newTestApp(&fakeOAuthService{}, &fakeGitHubClient{})

	req := httptest.NewRequest("GET", "/auth/callback?state=stored", nil)
	req.AddCookie(&http.Cookie{Name: StateCookieName, Value: "stored"})

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if !strings.Contains(resp.Header.Get("Location"), "error=no_code") {
		t.Fatalf("expected no_code redirect, got %q", resp.Header.Get("Location"))
	}
}

func TestCallbackExchangeFailure(t *testing.T) {
	oauth := &fakeOAuthService{exchangeErr: ErrExchangeFailed()}
	app, _ := newTestApp(oauth, &fakeGitHubClient{})

	req := httptest.NewRequest("GET", "/auth/callback?code=auth-code&state=stored", nil)
	req.AddCookie(&http.Cookie{Name: StateCookieName, Value: "stored"})

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if !strings.Contains(resp.Header.Get("Location"), "error=auth_failed") {
		t.Fatalf("expected auth_failed redirect, got %q", resp.Header.Get("Location"))
	}
}

func TestCallbackSuccess(t *testing.T) {
	app, tokenService := newTestApp(&fakeOAuthService{}, &fakeGitHubClient{})

	req := httptest.NewRequest("GET", "/auth/callback?code=auth-code&state=stored", nil)
	req.AddCookie(&http.Cookie{Name: StateCookieName, Value: "stored"})

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	if resp.StatusCode != fiber.StatusFound {
		t.Fatalf("expected 302, got %d", resp.StatusCode)
	}
	if !strings.HasSuffix(resp.Header.Get("Location"), "/?auth=success") {
		t.Fatalf("expected success redirect, got %q", resp.Header.Get("Location"))
	}

	sessionToken := cookieValue(resp, SessionCookieName)
	if sessionToken == "" {
		t.Fatal("expected auth_token cookie")
	}

	session, err := tokenService.VerifySession(sessionToken)
	if err != nil {
		t.Fatalf("verify issued session: %v", err)
	}
	if session.GitHubToken != "gho_exchanged" {
		t.Fatalf("expected provider token in session, got %q", session.GitHubToken)
	}
	if session.Identity.Login != "octocat" {
		t.Fatalf("expected identity in session, got %q", session.Identity.Login)
	}
}

func TestGetCurrentUserWithoutToken(t *testing.T) {
	app, _ := newTestApp(&fakeOAuthService{}, &fakeGitHubClient{})

	resp, err := app.Test(httptest.NewRequest("GET", "/auth/user", nil))
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

func TestGetCurrentUserInvalidToken(t *testing.T) {
	app, _ := newTestApp(&fakeOAuthService{}, &fakeGitHubClient{})

	req := httptest.NewRequest("GET", "/auth/user", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "garbage"})

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	if body["error"] != "Invalid token" {
		t.Fatalf("unexpected error message %q", body["error"])
	}
}

func TestGetCurrentUserStaleProviderToken(t *testing.T) {
	gh := &fakeGitHubClient{err: github.ErrUnauthorized()}
	app, tokenService := newTestApp(&fakeOAuthService{}, gh)

	token, err := tokenService.IssueSession(testSession())
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}

	req := httptest.NewRequest("GET", "/auth/user", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	if body["error"] != "GitHub token expired" {
		t.Fatalf("unexpected error message %q", body["error"])
	}

	// La cookie de sesión debe quedar invalidada
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookieName && c.Value != "" && c.MaxAge > 0 {
			t.Fatal("expected session cookie to be cleared")
		}
	}
}

func TestGetCurrentUserSuccess(t *testing.T) {
	app, tokenService := newTestApp(&fakeOAuthService{}, &fakeGitHubClient{})

	token, err := tokenService.IssueSession(testSession())
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}

	req := httptest.NewRequest("GET", "/auth/user", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	raw, _ := io.ReadAll(resp.Body)
	var body struct {
		User  github.User `json:"user"`
		Token string      `json:"token"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.User.Login != "octocat" {
		t.Fatalf("expected login octocat, got %q", body.User.Login)
	}
	if body.Token != "gho_testtoken" {
		t.Fatalf("expected provider token in response, got %q", body.Token)
	}
}

func TestGetCurrentUserExpiredSession(t *testing.T) {
	app, _ := newTestApp(&fakeOAuthService{}, &fakeGitHubClient{})

	// Emitir con un servicio de TTL muy corto y esperar a que expire
	shortLived := NewJWTService(testSecret, time.Millisecond, "tekshila")
	session := testSession()
	session.ExpiresAt = time.Now().Add(time.Millisecond)
	token, err := shortLived.IssueSession(session)
	if err != nil {
		t.Fatalf("issue session: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	req := httptest.NewRequest("GET", "/auth/user", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestLogout(t *testing.T) {
	app, _ := newTestApp(&fakeOAuthService{}, &fakeGitHubClient{})

	resp, err := app.Test(httptest.NewRequest("POST", "/auth/logout", nil))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body map[string]bool
	json.NewDecoder(resp.Body).Decode(&body)
	if !body["success"] {
		t.Fatal("expected success true")
	}

	cleared := false
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookieName && c.Value == "" {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("expected session cookie to be cleared")
	}
}
