package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Abraxas-365/craftable/errx"
	"github.com/ShatadruDhar/tekshila/iam"
)

const (
	GitHubAuthURL  = "https://github.com/login/oauth/authorize"
	GitHubTokenURL = "https://github.com/login/oauth/access_token"
	GitHubUserURL  = "https://api.github.com/user"

	githubUserAgent = "Tekshila-App"
)

// GitHubOAuthService implementación del servicio OAuth para GitHub
type GitHubOAuthService struct {
	config     OAuthConfig
	httpClient *http.Client

	// endpoints sobreescribibles en tests
	authURL  string
	tokenURL string
	userURL  string
}

// NewGitHubOAuthService crea una nueva instancia del servicio GitHub OAuth
func NewGitHubOAuthService(config OAuthConfig) *GitHubOAuthService {
	if len(config.Scopes) == 0 {
		config.Scopes = []string{"repo", "user:email"}
	}

	return &GitHubOAuthService{
		config:     config,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		authURL:    GitHubAuthURL,
		tokenURL:   GitHubTokenURL,
		userURL:    GitHubUserURL,
	}
}

// GetProvider retorna el proveedor OAuth
func (g *GitHubOAuthService) GetProvider() iam.OAuthProvider {
	return iam.OAuthProviderGitHub
}

// GetAuthURL genera la URL de autorización de GitHub
func (g *GitHubOAuthService) GetAuthURL(state string) string {
	params := url.Values{
		"client_id":    {g.config.ClientID},
		"redirect_uri": {g.config.RedirectURL},
		"scope":        {strings.Join(g.config.Scopes, " ")},
		"state":        {state},
		"allow_signup": {"true"},
	}

	return g.authURL + "?" + params.Encode()
}

// ExchangeCode intercambia el código de autorización por un access token.
// Un código es de un solo uso: GitHub rechaza el segundo intercambio y eso
// se reporta como EXCHANGE_FAILED igual que cualquier otro rechazo.
func (g *GitHubOAuthService) ExchangeCode(ctx context.Context, code string) (*TokenResponse, error) {
	data := url.Values{
		"client_id":     {g.config.ClientID},
		"client_secret": {g.config.ClientSecret},
		"code":          {code},
		"redirect_uri":  {g.config.RedirectURL},
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, errx.Wrap(err, "failed to create token request", errx.TypeInternal)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", githubUserAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, errx.Wrap(err, "failed to exchange code", errx.TypeExternal)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrExchangeFailed().
			WithDetail("status_code", resp.StatusCode)
	}

	var payload struct {
		TokenResponse
		Error     string `json:"error"`
		ErrorDesc string `json:"error_description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errx.Wrap(err, "failed to decode token response", errx.TypeExternal)
	}

	// GitHub responde 200 con un campo error para códigos inválidos o reusados
	if payload.Error != "" {
		return nil, ErrExchangeFailed().
			WithDetail("provider_error", payload.Error).
			WithDetail("provider_error_description", payload.ErrorDesc)
	}

	if payload.AccessToken == "" {
		return nil, ErrExchangeFailed().WithDetail("reason", "empty access token")
	}

	return &payload.TokenResponse, nil
}

// GetUserInfo obtiene el snapshot de identidad del usuario desde GitHub
func (g *GitHubOAuthService) GetUserInfo(ctx context.Context, accessToken string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", g.userURL, nil)
	if err != nil {
		return nil, errx.Wrap(err, "failed to create user info request", errx.TypeInternal)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", githubUserAgent)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, errx.Wrap(err, "failed to get user info", errx.TypeExternal)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrIdentityFetchFailed().
			WithDetail("status_code", resp.StatusCode)
	}

	var identity Identity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, errx.Wrap(err, "failed to decode user info", errx.TypeExternal)
	}

	return &identity, nil
}
