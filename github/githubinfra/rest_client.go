package githubinfra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ShatadruDhar/tekshila/github"
)

const (
	// DefaultBaseURL base de la API REST de GitHub
	DefaultBaseURL = "https://api.github.com"

	acceptHeader = "application/vnd.github.v3+json"
	userAgent    = "Tekshila-App"
)

// RESTClient implementación de github.Client sobre la API REST v3
type RESTClient struct {
	baseURL    string
	httpClient *http.Client
}

var _ github.Client = (*RESTClient)(nil)

// NewRESTClient crea un cliente con la base oficial de GitHub
func NewRESTClient() *RESTClient {
	return NewRESTClientWithBaseURL(DefaultBaseURL)
}

// NewRESTClientWithBaseURL crea un cliente apuntando a otra base, por
// ejemplo una instancia de GitHub Enterprise
func NewRESTClientWithBaseURL(baseURL string) *RESTClient {
	return &RESTClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// GetAuthenticatedUser retorna el usuario dueño del token
func (rc *RESTClient) GetAuthenticatedUser(ctx context.Context, token string) (*github.User, error) {
	var user github.User
	if err := rc.do(ctx, token, "GET", "/user", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ListRepositories lista los repositorios visibles para el token
func (rc *RESTClient) ListRepositories(ctx context.Context, token string, opts github.ListRepositoriesOptions) ([]github.Repository, error) {
	params := url.Values{}
	if opts.Sort != "" {
		params.Set("sort", opts.Sort)
	}
	if opts.Type != "" {
		params.Set("type", opts.Type)
	}
	if opts.PerPage > 0 {
		params.Set("per_page", strconv.Itoa(opts.PerPage))
	}

	path := "/user/repos"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var repos []github.Repository
	if err := rc.do(ctx, token, "GET", path, nil, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

// ListBranches lista las ramas de un repositorio
func (rc *RESTClient) ListBranches(ctx context.Context, token, owner, repo string) ([]github.Branch, error) {
	path := fmt.Sprintf("/repos/%s/%s/branches", url.PathEscape(owner), url.PathEscape(repo))

	var branches []github.Branch
	if err := rc.do(ctx, token, "GET", path, nil, &branches); err != nil {
		return nil, err
	}
	return branches, nil
}

// GetRef resuelve una rama a su referencia git
func (rc *RESTClient) GetRef(ctx context.Context, token, owner, repo, branch string) (*github.Ref, error) {
	path := fmt.Sprintf("/repos/%s/%s/git/ref/heads/%s",
		url.PathEscape(owner), url.PathEscape(repo), url.PathEscape(branch))

	var ref github.Ref
	if err := rc.do(ctx, token, "GET", path, nil, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

// CreateRef crea una rama nueva apuntando al SHA dado
func (rc *RESTClient) CreateRef(ctx context.Context, token, owner, repo, branch, sha string) (*github.Ref, error) {
	path := fmt.Sprintf("/repos/%s/%s/git/refs", url.PathEscape(owner), url.PathEscape(repo))

	body := map[string]string{
		"ref": "refs/heads/" + branch,
		"sha": sha,
	}

	var ref github.Ref
	if err := rc.do(ctx, token, "POST", path, body, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

// GetContents lee un archivo en una referencia dada
func (rc *RESTClient) GetContents(ctx context.Context, token, owner, repo, path, ref string) (*github.FileContent, error) {
	reqPath := fmt.Sprintf("/repos/%s/%s/contents/%s",
		url.PathEscape(owner), url.PathEscape(repo), escapeFilePath(path))
	if ref != "" {
		reqPath += "?ref=" + url.QueryEscape(ref)
	}

	var content github.FileContent
	if err := rc.do(ctx, token, "GET", reqPath, nil, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

// PutContents crea o actualiza un archivo
func (rc *RESTClient) PutContents(ctx context.Context, token, owner, repo, path string, req github.PutContentsRequest) (*github.CommitResult, error) {
	reqPath := fmt.Sprintf("/repos/%s/%s/contents/%s",
		url.PathEscape(owner), url.PathEscape(repo), escapeFilePath(path))

	var result github.CommitResult
	if err := rc.do(ctx, token, "PUT", reqPath, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CreatePullRequest abre un pull request
func (rc *RESTClient) CreatePullRequest(ctx context.Context, token, owner, repo string, req github.NewPullRequest) (*github.PullRequest, error) {
	path := fmt.Sprintf("/repos/%s/%s/pulls", url.PathEscape(owner), url.PathEscape(repo))

	var pr github.PullRequest
	if err := rc.do(ctx, token, "POST", path, req, &pr); err != nil {
		return nil, err
	}
	return &pr, nil
}

// do ejecuta una llamada contra la API y mapea la respuesta al conjunto
// cerrado de errores del dominio
func (rc *RESTClient) do(ctx context.Context, token, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return github.ErrUpstreamError().WithDetail("reason", "failed to encode request body")
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rc.baseURL+path, reqBody)
	if err != nil {
		return github.ErrUpstreamError().WithDetail("reason", err.Error())
	}

	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := rc.httpClient.Do(req)
	if err != nil {
		// Fallas de red y timeouts: GitHub nunca llegó a responder
		return github.ErrUnreachable().WithDetail("reason", err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return github.ErrUpstreamError().WithDetail("reason", "failed to decode response body")
		}
		return nil
	}

	return mapStatusError(resp)
}

// mapStatusError traduce un código de estado de GitHub al error de dominio
func mapStatusError(resp *http.Response) error {
	var payload struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&payload)

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return github.ErrUnauthorized().
			WithDetail("status_code", resp.StatusCode).
			WithDetail("github_message", payload.Message)
	case http.StatusNotFound:
		return github.ErrNotFound().
			WithDetail("status_code", resp.StatusCode).
			WithDetail("github_message", payload.Message)
	case http.StatusConflict, http.StatusUnprocessableEntity:
		// GitHub reporta ramas duplicadas y PRs repetidos como 422
		return github.ErrConflict().
			WithDetail("status_code", resp.StatusCode).
			WithDetail("github_message", payload.Message)
	default:
		return github.ErrUpstreamError().
			WithDetail("status_code", resp.StatusCode).
			WithDetail("github_message", payload.Message)
	}
}

// escapeFilePath escapa cada segmento del path preservando los separadores
func escapeFilePath(path string) string {
	segments := strings.Split(path, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return strings.Join(segments, "/")
}
