package github

import (
	"github.com/Abraxas-365/craftable/errx"
)

// ============================================================================
// ERRORES DEL DOMINIO GITHUB
// ============================================================================
//
// El cliente mapea toda falla contra la API de GitHub a exactamente uno de
// estos cinco códigos. Los consumidores deciden con los predicados Is*, no
// inspeccionando códigos de estado HTTP.

var githubErrors = errx.NewRegistry("GITHUB")

var (
	CodeUnauthorized  = githubErrors.Register("UNAUTHORIZED", errx.TypeAuthorization, 401, "GitHub rejected the access token")
	CodeNotFound      = githubErrors.Register("NOT_FOUND", errx.TypeNotFound, 404, "GitHub resource not found")
	CodeConflict      = githubErrors.Register("CONFLICT", errx.TypeConflict, 409, "GitHub rejected the operation due to a conflict")
	CodeUpstreamError = githubErrors.Register("UPSTREAM_ERROR", errx.TypeExternal, 502, "GitHub returned an unexpected response")
	CodeUnreachable   = githubErrors.Register("UNREACHABLE", errx.TypeExternal, 503, "GitHub could not be reached")
)

// Helper functions para crear errores del dominio
func ErrUnauthorized() *errx.Error  { return githubErrors.New(CodeUnauthorized) }
func ErrNotFound() *errx.Error      { return githubErrors.New(CodeNotFound) }
func ErrConflict() *errx.Error      { return githubErrors.New(CodeConflict) }
func ErrUpstreamError() *errx.Error { return githubErrors.New(CodeUpstreamError) }
func ErrUnreachable() *errx.Error   { return githubErrors.New(CodeUnreachable) }

// IsUnauthorized indica que GitHub rechazó el token de acceso
func IsUnauthorized(err error) bool {
	return errx.IsType(err, errx.TypeAuthorization)
}

// IsNotFound indica que el recurso no existe o no es visible con ese token
func IsNotFound(err error) bool {
	return errx.IsType(err, errx.TypeNotFound)
}

// IsConflict indica una colisión, por ejemplo una rama que ya existe
func IsConflict(err error) bool {
	return errx.IsType(err, errx.TypeConflict)
}

// ============================================================================
// TIPOS DEL DOMINIO
// ============================================================================

// User usuario autenticado de GitHub
type User struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
	HTMLURL   string `json:"html_url"`
}

// Owner dueño de un repositorio
type Owner struct {
	Login string `json:"login"`
}

// Repository repositorio visible para el token autenticado
type Repository struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	Owner         Owner  `json:"owner"`
	Private       bool   `json:"private"`
	DefaultBranch string `json:"default_branch"`
	HTMLURL       string `json:"html_url"`
	Description   string `json:"description"`
	UpdatedAt     string `json:"updated_at"`
}

// BranchCommit commit al que apunta una rama
type BranchCommit struct {
	SHA string `json:"sha"`
}

// Branch rama de un repositorio
type Branch struct {
	Name      string       `json:"name"`
	Commit    BranchCommit `json:"commit"`
	Protected bool         `json:"protected"`
}

// RefObject objeto git al que apunta una referencia
type RefObject struct {
	SHA  string `json:"sha"`
	Type string `json:"type"`
	URL  string `json:"url"`
}

// Ref referencia git, por ejemplo refs/heads/main
type Ref struct {
	Ref    string    `json:"ref"`
	Object RefObject `json:"object"`
}

// FileContent contenido de un archivo en el repositorio
type FileContent struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	SHA      string `json:"sha"`
	Content  string `json:"content"`
	Encoding string `json:"encoding"`
	HTMLURL  string `json:"html_url"`
}

// CommitInfo commit resultante de una escritura de contenido
type CommitInfo struct {
	SHA     string `json:"sha"`
	HTMLURL string `json:"html_url"`
}

// CommitResult respuesta de GitHub al crear o actualizar un archivo
type CommitResult struct {
	Content *FileContent `json:"content"`
	Commit  CommitInfo   `json:"commit"`
}

// PullRequest pull request abierto en un repositorio
type PullRequest struct {
	Number  int    `json:"number"`
	HTMLURL string `json:"html_url"`
	State   string `json:"state"`
	Title   string `json:"title"`
}
