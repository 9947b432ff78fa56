package github

import "context"

// Client puerto tipado sobre la API REST de GitHub. Cada operación hace
// exactamente una llamada HTTP con el token que recibe: no hay reintentos
// ni refresco de credenciales en esta capa.
type Client interface {
	// GetAuthenticatedUser retorna el usuario dueño del token
	GetAuthenticatedUser(ctx context.Context, token string) (*User, error)

	// ListRepositories lista los repositorios visibles para el token
	ListRepositories(ctx context.Context, token string, opts ListRepositoriesOptions) ([]Repository, error)

	// ListBranches lista las ramas de un repositorio
	ListBranches(ctx context.Context, token, owner, repo string) ([]Branch, error)

	// GetRef resuelve una rama a la referencia git que la respalda
	GetRef(ctx context.Context, token, owner, repo, branch string) (*Ref, error)

	// CreateRef crea una rama nueva apuntando al SHA dado
	CreateRef(ctx context.Context, token, owner, repo, branch, sha string) (*Ref, error)

	// GetContents lee un archivo en una referencia dada
	GetContents(ctx context.Context, token, owner, repo, path, ref string) (*FileContent, error)

	// PutContents crea o actualiza un archivo. Para actualizar un archivo
	// existente el request debe llevar el SHA del blob actual.
	PutContents(ctx context.Context, token, owner, repo, path string, req PutContentsRequest) (*CommitResult, error)

	// CreatePullRequest abre un pull request
	CreatePullRequest(ctx context.Context, token, owner, repo string, req NewPullRequest) (*PullRequest, error)
}
