package github

// ListRepositoriesOptions parámetros de listado de repositorios
type ListRepositoriesOptions struct {
	Sort    string
	Type    string
	PerPage int
}

// PutContentsRequest carga para crear o actualizar un archivo. Content debe
// venir codificado en base64; SHA se incluye solo al actualizar.
type PutContentsRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch"`
	SHA     string `json:"sha,omitempty"`
}

// NewPullRequest carga para abrir un pull request
type NewPullRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Head  string `json:"head"`
	Base  string `json:"base"`
}
