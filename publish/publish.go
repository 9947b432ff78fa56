package publish

import (
	"fmt"
	"time"

	"github.com/Abraxas-365/craftable/errx"
	"github.com/ShatadruDhar/tekshila/github"
	"github.com/ShatadruDhar/tekshila/pkg/kernel"
)

// ============================================================================
// ERRORES DEL DOMINIO PUBLISH
// ============================================================================

var publishErrors = errx.NewRegistry("PUBLISH")

var (
	CodeInvalidRequest = publishErrors.Register("INVALID_REQUEST", errx.TypeValidation, 400, "Missing required fields")
	CodePipelineFailed = publishErrors.Register("PIPELINE_FAILED", errx.TypeInternal, 500, "Publish pipeline failed")
)

func ErrInvalidRequest() *errx.Error { return publishErrors.New(CodeInvalidRequest) }
func ErrPipelineFailed() *errx.Error { return publishErrors.New(CodePipelineFailed) }

// ============================================================================
// ETAPAS DEL PIPELINE
// ============================================================================

// Stage etapa del pipeline de publicación en la que ocurrió una falla
type Stage string

const (
	StageBranchLookup Stage = "branch-lookup"
	StageBranchCreate Stage = "branch-create"
	StageFileWrite    Stage = "file-write"
	StagePRCreate     Stage = "pr-create"
)

// StageError falla del pipeline etiquetada con la etapa y el estado de las
// mutaciones previas. El pipeline no revierte nada: el llamador decide qué
// hacer con la rama o el commit que sí llegaron a crearse.
type StageError struct {
	Stage         Stage
	Branch        string
	BranchCreated bool
	FileWritten   bool
	Err           error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("publish failed at stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// ============================================================================
// REQUESTS Y RESULTADOS
// ============================================================================

const (
	DefaultFilename          = "README.md"
	DefaultCommitMessage     = "Add AI-generated documentation"
	DefaultPushCommitMessage = "Update documentation"
	DefaultPRTitle           = "Add AI-generated documentation"
	DefaultPRBody            = "This PR adds comprehensive documentation generated by AI."
)

// Request solicitud de publicación vía rama nueva y pull request
type Request struct {
	Owner         string
	Repo          string
	Base          string
	Filename      string
	Content       string
	CommitMessage string
	Title         string
	Body          string
	Actor         string
}

// Validate valida los campos obligatorios y aplica los defaults
func (r *Request) Validate() error {
	if r.Owner == "" || r.Repo == "" || r.Base == "" || r.Content == "" {
		return ErrInvalidRequest()
	}

	if r.Filename == "" {
		r.Filename = DefaultFilename
	}
	if r.CommitMessage == "" {
		r.CommitMessage = DefaultCommitMessage
	}
	if r.Title == "" {
		r.Title = DefaultPRTitle
	}
	if r.Body == "" {
		r.Body = DefaultPRBody
	}

	return nil
}

// Result resultado de una publicación exitosa
type Result struct {
	Branch   string `json:"branch"`
	PRNumber int    `json:"pr_number"`
	PRURL    string `json:"pr_url"`
}

// PushRequest solicitud de escritura directa sobre una rama existente
type PushRequest struct {
	Owner         string
	Repo          string
	Branch        string
	Filename      string
	Content       string
	CommitMessage string
	Actor         string
}

// Validate valida los campos obligatorios y aplica los defaults
func (r *PushRequest) Validate() error {
	if r.Owner == "" || r.Repo == "" || r.Branch == "" || r.Content == "" {
		return ErrInvalidRequest()
	}

	if r.Filename == "" {
		r.Filename = DefaultFilename
	}
	if r.CommitMessage == "" {
		r.CommitMessage = DefaultPushCommitMessage
	}

	return nil
}

// PushResult resultado de una escritura directa, con el commit y el
// contenido tal como los reporta GitHub
type PushResult struct {
	Commit  github.CommitInfo   `json:"commit"`
	Content *github.FileContent `json:"content"`
}

// ============================================================================
// AUDITORÍA
// ============================================================================

// AuditRecord rastro de una publicación para limpieza operativa. No es
// autoritativo: la verdad vive en GitHub y el servicio funciona igual sin él.
type AuditRecord struct {
	ID            kernel.PublishID `db:"id"`
	Actor         string           `db:"actor"`
	Owner         string           `db:"owner"`
	Repo          string           `db:"repo"`
	Branch        string           `db:"branch"`
	Stage         string           `db:"stage"`
	Success       bool             `db:"success"`
	BranchCreated bool             `db:"branch_created"`
	FileWritten   bool             `db:"file_written"`
	PRNumber      int              `db:"pr_number"`
	CreatedAt     time.Time        `db:"created_at"`
}
