package publishsrv

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"time"

	"github.com/Abraxas-365/craftable/logx"
	"github.com/ShatadruDhar/tekshila/github"
	"github.com/ShatadruDhar/tekshila/pkg/kernel"
	"github.com/ShatadruDhar/tekshila/publish"
	"github.com/google/uuid"
)

const branchPrefix = "docs/ai-generated-"

// Pipeline orquesta la publicación de documentación: resolver la rama base,
// crear una rama de trabajo, escribir el archivo y abrir el pull request.
// Cada mutación se intenta una sola vez; la única excepción es una colisión
// de nombre de rama, que se reintenta una vez con otro sufijo.
type Pipeline struct {
	client github.Client
	audit  publish.AuditRepository
}

// NewPipeline crea un nuevo pipeline de publicación
func NewPipeline(client github.Client, audit publish.AuditRepository) *Pipeline {
	return &Pipeline{
		client: client,
		audit:  audit,
	}
}

// Publish ejecuta el pipeline completo. Ante una falla retorna un
// *publish.StageError con la etapa y el estado de las mutaciones previas;
// nunca revierte la rama ni el commit ya creados.
func (p *Pipeline) Publish(ctx context.Context, token string, req publish.Request) (*publish.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Resolver la rama base a su SHA
	baseRef, err := p.client.GetRef(ctx, token, req.Owner, req.Repo, req.Base)
	if err != nil {
		return nil, p.fail(ctx, req, &publish.StageError{
			Stage: publish.StageBranchLookup,
			Err:   err,
		})
	}
	baseSHA := baseRef.Object.SHA

	// Crear la rama de trabajo; una colisión de nombre se reintenta una vez
	branch := newBranchName()
	if _, err := p.client.CreateRef(ctx, token, req.Owner, req.Repo, branch, baseSHA); err != nil {
		if !github.IsConflict(err) {
			return nil, p.fail(ctx, req, &publish.StageError{
				Stage:  publish.StageBranchCreate,
				Branch: branch,
				Err:    err,
			})
		}

		branch = newBranchName()
		if _, err := p.client.CreateRef(ctx, token, req.Owner, req.Repo, branch, baseSHA); err != nil {
			return nil, p.fail(ctx, req, &publish.StageError{
				Stage:  publish.StageBranchCreate,
				Branch: branch,
				Err:    err,
			})
		}
	}

	// Si el archivo ya existe en la rama nueva, la actualización necesita
	// su SHA. Un error aquí se trata como archivo inexistente.
	var existingSHA string
	if existing, err := p.client.GetContents(ctx, token, req.Owner, req.Repo, req.Filename, branch); err == nil {
		existingSHA = existing.SHA
	}

	if _, err := p.client.PutContents(ctx, token, req.Owner, req.Repo, req.Filename, github.PutContentsRequest{
		Message: req.CommitMessage,
		Content: base64.StdEncoding.EncodeToString([]byte(req.Content)),
		Branch:  branch,
		SHA:     existingSHA,
	}); err != nil {
		return nil, p.fail(ctx, req, &publish.StageError{
			Stage:         publish.StageFileWrite,
			Branch:        branch,
			BranchCreated: true,
			Err:           err,
		})
	}

	pr, err := p.client.CreatePullRequest(ctx, token, req.Owner, req.Repo, github.NewPullRequest{
		Title: req.Title,
		Body:  req.Body,
		Head:  branch,
		Base:  req.Base,
	})
	if err != nil {
		return nil, p.fail(ctx, req, &publish.StageError{
			Stage:         publish.StagePRCreate,
			Branch:        branch,
			BranchCreated: true,
			FileWritten:   true,
			Err:           err,
		})
	}

	result := &publish.Result{
		Branch:   branch,
		PRNumber: pr.Number,
		PRURL:    pr.HTMLURL,
	}

	p.record(ctx, req.Actor, req.Owner, req.Repo, publish.AuditRecord{
		Branch:        branch,
		Success:       true,
		BranchCreated: true,
		FileWritten:   true,
		PRNumber:      pr.Number,
	})

	return result, nil
}

// DirectPush escribe el archivo directamente sobre una rama existente
func (p *Pipeline) DirectPush(ctx context.Context, token string, req publish.PushRequest) (*publish.PushResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var existingSHA string
	if existing, err := p.client.GetContents(ctx, token, req.Owner, req.Repo, req.Filename, req.Branch); err == nil {
		existingSHA = existing.SHA
	}

	commit, err := p.client.PutContents(ctx, token, req.Owner, req.Repo, req.Filename, github.PutContentsRequest{
		Message: req.CommitMessage,
		Content: base64.StdEncoding.EncodeToString([]byte(req.Content)),
		Branch:  req.Branch,
		SHA:     existingSHA,
	})
	if err != nil {
		p.record(ctx, req.Actor, req.Owner, req.Repo, publish.AuditRecord{
			Branch:  req.Branch,
			Stage:   string(publish.StageFileWrite),
			Success: false,
		})
		return nil, &publish.StageError{
			Stage:  publish.StageFileWrite,
			Branch: req.Branch,
			Err:    err,
		}
	}

	result := &publish.PushResult{
		Commit:  commit.Commit,
		Content: commit.Content,
	}

	p.record(ctx, req.Actor, req.Owner, req.Repo, publish.AuditRecord{
		Branch:      req.Branch,
		Success:     true,
		FileWritten: true,
	})

	return result, nil
}

// fail registra el intento fallido y retorna el mismo error de etapa
func (p *Pipeline) fail(ctx context.Context, req publish.Request, stageErr *publish.StageError) *publish.StageError {
	p.record(ctx, req.Actor, req.Owner, req.Repo, publish.AuditRecord{
		Branch:        stageErr.Branch,
		Stage:         string(stageErr.Stage),
		Success:       false,
		BranchCreated: stageErr.BranchCreated,
		FileWritten:   stageErr.FileWritten,
	})
	return stageErr
}

// record guarda el rastro de auditoría sin afectar el resultado del pipeline
func (p *Pipeline) record(ctx context.Context, actor, owner, repo string, record publish.AuditRecord) {
	record.ID = kernel.NewPublishID(uuid.NewString())
	record.Actor = actor
	record.Owner = owner
	record.Repo = repo
	record.CreatedAt = time.Now()

	if err := p.audit.Record(ctx, record); err != nil {
		logx.Error("Failed to record publish audit entry: %v", err)
	}
}

// newBranchName genera un nombre de rama con sufijo aleatorio de 8 hex
func newBranchName() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		panic("publish: crypto/rand unavailable: " + err.Error())
	}
	return branchPrefix + hex.EncodeToString(buf)
}
