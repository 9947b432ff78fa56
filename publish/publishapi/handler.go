package publishapi

import (
	"context"
	"errors"

	"github.com/Abraxas-365/craftable/logx"
	"github.com/ShatadruDhar/tekshila/github"
	"github.com/ShatadruDhar/tekshila/iam/auth"
	"github.com/ShatadruDhar/tekshila/publish"
	"github.com/ShatadruDhar/tekshila/publish/publishsrv"
	"github.com/gofiber/fiber/v2"
)

// Handler expone los repositorios y el pipeline de publicación vía HTTP
type Handler struct {
	ghClient github.Client
	pipeline *publishsrv.Pipeline
}

// NewHandler crea un nuevo handler de publicación
func NewHandler(ghClient github.Client, pipeline *publishsrv.Pipeline) *Handler {
	return &Handler{
		ghClient: ghClient,
		pipeline: pipeline,
	}
}

// RegisterRoutes registra las rutas protegidas por el middleware de sesión
func (h *Handler) RegisterRoutes(app *fiber.App, authMiddleware *auth.AuthMiddleware) {
	repos := app.Group("/repos", authMiddleware.Authenticate())

	repos.Get("/", h.ListRepositories)
	repos.Get("/:owner/:repo/branches", h.ListBranches)
	repos.Post("/:owner/:repo/pulls", h.CreatePullRequest)
	repos.Post("/:owner/:repo/push", h.DirectPush)
}

// CreatePullRequestRequest cuerpo de la solicitud de publicación vía PR
type CreatePullRequestRequest struct {
	Base          string `json:"base"`
	Content       string `json:"content"`
	Filename      string `json:"filename"`
	CommitMessage string `json:"commit_message"`
	Title         string `json:"title"`
	Body          string `json:"body"`
}

// DirectPushRequest cuerpo de la solicitud de escritura directa
type DirectPushRequest struct {
	Branch        string `json:"branch"`
	Content       string `json:"content"`
	Filename      string `json:"filename"`
	CommitMessage string `json:"commit_message"`
}

// ListRepositories lista los repositorios del usuario autenticado
func (h *Handler) ListRepositories(c *fiber.Ctx) error {
	session, ok := auth.GetSession(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Not authenticated",
		})
	}

	sort := c.Query("sort", "updated")

	repos, err := h.ghClient.ListRepositories(c.Context(), session.GitHubToken, github.ListRepositoriesOptions{
		Sort:    sort,
		Type:    "all",
		PerPage: 100,
	})
	if err != nil {
		if github.IsUnauthorized(err) {
			return auth.RejectStaleSession(c)
		}
		logx.Error("Failed to list repositories: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch repositories",
		})
	}

	return c.JSON(repos)
}

// ListBranches lista las ramas de un repositorio
func (h *Handler) ListBranches(c *fiber.Ctx) error {
	session, ok := auth.GetSession(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Not authenticated",
		})
	}

	owner := c.Params("owner")
	repo := c.Params("repo")

	branches, err := h.ghClient.ListBranches(c.Context(), session.GitHubToken, owner, repo)
	if err != nil {
		switch {
		case github.IsUnauthorized(err):
			return auth.RejectStaleSession(c)
		case github.IsNotFound(err):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Repository not found",
			})
		default:
			logx.Error("Failed to list branches: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to fetch branches",
			})
		}
	}

	return c.JSON(branches)
}

// CreatePullRequest publica documentación en una rama nueva y abre un PR
func (h *Handler) CreatePullRequest(c *fiber.Ctx) error {
	session, ok := auth.GetSession(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Not authenticated",
		})
	}

	var req CreatePullRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	publishReq := publish.Request{
		Owner:         c.Params("owner"),
		Repo:          c.Params("repo"),
		Base:          req.Base,
		Filename:      req.Filename,
		Content:       req.Content,
		CommitMessage: req.CommitMessage,
		Title:         req.Title,
		Body:          req.Body,
		Actor:         session.Identity.Login,
	}

	// El pipeline corre con un contexto propio: una desconexión del
	// cliente no debe abortarlo a mitad de sus mutaciones
	result, err := h.pipeline.Publish(context.Background(), session.GitHubToken, publishReq)
	if err != nil {
		return h.publishError(c, err)
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"pr_number": result.PRNumber,
		"pr_url":    result.PRURL,
		"branch":    result.Branch,
	})
}

// DirectPush escribe documentación directamente sobre una rama existente
func (h *Handler) DirectPush(c *fiber.Ctx) error {
	session, ok := auth.GetSession(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Not authenticated",
		})
	}

	var req DirectPushRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	pushReq := publish.PushRequest{
		Owner:         c.Params("owner"),
		Repo:          c.Params("repo"),
		Branch:        req.Branch,
		Filename:      req.Filename,
		Content:       req.Content,
		CommitMessage: req.CommitMessage,
		Actor:         session.Identity.Login,
	}

	result, err := h.pipeline.DirectPush(context.Background(), session.GitHubToken, pushReq)
	if err != nil {
		return h.publishError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"commit":  result.Commit,
		"content": result.Content,
	})
}

// publishError traduce errores del pipeline a respuestas HTTP. Las fallas
// de etapa reportan qué mutaciones ya ocurrieron para que el llamador pueda
// limpiar; el pipeline nunca revierte nada por sí mismo.
func (h *Handler) publishError(c *fiber.Ctx, err error) error {
	var stageErr *publish.StageError
	if errors.As(err, &stageErr) {
		if github.IsUnauthorized(stageErr.Err) {
			return auth.RejectStaleSession(c)
		}

		logx.Error("Publish pipeline failed at stage %s: %v", stageErr.Stage, stageErr.Err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":          stageErr.Error(),
			"stage":          string(stageErr.Stage),
			"branch":         stageErr.Branch,
			"branch_created": stageErr.BranchCreated,
			"file_written":   stageErr.FileWritten,
		})
	}

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Missing required fields",
	})
}
