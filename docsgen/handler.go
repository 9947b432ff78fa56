package docsgen

import (
	"io"
	"strings"

	"github.com/Abraxas-365/craftable/logx"
	"github.com/gofiber/fiber/v2"
)

// Handler expone la generación de documentación vía HTTP
type Handler struct {
	generator Generator
}

// NewHandler crea un nuevo handler de generación de documentación
func NewHandler(generator Generator) *Handler {
	return &Handler{
		generator: generator,
	}
}

// RegisterRoutes registra las rutas de generación de documentación
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Post("/generate-docs", h.GenerateDocs)
}

// GenerateDocs genera documentación a partir de un formulario multipart
func (h *Handler) GenerateDocs(c *fiber.Ctx) error {
	if !strings.HasPrefix(c.Get("Content-Type"), "multipart/form-data") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid content type",
		})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid content type",
		})
	}

	req := Request{
		Purpose:            DocType(formValue(form.Value, "purpose", "readme")),
		ProjectName:        formValue(form.Value, "project_name", ""),
		CustomInstructions: formValue(form.Value, "custom_instructions", ""),
	}

	for _, headers := range form.File {
		for _, header := range headers {
			file, err := header.Open()
			if err != nil {
				continue
			}
			content, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				continue
			}
			req.Files = append(req.Files, UploadedFile{
				Name:    header.Filename,
				Content: content,
			})
		}
	}

	doc, err := h.generator.Generate(c.Context(), req)
	if err != nil {
		logx.Error("Documentation generation failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Documentation generation failed",
		})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"content":  doc.Content,
		"type":     doc.Type,
		"filename": doc.Filename,
	})
}

func formValue(values map[string][]string, key, fallback string) string {
	if v, ok := values[key]; ok && len(v) > 0 && v[0] != "" {
		return v[0]
	}
	return fallback
}
