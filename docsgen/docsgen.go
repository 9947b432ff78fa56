package docsgen

import (
	"context"

	"github.com/Abraxas-365/craftable/errx"
)

// DocType tipo de documento generado
type DocType string

const (
	DocTypeReadme   DocType = "readme"
	DocTypeComments DocType = "comments"
)

// UploadedFile archivo fuente enviado para generar documentación
type UploadedFile struct {
	Name    string
	Content []byte
}

// Request solicitud de generación de documentación
type Request struct {
	Purpose            DocType
	ProjectName        string
	CustomInstructions string
	Files              []UploadedFile
}

// Document documento generado listo para publicar
type Document struct {
	Content  string  `json:"content"`
	Type     DocType `json:"type"`
	Filename string  `json:"filename"`
}

// Generator produce documentación a partir de archivos fuente
type Generator interface {
	Generate(ctx context.Context, req Request) (*Document, error)
}

var docsgenErrors = errx.NewRegistry("DOCSGEN")

var (
	CodeInvalidContentType = docsgenErrors.Register("INVALID_CONTENT_TYPE", errx.TypeValidation, 400, "Invalid content type")
	CodeGenerationFailed   = docsgenErrors.Register("GENERATION_FAILED", errx.TypeInternal, 500, "Documentation generation failed")
)

func ErrInvalidContentType() *errx.Error { return docsgenErrors.New(CodeInvalidContentType) }
func ErrGenerationFailed() *errx.Error   { return docsgenErrors.New(CodeGenerationFailed) }
