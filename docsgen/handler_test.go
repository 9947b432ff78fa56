package docsgen

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestMockGeneratorReadme(t *testing.T) {
	gen := NewMockGenerator()

	doc, err := gen.Generate(context.Background(), Request{
		Purpose:     DocTypeReadme,
		ProjectName: "Widget Factory",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if doc.Type != DocTypeReadme {
		t.Fatalf("expected readme type, got %s", doc.Type)
	}
	if doc.Filename != "README.md" {
		t.Fatalf("expected README.md, got %q", doc.Filename)
	}
	if !strings.HasPrefix(doc.Content, "# Widget Factory") {
		t.Fatalf("expected project title heading, got %q", doc.Content[:40])
	}
	if !strings.Contains(doc.Content, "widget-factory") {
		t.Fatal("expected slugified project name in clone instructions")
	}
}

func TestMockGeneratorDeterministic(t *testing.T) {
	gen := NewMockGenerator()
	req := Request{Purpose: DocTypeReadme, ProjectName: "Widget Factory"}

	first, err := gen.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	second, err := gen.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if first.Content != second.Content {
		t.Fatal("expected deterministic output for identical requests")
	}
}

func TestMockGeneratorComments(t *testing.T) {
	gen := NewMockGenerator()

	doc, err := gen.Generate(context.Background(), Request{
		Purpose:     DocTypeComments,
		ProjectName: "Widget Factory",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if doc.Type != DocTypeComments {
		t.Fatalf("expected comments type, got %s", doc.Type)
	}
	if doc.Filename != "commented_code.py" {
		t.Fatalf("expected commented_code.py, got %q", doc.Filename)
	}
}

func TestMockGeneratorAppendsInstructions(t *testing.T) {
	gen := NewMockGenerator()

	doc, err := gen.Generate(context.Background(), Request{
		Purpose:            DocTypeReadme,
		ProjectName:        "Widget Factory",
		CustomInstructions: "Mention the staging environment.",
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(doc.Content, "Mention the staging environment.") {
		t.Fatal("expected custom instructions in output")
	}
}

func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for name, content := range files {
		part, err := writer.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		part.Write([]byte(content))
	}
	writer.Close()

	return &buf, writer.FormDataContentType()
}

func TestGenerateDocsEndpoint(t *testing.T) {
	app := fiber.New()
	NewHandler(NewMockGenerator()).RegisterRoutes(app)

	body, contentType := multipartBody(t,
		map[string]string{"purpose": "readme", "project_name": "Widget Factory"},
		map[string]string{"main.go": "package main"},
	)

	req := httptest.NewRequest("POST", "/generate-docs", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var result struct {
		Success  bool   `json:"success"`
		Content  string `json:"content"`
		Type     string `json:"type"`
		Filename string `json:"filename"`
	}
	json.NewDecoder(resp.Body).Decode(&result)
	if !result.Success {
		t.Fatal("expected success true")
	}
	if result.Filename != "README.md" {
		t.Fatalf("expected README.md, got %q", result.Filename)
	}
	if !strings.Contains(result.Content, "main.go") {
		t.Fatal("expected uploaded file listed in readme")
	}
}

func TestGenerateDocsRejectsNonMultipart(t *testing.T) {
	app := fiber.New()
	NewHandler(NewMockGenerator()).RegisterRoutes(app)

	req := httptest.NewRequest("POST", "/generate-docs", strings.NewReader(`{"purpose":"readme"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	if body["error"] != "Invalid content type" {
		t.Fatalf("unexpected error %q", body["error"])
	}
}
