package docsgen

import (
	"context"
	"fmt"
	"strings"
)

// MockGenerator genera documentación plantilla sin llamar a ningún servicio
// de IA. Es determinístico: misma entrada, mismo documento.
type MockGenerator struct{}

// NewMockGenerator crea un generador de documentación mock
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// Generate produce un README o código comentado según el propósito
func (g *MockGenerator) Generate(ctx context.Context, req Request) (*Document, error) {
	if req.ProjectName == "" {
		req.ProjectName = "Project"
	}

	if req.Purpose == DocTypeComments {
		return &Document{
			Content:  mockCommentedCode(req.ProjectName),
			Type:     DocTypeComments,
			Filename: "commented_code.py",
		}, nil
	}

	return &Document{
		Content:  mockReadme(req.ProjectName, req.CustomInstructions, req.Files),
		Type:     DocTypeReadme,
		Filename: "README.md",
	}, nil
}

func mockReadme(projectName, instructions string, files []UploadedFile) string {
	slug := strings.ToLower(strings.ReplaceAll(projectName, " ", "-"))

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", projectName)
	fmt.Fprintf(&b, "## Overview\n\n%s is a cutting-edge application that leverages modern technologies to deliver exceptional performance and user experience.\n\n", projectName)

	b.WriteString("## Features\n\n")
	b.WriteString("- **High Performance**: Optimized algorithms and efficient data structures\n")
	b.WriteString("- **Scalable Architecture**: Designed to handle growth\n")
	b.WriteString("- **Comprehensive Testing**: Full test coverage with unit and integration tests\n")
	b.WriteString("- **Developer Friendly**: Clear code structure and extensive documentation\n\n")

	if len(files) > 0 {
		b.WriteString("## Project Files\n\n")
		for _, f := range files {
			fmt.Fprintf(&b, "- `%s`\n", f.Name)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Installation\n\n")
	fmt.Fprintf(&b, "```bash\ngit clone https://github.com/yourusername/%s.git\ncd %s\n```\n\n", slug, slug)

	b.WriteString("## License\n\nThis project is licensed under the MIT License.\n")

	if instructions != "" {
		b.WriteString("\n" + instructions + "\n")
	}

	return b.String()
}

func mockCommentedCode(projectName string) string {
	return fmt.Sprintf(`"""
Module: main.py
Description: Main application entry point with comprehensive documentation
Project: %s
"""

import os
import logging

logging.basicConfig(level=logging.INFO)
logger = logging.getLogger(__name__)


def main():
    """
    Application entry point.

    Loads configuration from the environment and starts the application.
    """
    logger.info("Starting %s")


if __name__ == "__main__":
    main()
`, projectName, projectName)
}
