package parser

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"

	"legal-rag/internal/models"
)

// ParseFile reads a single decision file into a SourceDocument. This is the
// upload path: one file, no page-structured JSON, so the headnote carries
// the not-found sentinel and only the file name is known as metadata.
func ParseFile(filePath string) (models.SourceDocument, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".pdf":
		return parsePDF(filePath)
	case ".docx":
		return parseDOCX(filePath)
	case ".txt":
		return parseText(filePath)
	default:
		return models.SourceDocument{}, fmt.Errorf("unsupported file format: %s", ext)
	}
}

func newDocument(filePath, text string) models.SourceDocument {
	source := filepath.Base(filePath)
	return models.SourceDocument{
		Source:   source,
		FullText: strings.TrimSpace(text),
		Ementa:   models.EmentaNotFound,
		Metadata: models.DocumentMetadata{FileName: source},
	}
}

func parsePDF(filePath string) (models.SourceDocument, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return models.SourceDocument{}, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return models.SourceDocument{}, err
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return models.SourceDocument{}, err
	}

	var text strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		pageText, err := reader.Page(i).GetPlainText(nil)
		if err != nil {
			return models.SourceDocument{}, err
		}
		if strings.TrimSpace(pageText) == "" {
			continue
		}
		if text.Len() > 0 {
			text.WriteString(" ")
		}
		text.WriteString(strings.TrimSpace(pageText))
	}
	return newDocument(filePath, text.String()), nil
}

func parseDOCX(filePath string) (models.SourceDocument, error) {
	r, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return models.SourceDocument{}, err
	}
	defer r.Close()

	content := r.Editable().GetContent()
	var parts []string
	for _, p := range strings.Split(content, "\n") {
		if strings.TrimSpace(p) != "" {
			parts = append(parts, strings.TrimSpace(p))
		}
	}
	return newDocument(filePath, strings.Join(parts, " ")), nil
}

func parseText(filePath string) (models.SourceDocument, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return models.SourceDocument{}, err
	}
	return newDocument(filePath, string(data)), nil
}
