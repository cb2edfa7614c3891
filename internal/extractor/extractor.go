package extractor

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"

	"legal-rag/internal/models"
)

// ErrBadCorpusFormat reports a corpus whose root is not a JSON array of
// documents. The whole batch is unusable, nothing is ingested.
var ErrBadCorpusFormat = errors.New("corpus root is not a list of documents")

// Structural and metadata keys whose values never belong in the flattened
// text: page numbers, signature blocks, footers, duplicate-content markers
// and internal registry codes.
var ignoredKeys = map[string]struct{}{
	"page":                        {},
	"fileName":                    {},
	"title":                       {},
	"control_code":                {},
	"law_reference":               {},
	"numero_registro":             {},
	"numero_origem":               {},
	"sessao_virtual":              {},
	"relator_agint":               {},
	"presidente_sessao":           {},
	"case_info_duplicate":         {},
	"parties_and_roles_duplicate": {},
	"ementa_duplicate":            {},
}

// Signature and footer blocks repeat per page with a numbered key suffix
// (document_signature_info_page3 and so on), so those families match by
// prefix.
var ignoredKeyPrefixes = []string{
	"document_signature_info",
	"document_footer",
}

func isIgnoredKey(key string) bool {
	if _, ok := ignoredKeys[key]; ok {
		return true
	}
	for _, prefix := range ignoredKeyPrefixes {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

// flattenText walks the record and collects every leaf string not hidden
// under an ignored key. Non-string leaves are dropped.
func flattenText(v value, parts *[]string) {
	switch v.kind {
	case kindMapping:
		for _, m := range v.members {
			if isIgnoredKey(m.key) {
				continue
			}
			flattenText(m.val, parts)
		}
	case kindSequence:
		for _, item := range v.items {
			flattenText(item, parts)
		}
	case kindText:
		if s := strings.TrimSpace(v.text); s != "" {
			*parts = append(*parts, s)
		}
	}
}

func extractFullText(content value) string {
	var parts []string
	flattenText(content, &parts)
	return strings.TrimSpace(strings.Join(parts, " "))
}

// extractEmenta scans the page list for the first page carrying an ementa
// object and joins its body with each of its points. Empty string means no
// headnote was found.
func extractEmenta(content value) string {
	if content.kind != kindSequence {
		return ""
	}
	for _, page := range content.items {
		ementa, ok := page.get("ementa")
		if !ok || ementa.kind != kindMapping {
			continue
		}
		body := ""
		if b, ok := ementa.get("body"); ok && b.kind == kindText {
			body = b.text
		}
		points, ok := ementa.get("points")
		if !ok || points.kind != kindSequence {
			return strings.TrimSpace(body)
		}
		full := body
		for _, p := range points.items {
			if p.kind == kindText {
				full += " " + p.text
			}
		}
		return strings.TrimSpace(full)
	}
	return ""
}

// extractMetadata picks up the first case_info and the first
// parties_and_roles.relator, stopping as soon as both are found.
func extractMetadata(fileName string, content value) models.DocumentMetadata {
	md := models.DocumentMetadata{FileName: fileName}
	if content.kind != kindSequence {
		return md
	}
	for _, page := range content.items {
		if page.kind != kindMapping {
			continue
		}
		if md.CaseInfo == nil {
			if ci, ok := page.get("case_info"); ok {
				md.CaseInfo = ci.toAny()
			}
		}
		if md.Relator == nil {
			if pr, ok := page.get("parties_and_roles"); ok {
				if rel, ok := pr.get("relator"); ok {
					md.Relator = rel.toAny()
				}
			}
		}
		if md.CaseInfo != nil && md.Relator != nil {
			break
		}
	}
	return md
}

// ParseCorpus ingests the original paginated corpus shape: an array of
// documents, each with a fileName and a content page list. A malformed root
// fails the whole batch; a malformed item is skipped with a warning; a
// document with no extractable text is dropped.
func ParseCorpus(data []byte) ([]models.SourceDocument, error) {
	root, err := decodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode corpus JSON: %w", err)
	}
	if root.kind != kindSequence {
		return nil, ErrBadCorpusFormat
	}

	var docs []models.SourceDocument
	for i, item := range root.items {
		fileName, okName := item.get("fileName")
		content, okContent := item.get("content")
		if item.kind != kindMapping || !okName || !okContent || fileName.kind != kindText {
			log.Warn().Int("item", i).Msg("Corpus item missing fileName/content structure, skipping")
			continue
		}

		fullText := extractFullText(content)
		if fullText == "" {
			log.Warn().Str("source", fileName.text).Msg("Document has no extractable text, dropping")
			continue
		}

		ementa := extractEmenta(content)
		if ementa == "" {
			ementa = models.EmentaNotFound
		}

		docs = append(docs, models.SourceDocument{
			Source:   fileName.text,
			FullText: fullText,
			Ementa:   ementa,
			Metadata: extractMetadata(fileName.text, content),
		})
	}

	log.Info().Int("documents", len(docs)).Msg("Corpus loaded and prepared for retrieval")
	return docs, nil
}

// LoadCorpus reads and parses a corpus file.
func LoadCorpus(path string) ([]models.SourceDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file %s: %w", path, err)
	}
	return ParseCorpus(data)
}
