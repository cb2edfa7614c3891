package extractor

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"legal-rag/internal/models"
)

// reformattedRecord is the simpler, pre-reformatted corpus shape: one
// headnote per record, no pages.
type reformattedRecord struct {
	Source string `json:"source"`
	Ementa string `json:"ementa"`
}

// ParseReformatted ingests the headnote-only corpus shape. It is an adapter
// over the same SourceDocument model, not a second pipeline: the headnote
// doubles as the full text, so chunking, indexing and retrieval behave
// exactly as for the paginated shape.
func ParseReformatted(data []byte) ([]models.SourceDocument, error) {
	var records []reformattedRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadCorpusFormat, err)
	}

	var docs []models.SourceDocument
	for i, rec := range records {
		if rec.Source == "" || rec.Ementa == "" {
			log.Warn().Int("item", i).Msg("Reformatted record missing source/ementa, skipping")
			continue
		}
		docs = append(docs, models.SourceDocument{
			Source:   rec.Source,
			FullText: rec.Ementa,
			Ementa:   rec.Ementa,
			Metadata: models.DocumentMetadata{FileName: rec.Source},
		})
	}

	log.Info().Int("documents", len(docs)).Msg("Reformatted corpus loaded")
	return docs, nil
}

// LoadReformatted reads and parses a headnote-only corpus file.
func LoadReformatted(path string) ([]models.SourceDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus file %s: %w", path, err)
	}
	return ParseReformatted(data)
}
