package pgvector

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"legal-rag/internal/config"
	"legal-rag/internal/models"
)

// VectorDim must match the embedding model's output dimension.
const VectorDim = 768

// ChunkRow is one indexed chunk. Ordinal mirrors the chunk's insertion
// position so results map back the same way as the in-memory backend.
type ChunkRow struct {
	bun.BaseModel `bun:"table:legal_chunks,alias:lc"`
	ID            int64     `bun:"id,pk,autoincrement"`
	Ordinal       int       `bun:"ordinal,notnull"`
	Content       string    `bun:"content,notnull"`
	Source        string    `bun:"source,notnull"`
	Metadata      string    `bun:"metadata"`
	Embedding     []float32 `bun:"embedding,notnull,type:vector(768)"`
	Distance      float64   `bun:"distance,scanonly"`
}

func Connect(cfg *config.DatabaseConfig) (*sql.DB, error) {
	dsn := cfg.DSN + "?sslmode=disable"
	return sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn), pgdriver.WithPassword(cfg.Password))), nil
}

func NewDB(sqldb *sql.DB, debug bool) *bun.DB {
	db := bun.NewDB(sqldb, pgdialect.New())
	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db
}

// Store keeps chunk vectors in a pgvector-enabled Postgres table, ranked by
// the `<->` Euclidean distance operator.
type Store struct {
	db *bun.DB
}

func NewStore(db *bun.DB) *Store { return &Store{db: db} }

func (s *Store) Init(ctx context.Context) error {
	_, err := s.db.NewCreateTable().Model((*ChunkRow)(nil)).IfNotExists().Exec(ctx)
	return err
}

func (s *Store) Add(ctx context.Context, chunks []models.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("chunks and vectors length mismatch: %d vs %d", len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return nil
	}

	base, err := s.Count(ctx)
	if err != nil {
		return err
	}

	rows := make([]ChunkRow, 0, len(chunks))
	for i, chunk := range chunks {
		meta, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode chunk metadata: %w", err)
		}
		rows = append(rows, ChunkRow{
			Ordinal:   base + i,
			Content:   chunk.Text,
			Source:    chunk.Source,
			Metadata:  string(meta),
			Embedding: vectors[i],
		})
	}
	_, err = s.db.NewInsert().Model(&rows).Exec(ctx)
	return err
}

func (s *Store) Search(ctx context.Context, vector []float32, topK int) ([]models.RetrievedChunk, error) {
	if topK <= 0 {
		return nil, nil
	}

	var rows []ChunkRow
	lit := vectorLiteral(vector)
	err := s.db.NewSelect().
		Model(&rows).
		Column("ordinal", "content", "source", "metadata").
		ColumnExpr("embedding <-> ? AS distance", lit).
		OrderExpr("embedding <-> ?", lit).
		Limit(topK).
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	retrieved := make([]models.RetrievedChunk, 0, len(rows))
	for _, row := range rows {
		var meta models.ChunkMetadata
		if row.Metadata != "" {
			if err := json.Unmarshal([]byte(row.Metadata), &meta); err != nil {
				log.Warn().Int("ordinal", row.Ordinal).Err(err).Msg("Failed to decode chunk metadata")
			}
		}
		retrieved = append(retrieved, models.RetrievedChunk{
			Chunk: models.Chunk{
				Text:     row.Content,
				Source:   row.Source,
				Metadata: meta,
			},
			Distance: float32(row.Distance),
			Ordinal:  row.Ordinal,
		})
	}
	return retrieved, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	return s.db.NewSelect().Model((*ChunkRow)(nil)).Count(ctx)
}

func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.db.NewDropTable().Model((*ChunkRow)(nil)).IfExists().Exec(ctx); err != nil {
		return err
	}
	return s.Init(ctx)
}

// vectorLiteral renders the pgvector input syntax, e.g. [0.1,0.2].
func vectorLiteral(vector []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range vector {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
