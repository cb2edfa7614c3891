package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"legal-rag/internal/chunker"
	"legal-rag/internal/config"
	"legal-rag/internal/embedding"
	"legal-rag/internal/extractor"
	"legal-rag/internal/helper"
	"legal-rag/internal/llmservice"
	"legal-rag/internal/models"
	"legal-rag/internal/parser"
	"legal-rag/internal/rag"
	"legal-rag/internal/vectorstore"
	"legal-rag/internal/vectorstore/chromemdb"
	"legal-rag/internal/vectorstore/flat"
	"legal-rag/internal/vectorstore/pgvector"
)

const configFilePath = "./configs/config.yaml"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).With().Caller().Logger()

	configPath := flag.String("config", configFilePath, "Path to the YAML config file")
	corpusPath := flag.String("corpus", "", "Path to the corpus JSON (array of paginated decisions)")
	reformatted := flag.Bool("reformatted", false, "Treat the corpus file as the headnote-only shape")
	filePath := flag.String("file", "", "Path to a single decision file (PDF, DOCX or TXT)")
	query := flag.String("query", "", "Question to be answered")
	topK := flag.Int("top-k", 0, "Number of chunks to retrieve (overrides config)")
	dryRun := flag.Bool("dry-run", false, "Extract and chunk only, do not embed or store")
	flag.Parse()

	if *corpusPath == "" && *filePath == "" && *query == "" {
		log.Fatal().Msg("Please provide a corpus using -corpus, a file using -file, or a question using -query")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	if *topK > 0 {
		cfg.RAG.TopK = *topK
	}
	if cfg.RAG.ChunkSize == 0 {
		cfg.RAG.ChunkSize = chunker.DefaultWindowSize
	}
	if cfg.RAG.ChunkOverlap == 0 {
		cfg.RAG.ChunkOverlap = chunker.DefaultOverlap
	}

	ctx := context.Background()

	docs, err := loadDocuments(*corpusPath, *filePath, *reformatted)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading documents")
	}

	if *dryRun {
		dryRunIngestion(docs, cfg)
		return
	}

	store, err := newStore(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating vector store")
	}

	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	pipeline := rag.NewPipeline(store, embedder, llmservice.NewClient(&cfg.GenLLM), cfg.RAG.TopK)

	if len(docs) == 0 {
		importIfConfigured(ctx, store, cfg)
	}

	if len(docs) > 0 {
		chunks, err := pipeline.Ingest(ctx, docs, cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
		if err != nil {
			log.Fatal().Err(err).Msg("Error building index")
		}
		log.Info().Int("documents", len(docs)).Int("chunks", len(chunks)).Msg("Corpus indexed")
		exportIfConfigured(ctx, store, cfg)
	}

	if *query != "" {
		answer, err := pipeline.Answer(ctx, *query)
		if err != nil {
			log.Fatal().Err(err).Msg("Error answering query")
		}
		printAnswer(*query, answer)
	}
}

// loadDocuments resolves whichever ingestion source was requested.
func loadDocuments(corpusPath, filePath string, reformatted bool) ([]models.SourceDocument, error) {
	var docs []models.SourceDocument
	if corpusPath != "" {
		var err error
		if reformatted {
			docs, err = extractor.LoadReformatted(corpusPath)
		} else {
			docs, err = extractor.LoadCorpus(corpusPath)
		}
		if err != nil {
			return nil, err
		}
	}
	if filePath != "" {
		doc, err := parser.ParseFile(filePath)
		if err != nil {
			return nil, err
		}
		if doc.FullText == "" {
			log.Warn().Str("source", doc.Source).Msg("File has no extractable text, dropping")
		} else {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

func newStore(cfg *config.Config) (vectorstore.Store, error) {
	switch cfg.Store.Backend {
	case "chromem":
		if !cfg.Store.InMemory {
			if err := helper.CreateFolder(cfg.Store.Path); err != nil {
				return nil, err
			}
		}
		return chromemdb.New(&cfg.Store, cfg.RAG.EncryptionKey)
	case "pgvector":
		sqldb, err := pgvector.Connect(&cfg.Database)
		if err != nil {
			return nil, err
		}
		store := pgvector.NewStore(pgvector.NewDB(sqldb, cfg.Database.Debug))
		if err := store.Init(context.Background()); err != nil {
			return nil, err
		}
		return store, nil
	case "flat", "":
		return flat.New(), nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.Store.Backend)
	}
}

func dryRunIngestion(docs []models.SourceDocument, cfg *config.Config) {
	chunks, err := rag.ProcessDocuments(docs, cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	if err != nil {
		log.Fatal().Err(err).Msg("Error chunking documents")
	}
	log.Info().Int("documents", len(docs)).Int("chunks", len(chunks)).Msg("Dry run complete")
	helper.PrettyPrint(chunks)
}

// exportIfConfigured snapshots an in-memory chromem collection to disk so a
// later process can import it instead of re-embedding the corpus.
func exportIfConfigured(ctx context.Context, store vectorstore.Store, cfg *config.Config) {
	if cfg.Store.Backend != "chromem" || !cfg.Store.InMemory || cfg.RAG.EncryptionKey == "" {
		return
	}
	cs, ok := store.(*chromemdb.Store)
	if !ok {
		return
	}
	if err := cs.Export(ctx); err != nil {
		log.Error().Err(err).Msg("Error exporting collection")
	}
}

// importIfConfigured restores an exported snapshot for query-only runs on
// an in-memory chromem store.
func importIfConfigured(ctx context.Context, store vectorstore.Store, cfg *config.Config) {
	if cfg.Store.Backend != "chromem" || !cfg.Store.InMemory || cfg.RAG.EncryptionKey == "" {
		return
	}
	cs, ok := store.(*chromemdb.Store)
	if !ok {
		return
	}
	if err := cs.Import(ctx); err != nil {
		log.Warn().Err(err).Msg("No exported collection to import")
	}
}

func printAnswer(query string, answer models.Answer) {
	log.Info().Msg("Query: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", query)

	log.Info().Msg("Sources: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	for _, source := range answer.CitedSources {
		fmt.Printf("%s\n", source)
	}
	fmt.Println()

	log.Info().Msg("Assistant: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", answer.Text)
}
