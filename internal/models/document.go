package models

// DocumentMetadata holds the provenance fields scanned out of a decision's
// pages. CaseInfo and Relator keep whatever shape the source JSON had.
type DocumentMetadata struct {
	FileName string `json:"fileName"`
	CaseInfo any    `json:"case_info,omitempty"`
	Relator  any    `json:"relator,omitempty"`
}

// SourceDocument is one ingested legal decision.
type SourceDocument struct {
	// Source is the unique identifier, derived from the original file name.
	Source string
	// FullText is the flattened text used for chunking and embedding only.
	FullText string
	// Ementa is the headnote summary shown to the user. When extraction
	// fails it carries the EmentaNotFound sentinel.
	Ementa   string
	Metadata DocumentMetadata
}

// ChunkMetadata is a snapshot of the owning document taken at chunking time.
// It is a copy, not a reference: reloading the document list must not
// invalidate chunks already built.
type ChunkMetadata struct {
	SourceDocument string           `json:"source_document"`
	Ementa         string           `json:"ementa"`
	DocMetadata    DocumentMetadata `json:"doc_metadata"`
}

// Chunk is a contiguous word window of one document's full text.
// Chunks are immutable once created; the whole set is rebuilt on re-ingestion.
type Chunk struct {
	Text     string
	Source   string
	Metadata ChunkMetadata
}

// RetrievedChunk is a chunk returned from a nearest-neighbor search.
type RetrievedChunk struct {
	Chunk
	// Distance to the query vector, smaller is more similar.
	Distance float32
	// Ordinal is the chunk's insertion position in the index.
	Ordinal int
}

// Answer is the caller-facing result of a query.
type Answer struct {
	Text         string
	CitedSources []string
}
