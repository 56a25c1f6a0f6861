package models

// Metadata keys stored alongside every chunk in the vector store.
const (
	MetaSource = "source"
	MetaPage   = "page"
	MetaChunk  = "chunk"
)

// Page is the raw text of one page (or sheet, slide, file) of a source document.
type Page struct {
	Source     string
	PageNumber int
	Text       string
}

// Chunk represents a split piece of a source page.
type Chunk struct {
	Content        string
	SourceFilename string
	PageNumber     int
	ChunkID        int
}

// ChunkEmbedding is a Chunk paired with its embedding vector, ready to persist.
type ChunkEmbedding struct {
	Chunk
	Embedding []float32
}

// ScoredChunk is a retrieved chunk with its cosine similarity to the query.
type ScoredChunk struct {
	Chunk
	Similarity float32
}
