package docstore

import (
	"context"
	"fmt"

	chroma "github.com/amikos-tech/chroma-go/pkg/api/v2"
	"github.com/amikos-tech/chroma-go/pkg/embeddings"
)

const (
	SourceName = "source"
	ChunkIndex = "chunk_index"
	DocCrc     = "doc_crc"
)

type ChromaStoreConfig struct {
	BaseURL       string
	Collection    string
	EmbeddingFunc embeddings.EmbeddingFunction
	Results       int
	RequestSize   int
	Reset         bool
}

// ChromaStore indexes document chunks in a Chroma collection. Embedding
// happens through the collection's embedding function, both on ingestion and
// on query.
type ChromaStore struct {
	results     int
	requestSize int
	col         chroma.Collection
}

func NewChromaStore(ctx context.Context, cfg ChromaStoreConfig) (*ChromaStore, error) {
	client, err := chroma.NewHTTPClient(chroma.WithBaseURL(cfg.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to create Chroma client: %w", err)
	}

	if cfg.Reset {
		err = client.DeleteCollection(ctx, cfg.Collection)
		if err != nil {
			return nil, fmt.Errorf("failed to reset collection %s: %w", cfg.Collection, err)
		}
	}

	// cosine space, so the 1 - distance score surfaced by Search is a
	// cosine similarity (Chroma would default to l2)
	col, err := client.GetOrCreateCollection(ctx, cfg.Collection,
		chroma.WithEmbeddingFunctionCreate(cfg.EmbeddingFunc),
		chroma.WithHNSWSpaceCreate(embeddings.COSINE))
	if err != nil {
		return nil, fmt.Errorf("failed to open collection %s: %w", cfg.Collection, err)
	}

	return &ChromaStore{
		results:     cfg.Results,
		requestSize: cfg.RequestSize,
		col:         col,
	}, nil
}

// Ingest upserts every chunk of doc under its stable id. Requests are split
// into buckets of at most requestSize characters.
func (ds *ChromaStore) Ingest(ctx context.Context, doc Doc) error {
	for _, b := range buckets(doc.Chunks, ds.requestSize) {
		ids := make([]chroma.DocumentID, 0, b.end-b.start)
		metas := make([]chroma.DocumentMetadata, 0, b.end-b.start)
		for i := b.start; i < b.end; i++ {
			ids = append(ids, chroma.DocumentID(PointID(doc.Source, i)))
			metas = append(metas, chroma.NewDocumentMetadata(
				chroma.NewStringAttribute(SourceName, doc.Source),
				chroma.NewIntAttribute(ChunkIndex, int64(i)),
				chroma.NewIntAttribute(DocCrc, int64(doc.Crc)),
			))
		}

		err := ds.col.Upsert(ctx,
			chroma.WithIDs(ids...),
			chroma.WithTexts(doc.Chunks[b.start:b.end]...),
			chroma.WithMetadatas(metas...),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert chunks %d..%d of %s: %w", b.start, b.end-1, doc.Source, err)
		}
	}

	return nil
}

// Search embeds the query and returns the nearest chunks, best first.
// The collection lives in cosine space, so the surfaced score is the cosine
// similarity 1 - distance; higher means more similar.
func (ds *ChromaStore) Search(ctx context.Context, query string) ([]SearchResult, error) {
	r, err := ds.col.Query(ctx,
		chroma.WithQueryTexts(query),
		chroma.WithNResults(ds.results),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query collection: %w", err)
	}

	if len(r.GetDocumentsGroups()) == 0 {
		return []SearchResult{}, nil
	}

	docs := r.GetDocumentsGroups()[0]
	metas := r.GetMetadatasGroups()[0]
	dists := r.GetDistancesGroups()[0]

	res := make([]SearchResult, 0, len(docs))
	for i := range docs {
		source, _ := metas[i].GetString(SourceName)
		idx := -1
		if v, ok := metas[i].GetInt(ChunkIndex); ok {
			idx = int(v)
		}

		res = append(res, SearchResult{
			Source:     source,
			ChunkIndex: idx,
			Text:       docs[i].ContentString(),
			Score:      1 - float32(dists[i]),
		})
	}

	return res, nil
}

// Forget removes every point of the given source.
func (ds *ChromaStore) Forget(ctx context.Context, doc IngestedDoc) error {
	err := ds.col.Delete(ctx, chroma.WithWhereDelete(chroma.EqString(SourceName, doc.Source)))
	if err != nil {
		return fmt.Errorf("failed to forget doc %s: %w", doc.Source, err)
	}

	return nil
}

// GetIngested lists the distinct (source, crc) pairs present in the
// collection.
func (ds *ChromaStore) GetIngested(ctx context.Context) ([]IngestedDoc, error) {
	res, err := ds.col.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list collection: %w", err)
	}

	var docs []IngestedDoc
	seen := make(map[IngestedDoc]struct{})
	for _, meta := range res.GetMetadatas() {
		source, _ := meta.GetString(SourceName)
		crc, _ := meta.GetInt(DocCrc)
		doc := IngestedDoc{
			Source: source,
			Crc:    uint32(crc),
		}

		if _, ok := seen[doc]; ok {
			continue
		}

		seen[doc] = struct{}{}
		docs = append(docs, doc)
	}

	return docs, nil
}

type bucket struct {
	start, end int
}

// buckets groups consecutive chunks so each request stays under budget
// characters. A single oversized chunk still goes out alone.
func buckets(chunks []string, budget int) []bucket {
	if len(chunks) == 0 {
		return nil
	}

	if budget <= 0 {
		return []bucket{{start: 0, end: len(chunks)}}
	}

	var res []bucket
	cur := bucket{}
	size := 0
	for i, c := range chunks {
		if i > cur.start && size+len(c) > budget {
			cur.end = i
			res = append(res, cur)
			cur = bucket{start: i}
			size = 0
		}

		size += len(c)
	}

	cur.end = len(chunks)
	return append(res, cur)
}
