package docstore

import (
	"fmt"

	"github.com/google/uuid"
)

// Doc is a source document split into chunks, ready for indexing.
type Doc struct {
	Source string
	Crc    uint32
	Chunks []string
}

// SearchResult is one retrieved chunk. ChunkIndex is -1 when the stored
// point carries no position metadata.
type SearchResult struct {
	Source     string
	ChunkIndex int
	Text       string
	Score      float32
}

type IngestedDoc struct {
	Source string
	Crc    uint32
}

// PointID derives a stable point identifier from a source name and chunk
// position. Re-ingesting an unchanged source yields the same ids, so upserts
// replace points instead of duplicating them, and ids never collide across
// sources sharing one collection.
func PointID(source string, index int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, fmt.Appendf(nil, "rag-cite://%s#%d", source, index)).String()
}
