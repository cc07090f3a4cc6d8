package rag

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/gamma-omg/rag-cite/docstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_BuildContext(t *testing.T) {
	points := []docstore.SearchResult{
		{Source: "press-release.txt", ChunkIndex: 0, Text: "NASA announced a new mission.", Score: 0.91},
		{Source: "interview.txt", ChunkIndex: 4, Text: "The crew trained for two years.", Score: 0.77},
	}

	block, legend := BuildContext(points, 1000)

	assert.Equal(t,
		"[1] press-release.txt#0: NASA announced a new mission.\n"+
			"[2] interview.txt#4: The crew trained for two years.",
		block)

	require.Len(t, legend, 2)
	assert.Equal(t, LegendEntry{Rank: 1, Key: "press-release.txt#0", Score: 0.91, Preview: "NASA announced a new mission."}, legend[0])
	assert.Equal(t, LegendEntry{Rank: 2, Key: "interview.txt#4", Score: 0.77, Preview: "The crew trained for two years."}, legend[1])
}

func Test_BuildContext_RanksMatchLegend(t *testing.T) {
	points := make([]docstore.SearchResult, 5)
	for i := range points {
		points[i] = docstore.SearchResult{Source: "doc.txt", ChunkIndex: i, Text: "text"}
	}

	block, legend := BuildContext(points, 100)
	lines := strings.Split(block, "\n")
	require.Len(t, lines, len(legend))

	for i, line := range lines {
		assert.Equal(t, i+1, legend[i].Rank)
		assert.True(t, strings.HasPrefix(line, "["), "line %d has no rank prefix", i)
		assert.Contains(t, line, legend[i].Key)
	}
}

func Test_BuildContext_TruncatesPreview(t *testing.T) {
	points := []docstore.SearchResult{
		{Source: "doc.txt", ChunkIndex: 0, Text: "abcdefghijklmnopqrst"},
	}

	_, legend := BuildContext(points, 10)
	require.Len(t, legend, 1)
	assert.Equal(t, "abcdefghij…", legend[0].Preview)
}

func Test_BuildContext_StripsTrailingSpaceBeforeEllipsis(t *testing.T) {
	points := []docstore.SearchResult{
		{Source: "doc.txt", ChunkIndex: 0, Text: "abcdefghi jklmnopqrst"},
	}

	_, legend := BuildContext(points, 10)
	assert.Equal(t, "abcdefghi…", legend[0].Preview)
}

func Test_BuildContext_TruncatesOnRuneBoundary(t *testing.T) {
	// "日" occupies bytes 9..11, straddling the 10-byte budget
	points := []docstore.SearchResult{
		{Source: "doc.txt", ChunkIndex: 0, Text: "abcdefghi日本語のテキスト"},
	}

	_, legend := BuildContext(points, 10)
	require.Len(t, legend, 1)
	assert.Equal(t, "abcdefghi…", legend[0].Preview)
	assert.True(t, utf8.ValidString(legend[0].Preview))
}

func Test_BuildContext_FlattensNewlines(t *testing.T) {
	points := []docstore.SearchResult{
		{Source: "doc.txt", ChunkIndex: 0, Text: "line one\nline two\nline three"},
	}

	block, legend := BuildContext(points, 1000)
	assert.Equal(t, "[1] doc.txt#0: line one line two line three", block)
	assert.NotContains(t, legend[0].Preview, "\n")
}

func Test_BuildContext_MissingMetadata(t *testing.T) {
	points := []docstore.SearchResult{
		{Source: "", ChunkIndex: -1, Text: "orphan chunk"},
	}

	block, legend := BuildContext(points, 1000)
	assert.Equal(t, "[1] ?#?: orphan chunk", block)
	assert.Equal(t, "?#?", legend[0].Key)
}

func Test_BuildContext_Empty(t *testing.T) {
	block, legend := BuildContext(nil, 1000)
	assert.Equal(t, "", block)
	assert.Empty(t, legend)
}
