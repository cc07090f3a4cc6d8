// Package rag builds the citation context for retrieved chunks and runs the
// retrieve-then-generate query pipeline.
package rag

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gamma-omg/rag-cite/docstore"
)

// LegendEntry maps one citation rank back to its source chunk, so a
// bracketed [n] in the generated answer stays resolvable after the fact.
type LegendEntry struct {
	Rank    int
	Key     string
	Score   float32
	Preview string
}

// BuildContext renders retrieved points, already in rank order, into a
// numbered evidence block and a legend with matching ranks. Previews are
// flattened to one line and cut to snippetChars with an ellipsis; the stored
// chunk itself is never touched.
func BuildContext(points []docstore.SearchResult, snippetChars int) (string, []LegendEntry) {
	lines := make([]string, 0, len(points))
	legend := make([]LegendEntry, 0, len(points))

	for i, p := range points {
		key := pointKey(p)
		preview := strings.ReplaceAll(p.Text, "\n", " ")
		if len(preview) > snippetChars {
			// back off to a rune start so the cut never leaves a broken
			// multibyte character before the ellipsis
			cut := snippetChars
			for cut > 0 && !utf8.RuneStart(preview[cut]) {
				cut--
			}
			preview = strings.TrimRight(preview[:cut], " \t") + "…"
		}

		lines = append(lines, fmt.Sprintf("[%d] %s: %s", i+1, key, preview))
		legend = append(legend, LegendEntry{
			Rank:    i + 1,
			Key:     key,
			Score:   p.Score,
			Preview: preview,
		})
	}

	return strings.Join(lines, "\n"), legend
}

func pointKey(p docstore.SearchResult) string {
	source := p.Source
	if source == "" {
		source = "?"
	}

	index := "?"
	if p.ChunkIndex >= 0 {
		index = strconv.Itoa(p.ChunkIndex)
	}

	return source + "#" + index
}
