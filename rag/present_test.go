package rag

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Present(t *testing.T) {
	a := &Answer{
		Text:    "The launch is in March [1].",
		Context: "[1] doc.txt#0: The launch is in March.",
		Legend: []LegendEntry{
			{Rank: 1, Key: "doc.txt#0", Score: 0.91, Preview: "The launch is in March."},
		},
	}

	var buf bytes.Buffer
	p := &Presenter{Out: &buf, Verbose: true}
	p.Present(a)

	out := buf.String()
	assert.Contains(t, out, "--- Retrieved (ranked) ---")
	assert.Contains(t, out, "--- Sources sent to LLM ---")
	assert.Contains(t, out, a.Context)
	assert.Contains(t, out, "--- Answer ---")
	assert.Contains(t, out, a.Text)
	assert.Contains(t, out, "--- Sources legend ---")
	assert.Contains(t, out, "doc.txt#0")

	// the answer has to come before the legend so citations read top-down
	assert.Less(t, strings.Index(out, a.Text), strings.Index(out, "--- Sources legend ---"))
}

func Test_Present_Quiet(t *testing.T) {
	a := &Answer{Text: "answer", Context: "[1] doc.txt#0: x", Legend: []LegendEntry{{Rank: 1, Key: "doc.txt#0"}}}

	var buf bytes.Buffer
	p := &Presenter{Out: &buf}
	p.Present(a)

	out := buf.String()
	assert.NotContains(t, out, "--- Retrieved (ranked) ---")
	assert.Contains(t, out, "--- Answer ---")
	assert.Contains(t, out, "--- Sources legend ---")
}
