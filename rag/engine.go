package rag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gamma-omg/rag-cite/docstore"
)

var (
	// ErrNoQuestion terminates the pipeline before any service call.
	ErrNoQuestion = errors.New("no question provided")

	// ErrNoResults means retrieval came back empty. The pipeline stops here
	// instead of sending an empty context to the generation service.
	ErrNoResults = errors.New("no results retrieved")
)

type Retriever interface {
	Search(ctx context.Context, query string) ([]docstore.SearchResult, error)
}

type Generator interface {
	Generate(ctx context.Context, system, user string) (string, error)
}

// Engine runs one query end to end: retrieve, build context, assemble the
// citation prompt, generate. Each stage gets a single attempt; a failing
// stage fails the whole query.
type Engine struct {
	Log          *slog.Logger
	Store        Retriever
	Gen          Generator
	SnippetChars int
}

// Answer carries the model's raw text together with the legend needed to
// resolve its citation numbers. The text is not post-validated against the
// legend.
type Answer struct {
	Text    string
	Context string
	Legend  []LegendEntry
}

func (e *Engine) Ask(ctx context.Context, question string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrNoQuestion
	}

	points, err := e.Store.Search(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}
	if len(points) == 0 {
		return nil, ErrNoResults
	}

	block, legend := BuildContext(points, e.SnippetChars)
	system, user := AssemblePrompt(question, block)

	e.Log.Info("generating answer", "points", len(points), "context_bytes", len(block))

	text, err := e.Gen.Generate(ctx, system, user)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	return &Answer{
		Text:    text,
		Context: block,
		Legend:  legend,
	}, nil
}
