package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gamma-omg/rag-cite/docstore"
	"github.com/gamma-omg/rag-cite/rag"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type docSearcher interface {
	Search(ctx context.Context, query string) ([]docstore.SearchResult, error)
}

type answerer interface {
	Ask(ctx context.Context, question string) (*rag.Answer, error)
}

// NewRagServer exposes the pipeline over MCP: "search" returns ranked chunks,
// "ask" returns a grounded answer plus the citation legend.
func NewRagServer(store docSearcher, eng answerer, log *slog.Logger) *server.MCPServer {
	srv := server.NewMCPServer("rag-cite", "0.1.0", server.WithToolCapabilities(false))

	searchTool := mcp.NewTool("search",
		mcp.WithDescription("Search indexed documents and return the top ranked chunks"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search query"),
		))

	srv.AddTool(searchTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		q, err := request.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		res, err := store.Search(ctx, q)
		if err != nil {
			log.Error("search failed", "error", err)
			return mcp.NewToolResultError(err.Error()), nil
		}

		var response string
		for i, r := range res {
			raw, err := json.Marshal(struct {
				Rank  int     `json:"rank"`
				Key   string  `json:"key"`
				Score float32 `json:"score"`
				Text  string  `json:"text"`
			}{
				Rank:  i + 1,
				Key:   fmt.Sprintf("%s#%d", r.Source, r.ChunkIndex),
				Score: r.Score,
				Text:  r.Text,
			})
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			response += fmt.Sprintf("%s\n", string(raw))
		}

		return mcp.NewToolResultText(response), nil
	})

	askTool := mcp.NewTool("ask",
		mcp.WithDescription("Answer a question strictly from indexed documents, with bracketed citations and a source legend"),
		mcp.WithString("question",
			mcp.Required(),
			mcp.Description("Question to answer"),
		))

	srv.AddTool(askTool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		q, err := request.RequireString("question")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		a, err := eng.Ask(ctx, q)
		if errors.Is(err, rag.ErrNoResults) {
			return mcp.NewToolResultText("No results retrieved."), nil
		}
		if err != nil {
			log.Error("ask failed", "error", err)
			return mcp.NewToolResultError(err.Error()), nil
		}

		raw, err := json.Marshal(struct {
			Answer string            `json:"answer"`
			Legend []rag.LegendEntry `json:"legend"`
		}{
			Answer: a.Text,
			Legend: a.Legend,
		})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		return mcp.NewToolResultText(string(raw)), nil
	})

	return srv
}
