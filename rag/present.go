package rag

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	scoreStyle  = lipgloss.NewStyle().Faint(true)
)

// Presenter renders an answer and its legend to a terminal. The answer text
// passes through unchanged; the legend below it lets a reader resolve each
// [n] to a source key and score.
type Presenter struct {
	Out     io.Writer
	Verbose bool
}

func (p *Presenter) Present(a *Answer) {
	if p.Verbose {
		fmt.Fprintln(p.Out, headerStyle.Render("--- Retrieved (ranked) ---"))
		for _, e := range a.Legend {
			fmt.Fprintf(p.Out, "[%d] %s  %s\n", e.Rank, scoreStyle.Render(fmt.Sprintf("score=%.4f", e.Score)), e.Key)
		}

		fmt.Fprintln(p.Out, headerStyle.Render("\n--- Sources sent to LLM ---"))
		fmt.Fprintln(p.Out, a.Context)
	}

	fmt.Fprintln(p.Out, headerStyle.Render("\n--- Answer ---"))
	fmt.Fprintln(p.Out, a.Text)

	fmt.Fprintln(p.Out, headerStyle.Render("\n--- Sources legend ---"))
	for _, e := range a.Legend {
		fmt.Fprintf(p.Out, "[%d] %s  %s\n", e.Rank, e.Key, scoreStyle.Render(fmt.Sprintf("(score=%.4f)", e.Score)))
	}
}
