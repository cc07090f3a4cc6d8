package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gamma-omg/rag-cite/rag"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	var reset bool

	root := &cobra.Command{
		Use:           "rag-cite",
		Short:         "Index documents and answer questions from them with per-sentence citations",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "cfg/config.yaml", "Configuration file")
	root.PersistentFlags().BoolVar(&reset, "reset", false, "Recreate the collection from scratch")

	root.AddCommand(
		newIngestCmd(&cfgPath, &reset),
		newAskCmd(&cfgPath, &reset),
		newServeCmd(&cfgPath, &reset),
	)

	return root
}

func newIngestCmd(cfgPath *string, reset *bool) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Sync the document root into the vector index",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*cfgPath, *reset)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if err := a.newRegistry().Sync(ctx); err != nil {
				return err
			}
			fmt.Println("Sync complete.")

			if watch {
				fmt.Println("Watching for changes, Ctrl-C to stop.")
				return a.newRegistry().Watch(ctx)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "Keep watching the document root and re-sync on changes")
	return cmd
}

func newAskCmd(cfgPath *string, reset *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "ask [question]",
		Short: "Answer a question from the indexed documents, with citations",
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.Join(args, " ")
			if strings.TrimSpace(question) == "" {
				fmt.Print("Question: ")
				scanner := bufio.NewScanner(os.Stdin)
				if scanner.Scan() {
					question = scanner.Text()
				}
			}

			if strings.TrimSpace(question) == "" {
				fmt.Println("No question provided.")
				return nil
			}

			a, err := newApp(*cfgPath, *reset)
			if err != nil {
				return err
			}
			defer a.Close()

			answer, err := a.newEngine().Ask(cmd.Context(), question)
			if errors.Is(err, rag.ErrNoResults) {
				fmt.Println("No results retrieved.")
				return nil
			}
			if err != nil {
				return err
			}

			p := &rag.Presenter{Out: os.Stdout, Verbose: true}
			p.Present(answer)
			return nil
		},
	}
}

func newServeCmd(cfgPath *string, reset *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve search and ask as MCP tools over SSE, keeping the index in sync",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*cfgPath, *reset)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			go func() {
				reg := a.newRegistry()
				if err := reg.Sync(ctx); err != nil {
					a.log.Error("initial sync failed", "error", err)
					return
				}

				if err := reg.Watch(ctx); err != nil {
					a.log.Error("watch stopped", "error", err)
				}
			}()

			srv := NewRagServer(a.store, a.newEngine(), a.log)
			sse := server.NewSSEServer(srv, server.WithBaseURL(fmt.Sprintf("http://%s", a.cfg.ServerAddr)))
			return sse.Start(a.cfg.ServerAddr)
		},
	}
}
