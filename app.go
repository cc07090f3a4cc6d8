package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/amikos-tech/chroma-go/pkg/embeddings"
	gemini "github.com/amikos-tech/chroma-go/pkg/embeddings/gemini"
	openai "github.com/amikos-tech/chroma-go/pkg/embeddings/openai"
	"github.com/gamma-omg/rag-cite/docstore"
	"github.com/gamma-omg/rag-cite/llm"
	"github.com/gamma-omg/rag-cite/rag"
	"github.com/gamma-omg/rag-cite/readers"
)

// app holds the wired collaborators shared by the CLI commands. Built once
// from the config file, never mutated afterwards.
type app struct {
	cfg     *Config
	log     *slog.Logger
	store   *docstore.ChromaStore
	logFile *os.File
}

func createEmbeddingFunction(cfg *Config) (embeddings.EmbeddingFunction, error) {
	if cfg.OpenAI != nil {
		ef, err := openai.NewOpenAIEmbeddingFunction(
			cfg.OpenAI.ApiKey,
			openai.WithModel(openai.EmbeddingModel(cfg.OpenAI.Model)))
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI embedding function: %w", err)
		}

		return ef, nil
	}

	if cfg.Gemini != nil {
		ef, err := gemini.NewGeminiEmbeddingFunction(
			gemini.WithAPIKey(cfg.Gemini.ApiKey),
			gemini.WithDefaultModel(embeddings.EmbeddingModel(cfg.Gemini.Model)))
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini embedding function: %w", err)
		}

		return ef, nil
	}

	return nil, errors.New("invalid embeddings provider configuration")
}

func newApp(cfgPath string, reset bool) (*app, error) {
	cfg, err := readConfig(cfgPath)
	if err != nil {
		return nil, err
	}

	logFile, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(logFile, nil))

	ef, err := createEmbeddingFunction(cfg)
	if err != nil {
		logFile.Close()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := docstore.NewChromaStore(ctx, docstore.ChromaStoreConfig{
		BaseURL:       cfg.ChromaAddr,
		Collection:    cfg.Collection,
		EmbeddingFunc: ef,
		Results:       cfg.Results,
		RequestSize:   cfg.RequestSize,
		Reset:         reset,
	})
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("failed to initialize doc store: %w", err)
	}

	return &app{
		cfg:     cfg,
		log:     logger,
		store:   store,
		logFile: logFile,
	}, nil
}

func (a *app) Close() {
	if a.logFile != nil {
		a.logFile.Close()
	}
}

func (a *app) newRegistry() *DocRegistry {
	return &DocRegistry{
		log:              a.log,
		root:             a.cfg.DocRoot,
		mergeEventsDelay: time.Duration(a.cfg.MergeEventsMs) * time.Millisecond,
		store:            a.store,
		chunkifier:       NewRecursiveChunkifier(a.cfg.ChunkSize, a.cfg.ChunkOverlap),
		readers:          []FileReader{&readers.UniversalFileReader{}},
	}
}

func (a *app) newEngine() *rag.Engine {
	return &rag.Engine{
		Log:   a.log,
		Store: a.store,
		Gen: llm.NewOpenAIGenerator(llm.OpenAIConfig{
			BaseURL:     a.cfg.LLM.BaseURL,
			ApiKey:      a.cfg.LLM.ApiKey,
			Model:       a.cfg.LLM.Model,
			Temperature: a.cfg.LLM.Temperature,
		}),
		SnippetChars: a.cfg.SnippetChars,
	}
}
