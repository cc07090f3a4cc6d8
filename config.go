package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type ProviderConfig struct {
	Model  string `yaml:"model"`
	ApiKey string `yaml:"api_key"`
}

type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	ApiKey      string  `yaml:"api_key"`
	Temperature float64 `yaml:"temperature"`
}

type Config struct {
	LogFile       string          `yaml:"log"`
	DocRoot       string          `yaml:"doc_root"`
	ChromaAddr    string          `yaml:"chroma_addr"`
	Collection    string          `yaml:"collection"`
	MergeEventsMs int             `yaml:"write_debounce_ms"`
	ChunkSize     int             `yaml:"chunk_size"`
	ChunkOverlap  int             `yaml:"chunk_overlap"`
	RequestSize   int             `yaml:"request_size"`
	Results       int             `yaml:"results"`
	SnippetChars  int             `yaml:"snippet_chars"`
	ServerAddr    string          `yaml:"server_addr"`
	OpenAI        *ProviderConfig `yaml:"open_ai"`
	Gemini        *ProviderConfig `yaml:"gemini"`
	LLM           LLMConfig       `yaml:"llm"`
}

func readConfig(cfgPath string) (*Config, error) {
	cfgFile, err := os.Open(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("unable to open config file: %w", err)
	}
	defer cfgFile.Close()

	cfg := &Config{
		LogFile:       "rag-cite.log",
		ChromaAddr:    "http://localhost:8000",
		Collection:    "rag_docs",
		MergeEventsMs: 500,
		ChunkSize:     3000,
		ChunkOverlap:  400,
		RequestSize:   16000,
		Results:       3,
		SnippetChars:  1000,
		ServerAddr:    "localhost:8081",
		LLM: LLMConfig{
			Temperature: 0.2,
		},
	}

	dec := yaml.NewDecoder(cfgFile)
	err = dec.Decode(cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to parse config file: %w", err)
	}

	return cfg, nil
}
