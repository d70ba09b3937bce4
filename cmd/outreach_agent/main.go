// Package main provides the outreach_agent command line: one-shot generation, the HTTP API and the terminal UI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/outreach-forge/internal/clipboard"
	"github.com/jonathan/outreach-forge/internal/config"
	"github.com/jonathan/outreach-forge/internal/ingestion"
	"github.com/jonathan/outreach-forge/internal/llm"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// Swapped in tests.
var (
	newLLMClient = func(ctx context.Context, apiKey string) (llm.Client, error) {
		return llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
	}
	clipboardWriter clipboard.Writer = clipboard.SystemWriter{}
	copyDelay                        = clipboard.DefaultDelay
	isInteractive                    = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "outreach_agent",
		Short:         "Cold outreach email generator",
		Long:          "outreach_agent turns a job description and a candidate profile into a cold email, a strategy note and two follow-ups, written by Gemini in the tone you pick.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newGenerateCmd(), newServeCmd(), newTUICmd())
	return root
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newURLLoader refuses non-public hosts unless allowLocal is set.
func newURLLoader(useBrowser, verbose, allowLocal bool) *ingestion.URLLoader {
	if allowLocal {
		return ingestion.NewLocalURLLoader(useBrowser, verbose)
	}
	return ingestion.NewURLLoader(useBrowser, verbose)
}

// loadConfigFile reads and validates an optional --config file. An empty path yields an empty Config.
func loadConfigFile(path string) (*config.Config, error) {
	if path == "" {
		return &config.Config{}, nil
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
