package main

import (
	"fmt"
	"time"

	"github.com/jonathan/outreach-forge/internal/server"
	"github.com/spf13/cobra"
)

type serveOptions struct {
	port       int
	configFile string
	apiKey     string
	timeout    time.Duration
	useBrowser bool
	verbose    bool
}

func newServeCmd() *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long: `Start an HTTP server that exposes generation over REST and server-sent events.

Clients create a session with POST /sessions and send the returned bearer token on every other call.
SESSION_SECRET (at least 32 bytes) must be set.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServe(opts)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.port, "port", 8080, "Port to listen on")
	f.StringVarP(&opts.configFile, "config", "c", "", "Path to JSON config file")
	f.StringVar(&opts.apiKey, "api-key", "", "Gemini API key (defaults to GEMINI_API_KEY)")
	f.DurationVar(&opts.timeout, "timeout", 0, "Bound on each model call (default 60s)")
	f.BoolVar(&opts.useBrowser, "use-browser", false, "Render job pages in headless Chrome when static extraction finds too little text")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Log fetch details")
	return cmd
}

func runServe(opts *serveOptions) error {
	cfg, err := loadConfigFile(opts.configFile)
	if err != nil {
		return err
	}

	port := opts.port
	if cfg.Port != 0 && port == 8080 {
		port = cfg.Port
	}
	timeout := opts.timeout
	if timeout == 0 {
		timeout = time.Duration(cfg.Timeout)
	}

	apiKey := cfg.ResolveAPIKey(opts.apiKey)
	if apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	srv, err := server.New(server.Config{
		Port:       port,
		APIKey:     apiKey,
		Timeout:    timeout,
		UseBrowser: opts.useBrowser || cfg.UseBrowser,
		Verbose:    opts.verbose || cfg.Verbose,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
