package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jonathan/outreach-forge/internal/ingestion"
	"github.com/jonathan/outreach-forge/internal/outreach"
	"github.com/jonathan/outreach-forge/internal/tui"
	"github.com/jonathan/outreach-forge/internal/types"
	"github.com/spf13/cobra"
)

type tuiOptions struct {
	jobFile     string
	jobURL      string
	profileFile string
	tone        string
	configFile  string
	apiKey      string
	timeout     time.Duration
	useBrowser  bool
	allowLocal  bool
}

func newTUICmd() *cobra.Command {
	opts := &tuiOptions{}
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive terminal UI",
		Long:  "Open a terminal UI with editors for the job description and profile, a tone selector, and copy shortcuts for the generated email and follow-ups.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.jobFile, "job", "j", "", "Pre-fill the job description from a file")
	f.StringVarP(&opts.jobURL, "job-url", "u", "", "Pre-fill the job description from a posting URL")
	f.StringVarP(&opts.profileFile, "profile", "p", "", "Pre-fill the profile from a file")
	f.StringVarP(&opts.tone, "tone", "t", "", "Initial tone: professional, startup or edgy")
	f.StringVarP(&opts.configFile, "config", "c", "", "Path to JSON config file")
	f.StringVar(&opts.apiKey, "api-key", "", "Gemini API key (defaults to GEMINI_API_KEY)")
	f.DurationVar(&opts.timeout, "timeout", 0, "Bound on each model call (default 60s)")
	f.BoolVar(&opts.useBrowser, "use-browser", false, "Render the job page in headless Chrome when static extraction finds too little text")
	f.BoolVar(&opts.allowLocal, "allow-private-hosts", false, "Allow --job-url to reach loopback and private network addresses")
	cmd.MarkFlagsMutuallyExclusive("job", "job-url")
	return cmd
}

func runTUI(ctx context.Context, opts *tuiOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfigFile(opts.configFile)
	if err != nil {
		return err
	}

	initial, err := prefill(ctx, opts, cfg.Job, cfg.JobURL, cfg.Profile, cfg.Tone)
	if err != nil {
		return err
	}

	client, err := newLLMClient(ctx, cfg.ResolveAPIKey(opts.apiKey))
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}

	timeout := opts.timeout
	if timeout == 0 {
		timeout = time.Duration(cfg.Timeout)
	}
	var controllerOpts []outreach.Option
	if timeout > 0 {
		controllerOpts = append(controllerOpts, outreach.WithTimeout(timeout))
	}
	controller := outreach.NewController(client, controllerOpts...)
	defer func() { _ = controller.Close() }()

	app := tui.New(controller,
		tui.WithClipboard(clipboardWriter),
		tui.WithInitialRequest(initial),
	)
	return tui.Run(ctx, app)
}

// prefill loads any inputs named by flags, falling back to the config file values.
func prefill(ctx context.Context, opts *tuiOptions, cfgJob, cfgJobURL, cfgProfile, cfgTone string) (types.GenerationRequest, error) {
	var req types.GenerationRequest

	jobSrc := ingestion.Source{Path: opts.jobFile, URL: opts.jobURL}
	if jobSrc.Empty() {
		jobSrc = ingestion.Source{Path: cfgJob, URL: cfgJobURL}
	}
	if !jobSrc.Empty() {
		text, _, err := ingestion.Resolve(ctx, jobSrc, newURLLoader(opts.useBrowser, false, opts.allowLocal))
		if err != nil {
			return req, fmt.Errorf("failed to load job description: %w", err)
		}
		req.JobDescription = text
	}

	profilePath := opts.profileFile
	if profilePath == "" {
		profilePath = cfgProfile
	}
	if profilePath != "" {
		text, _, err := ingestion.ReadFile(profilePath)
		if err != nil {
			return req, fmt.Errorf("failed to load profile: %w", err)
		}
		req.Profile = text
	}

	toneValue := opts.tone
	if toneValue == "" {
		toneValue = cfgTone
	}
	tone, err := types.ParseTone(toneValue)
	if err != nil {
		return req, err
	}
	req.Tone = tone
	return req, nil
}
