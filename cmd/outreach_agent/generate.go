package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/jonathan/outreach-forge/internal/clipboard"
	"github.com/jonathan/outreach-forge/internal/config"
	"github.com/jonathan/outreach-forge/internal/ingestion"
	"github.com/jonathan/outreach-forge/internal/observability"
	"github.com/jonathan/outreach-forge/internal/outreach"
	"github.com/jonathan/outreach-forge/internal/types"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type generateOptions struct {
	jobText     string
	jobFile     string
	jobURL      string
	profileText string
	profileFile string
	tone        string
	useBrowser  bool
	allowLocal  bool
	jsonOut     bool
	copy        bool
	verbose     bool
	configFile  string
	apiKey      string
	timeout     time.Duration
}

func newGenerateCmd() *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a cold email and follow-ups",
		Long: `Generate a cold email, strategy note and two follow-ups from a job description and a profile.

The job description can be inline (--job-text), a file (--job, "-" for stdin) or a posting URL (--job-url).
The profile can be inline (--profile-text) or a file (--profile).`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.jobText, "job-text", "", "Job description text")
	f.StringVarP(&opts.jobFile, "job", "j", "", "Path to job description file")
	f.StringVarP(&opts.jobURL, "job-url", "u", "", "URL of the job posting")
	f.StringVar(&opts.profileText, "profile-text", "", "Profile text")
	f.StringVarP(&opts.profileFile, "profile", "p", "", "Path to profile file")
	f.StringVarP(&opts.tone, "tone", "t", "", "Tone: professional, startup or edgy (prompted on a terminal when omitted)")
	f.BoolVar(&opts.useBrowser, "use-browser", false, "Render the job page in headless Chrome when static extraction finds too little text")
	f.BoolVar(&opts.allowLocal, "allow-private-hosts", false, "Allow --job-url to reach loopback and private network addresses")
	f.BoolVar(&opts.jsonOut, "json", false, "Print the final state as JSON")
	f.BoolVar(&opts.copy, "copy", false, "Copy the subject and email to the clipboard")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Print input summaries and generation logs")
	f.StringVarP(&opts.configFile, "config", "c", "", "Path to JSON config file")
	f.StringVar(&opts.apiKey, "api-key", "", "Gemini API key (defaults to GEMINI_API_KEY)")
	f.DurationVar(&opts.timeout, "timeout", 0, "Bound on the model call (default 60s)")

	cmd.MarkFlagsMutuallyExclusive("job-text", "job", "job-url")
	cmd.MarkFlagsMutuallyExclusive("profile-text", "profile")
	return cmd
}

// merge fills options left unset on the command line from the config file.
// An input given on the command line in any form replaces the file's source for it.
func (o *generateOptions) merge(cfg *config.Config) {
	fromFlags := config.Config{
		Job:     o.jobFile,
		JobURL:  o.jobURL,
		Profile: o.profileFile,
		Tone:    o.tone,
		APIKey:  o.apiKey,
		Timeout: config.Duration(o.timeout),
	}
	defaults := *cfg
	if o.jobText != "" || o.jobFile != "" || o.jobURL != "" {
		defaults.Job, defaults.JobURL = "", ""
	}
	if o.profileText != "" {
		defaults.Profile = ""
	}
	merged := fromFlags.MergeWithDefaults(defaults)

	o.jobFile = merged.Job
	o.jobURL = merged.JobURL
	o.profileFile = merged.Profile
	o.tone = merged.Tone
	o.apiKey = merged.APIKey
	o.timeout = time.Duration(merged.Timeout)
	o.useBrowser = o.useBrowser || cfg.UseBrowser
	o.verbose = o.verbose || cfg.Verbose
}

func runGenerate(ctx context.Context, out, errOut io.Writer, opts *generateOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfigFile(opts.configFile)
	if err != nil {
		return err
	}
	opts.merge(cfg)

	jobSrc := ingestion.Source{Text: opts.jobText, Path: opts.jobFile, URL: opts.jobURL}
	profileSrc := ingestion.Source{Text: opts.profileText, Path: opts.profileFile}
	if jobSrc.Empty() {
		return fmt.Errorf("a job description is required: use --job-text, --job or --job-url")
	}
	if profileSrc.Empty() {
		return fmt.Errorf("a profile is required: use --profile-text or --profile")
	}

	printer := observability.NewPrinter(errOut)
	loader := newURLLoader(opts.useBrowser, opts.verbose, opts.allowLocal)

	var (
		jobText, profileText string
		jobMeta, profileMeta *ingestion.Metadata
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		jobText, jobMeta, err = ingestion.Resolve(gctx, jobSrc, loader)
		if err != nil {
			return fmt.Errorf("failed to load job description: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		profileText, profileMeta, err = ingestion.Resolve(gctx, profileSrc, nil)
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	if opts.verbose {
		printer.PrintInput("job description", jobMeta)
		printer.PrintInput("profile", profileMeta)
	}

	tone, err := chooseTone(opts.tone, !opts.jsonOut && isInteractive())
	if err != nil {
		return err
	}

	client, err := newLLMClient(ctx, cfg.ResolveAPIKey(opts.apiKey))
	if err != nil {
		return fmt.Errorf("failed to create model client: %w", err)
	}

	controllerOpts := []outreach.Option{}
	if opts.timeout > 0 {
		controllerOpts = append(controllerOpts, outreach.WithTimeout(opts.timeout))
	}
	if opts.verbose {
		controllerOpts = append(controllerOpts, outreach.WithObserver(outreach.NewLogObserver(errOut)))
	}
	controller := outreach.NewController(client, controllerOpts...)
	defer func() { _ = controller.Close() }()

	state, err := controller.GenerateSync(ctx, types.GenerationRequest{
		JobDescription: jobText,
		Profile:        profileText,
		Tone:           tone,
	})
	if err != nil {
		return err
	}

	if opts.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(state); err != nil {
			return fmt.Errorf("failed to encode state: %w", err)
		}
	} else {
		observability.NewPrinter(out).PrintState(state)
	}

	if state.Kind == outreach.StateFailed {
		return fmt.Errorf("generation failed (%s): %w", state.Stage, state.Err)
	}

	if opts.copy {
		copyAndWait(state.Result.PrimaryEmail(), copyDelay)
		printer.PrintCopied("email")
	}
	return nil
}

// chooseTone parses flagValue, or asks on a terminal when it is empty.
func chooseTone(flagValue string, interactive bool) (types.Tone, error) {
	if flagValue != "" || !interactive {
		return types.ParseTone(flagValue)
	}

	choice := string(types.DefaultTone)
	options := make([]huh.Option[string], 0, len(types.Tones()))
	for _, t := range types.Tones() {
		options = append(options, huh.NewOption(string(t), string(t)))
	}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which tone?").
				Options(options...).
				Value(&choice),
		),
	).WithShowHelp(false)
	if err := form.Run(); err != nil {
		return "", fmt.Errorf("tone prompt: %w", err)
	}
	return types.ParseTone(choice)
}

// copyAndWait copies text and blocks until the copied indicator clears, so the
// process does not exit before clipboard managers on some platforms read it.
func copyAndWait(text string, delay time.Duration) {
	cleared := make(chan struct{})
	feedback := clipboard.New(clipboardWriter,
		clipboard.WithDelay(delay),
		clipboard.WithOnChange(func(copied bool) {
			if !copied {
				close(cleared)
			}
		}),
	)
	defer feedback.Close()

	feedback.Copy(text)
	<-cleared
}
