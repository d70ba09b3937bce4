// Package tui provides the interactive terminal front end for outreach generation.
package tui

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonathan/outreach-forge/internal/clipboard"
	"github.com/jonathan/outreach-forge/internal/outreach"
	"github.com/jonathan/outreach-forge/internal/types"
)

type pane int

const (
	paneJob pane = iota
	paneProfile
	paneResult
	paneCount
)

// stateMsg carries a snapshot from the controller subscription.
type stateMsg outreach.State

// subscriptionClosedMsg is sent when the controller ends the subscription.
type subscriptionClosedMsg struct{}

// copyChangedMsg carries a flip of the clipboard copied flag.
type copyChangedMsg struct{ copied bool }

// generateErrorMsg reports a generate call the controller refused.
type generateErrorMsg struct{ err error }

// App is the bubbletea model.
type App struct {
	width  int
	height int

	controller  *outreach.Controller
	updates     <-chan outreach.State
	unsubscribe func()
	state       outreach.State

	board      clipboard.Writer
	feedback   *clipboard.Feedback
	copyDelay  time.Duration
	copyEvents chan bool
	copiedWhat string
	done       chan struct{}
	closeOnce  sync.Once

	job     textarea.Model
	profile textarea.Model
	tone    types.Tone
	focus   pane

	spinner spinner.Model
	help    help.Model
	notice  string
}

// Option configures an App.
type Option func(*App)

// WithClipboard replaces the system clipboard.
func WithClipboard(w clipboard.Writer) Option {
	return func(a *App) {
		a.board = w
	}
}

// WithCopyDelay overrides how long the copied indicator stays up.
func WithCopyDelay(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.copyDelay = d
		}
	}
}

// WithInitialRequest pre-fills the inputs and tone.
func WithInitialRequest(req types.GenerationRequest) Option {
	return func(a *App) {
		a.job.SetValue(req.JobDescription)
		a.profile.SetValue(req.Profile)
		if req.Tone.Valid() {
			a.tone = req.Tone
		}
	}
}

// New builds an App driving controller.
func New(controller *outreach.Controller, opts ...Option) *App {
	job := textarea.New()
	job.Placeholder = "Paste the job description..."
	job.ShowLineNumbers = false
	job.CharLimit = 0
	job.SetHeight(8)

	profile := textarea.New()
	profile.Placeholder = "Paste your profile: projects, skills, experience..."
	profile.ShowLineNumbers = false
	profile.CharLimit = 0
	profile.SetHeight(6)

	spin := spinner.New(spinner.WithSpinner(spinner.Dot))
	spin.Style = styleLabel

	a := &App{
		controller: controller,
		state:      controller.State(),
		copyDelay:  clipboard.DefaultDelay,
		copyEvents: make(chan bool, 1),
		done:       make(chan struct{}),
		job:        job,
		profile:    profile,
		tone:       types.DefaultTone,
		spinner:    spin,
		help:       help.New(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.feedback = clipboard.New(a.board,
		clipboard.WithDelay(a.copyDelay),
		clipboard.WithOnChange(a.publishCopied),
	)
	a.updates, a.unsubscribe = controller.Subscribe()
	a.job.Focus()
	return a
}

// Run starts the program on the alternate screen and blocks until it exits.
func Run(ctx context.Context, app *App) error {
	defer app.Close()
	_, err := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// Close ends the subscription and the copy indicator.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		a.unsubscribe()
		a.feedback.Close()
		close(a.done)
	})
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, a.waitForState(), a.waitForCopy())
}

// publishCopied keeps only the latest flip; the view reads Copied() anyway.
func (a *App) publishCopied(copied bool) {
	select {
	case a.copyEvents <- copied:
	default:
		select {
		case <-a.copyEvents:
		default:
		}
		select {
		case a.copyEvents <- copied:
		default:
		}
	}
}

func (a *App) waitForCopy() tea.Cmd {
	events, done := a.copyEvents, a.done
	return func() tea.Msg {
		select {
		case copied := <-events:
			return copyChangedMsg{copied}
		case <-done:
			return nil
		}
	}
}

func (a *App) waitForState() tea.Cmd {
	updates := a.updates
	return func() tea.Msg {
		state, ok := <-updates
		if !ok {
			return subscriptionClosedMsg{}
		}
		return stateMsg(state)
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.resize()
		return a, nil

	case stateMsg:
		a.state = outreach.State(msg)
		cmds := []tea.Cmd{a.waitForState()}
		if a.state.Generating() {
			cmds = append(cmds, a.spinner.Tick)
		}
		if a.state.Kind == outreach.StateSucceeded {
			a.setFocus(paneResult)
		}
		return a, tea.Batch(cmds...)

	case subscriptionClosedMsg:
		return a, nil

	case generateErrorMsg:
		a.notice = msg.err.Error()
		return a, nil

	case copyChangedMsg:
		return a, a.waitForCopy()

	case spinner.TickMsg:
		if !a.state.Generating() {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if cmd, handled := a.handleKey(msg); handled {
			return a, cmd
		}
	}

	var cmd tea.Cmd
	switch a.focus {
	case paneJob:
		a.job, cmd = a.job.Update(msg)
	case paneProfile:
		a.profile, cmd = a.profile.Update(msg)
	}
	return a, cmd
}

// handleKey processes global and result-pane bindings. Anything unhandled goes
// to the focused textarea.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch {
	case key.Matches(msg, keys.Quit):
		return tea.Quit, true
	case key.Matches(msg, keys.Generate):
		return a.generate(), true
	case key.Matches(msg, keys.NextFocus):
		a.setFocus((a.focus + 1) % paneCount)
		return nil, true
	case key.Matches(msg, keys.PrevFocus):
		a.setFocus((a.focus + paneCount - 1) % paneCount)
		return nil, true
	case key.Matches(msg, keys.ToneCycle):
		a.shiftTone(1)
		return nil, true
	}

	if a.focus != paneResult {
		return nil, false
	}

	switch {
	case key.Matches(msg, keys.ToneLeft):
		a.shiftTone(-1)
	case key.Matches(msg, keys.ToneRight):
		a.shiftTone(1)
	case key.Matches(msg, keys.CopyEmail):
		a.copy("email", func(r *types.GenerationResult) string { return r.PrimaryEmail() })
	case key.Matches(msg, keys.CopyDay3):
		a.copy("day-3 follow-up", func(r *types.GenerationResult) string { return r.FollowUp3Day })
	case key.Matches(msg, keys.CopyDay7):
		a.copy("day-7 follow-up", func(r *types.GenerationResult) string { return r.FollowUp7Day })
	}
	return nil, true
}

func (a *App) request() types.GenerationRequest {
	return types.GenerationRequest{
		JobDescription: a.job.Value(),
		Profile:        a.profile.Value(),
		Tone:           a.tone,
	}
}

// canGenerate mirrors the controller's guard so the UI can show the action as disabled.
func (a *App) canGenerate() bool {
	return !a.state.Generating() && a.request().Ready()
}

func (a *App) generate() tea.Cmd {
	if !a.canGenerate() {
		return nil
	}
	a.notice = ""
	if err := a.controller.Generate(context.Background(), a.request()); err != nil {
		return func() tea.Msg { return generateErrorMsg{err} }
	}
	return nil
}

// copy writes one piece of the result. The indicator redraws from copyChangedMsg.
func (a *App) copy(what string, pick func(*types.GenerationResult) string) {
	if a.state.Kind != outreach.StateSucceeded || a.state.Result == nil {
		return
	}
	a.copiedWhat = what
	a.feedback.Copy(pick(a.state.Result))
}

func (a *App) shiftTone(step int) {
	tones := types.Tones()
	idx := 0
	for i, t := range tones {
		if t == a.tone {
			idx = i
		}
	}
	a.tone = tones[(idx+step+len(tones))%len(tones)]
}

func (a *App) setFocus(p pane) {
	a.focus = p
	a.job.Blur()
	a.profile.Blur()
	switch p {
	case paneJob:
		a.job.Focus()
	case paneProfile:
		a.profile.Focus()
	}
}

func (a *App) resize() {
	inner := max(a.width/2-6, 20)
	a.job.SetWidth(inner)
	a.profile.SetWidth(inner)
	a.help.Width = a.width
}
