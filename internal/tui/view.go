package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jonathan/outreach-forge/internal/outreach"
	"github.com/jonathan/outreach-forge/internal/types"
)

func (a *App) View() string {
	var b strings.Builder

	b.WriteString(styleTitle.Render("Outreach Forge"))
	b.WriteString("  ")
	b.WriteString(styleSubtitle.Render("cold emails from a job description and your profile"))
	b.WriteString("\n\n")

	inputs := lipgloss.JoinVertical(lipgloss.Left,
		a.renderPane("Job description", a.job.View(), a.focus == paneJob),
		a.renderPane("Your profile", a.profile.View(), a.focus == paneProfile),
		a.renderTones(),
		a.renderGenerateHint(),
	)
	output := a.renderPane("Result", a.renderResult(), a.focus == paneResult)

	if a.width >= 100 {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, inputs, " ", output))
	} else {
		b.WriteString(lipgloss.JoinVertical(lipgloss.Left, inputs, output))
	}
	b.WriteString("\n")

	if a.notice != "" {
		b.WriteString(styleError.Render(a.notice))
		b.WriteString("\n")
	}
	if a.focus == paneResult {
		b.WriteString(a.help.ShortHelpView(keys.resultKeys()))
	} else {
		b.WriteString(a.help.View(keys))
	}
	return b.String()
}

func (a *App) renderPane(title, body string, focused bool) string {
	style := stylePane
	if focused {
		style = stylePaneFocused
	}
	return style.Render(styleLabel.Render(title) + "\n" + body)
}

func (a *App) renderTones() string {
	parts := make([]string, 0, len(types.Tones())+1)
	parts = append(parts, styleLabel.Render("Tone"))
	for _, t := range types.Tones() {
		label := toneLabel(t)
		if t == a.tone {
			parts = append(parts, styleToneSelected.Render(label))
		} else {
			parts = append(parts, styleTone.Render(label))
		}
	}
	return " " + strings.Join(parts, " ")
}

func toneLabel(t types.Tone) string {
	switch t {
	case types.ToneProfessional:
		return "Professional"
	case types.ToneStartup:
		return "Startup"
	case types.ToneEdgy:
		return "Edgy"
	default:
		return string(t)
	}
}

func (a *App) renderGenerateHint() string {
	switch {
	case a.state.Generating():
		return " " + a.spinner.View() + " Generating..."
	case !a.request().Ready():
		return styleStatusBar.Render(" Fill in both fields to generate")
	default:
		return styleStatusBar.Render(" Press ctrl+g to generate")
	}
}

func (a *App) renderResult() string {
	width := max(a.width/2-8, 30)
	wrap := lipgloss.NewStyle().Width(width)

	switch a.state.Kind {
	case outreach.StateIdle:
		return styleSubtitle.Render("Your email will appear here.")

	case outreach.StateGenerating:
		return a.spinner.View() + " Drafting with the " + toneLabel(a.state.Tone) + " tone..."

	case outreach.StateFailed:
		var b strings.Builder
		b.WriteString(styleError.Render("Generation failed"))
		b.WriteString("\n")
		b.WriteString(wrap.Render(fmt.Sprintf("Stage:  %s", a.state.Stage)))
		b.WriteString("\n")
		b.WriteString(wrap.Render(fmt.Sprintf("Reason: %v", a.state.Err)))
		b.WriteString("\n\n")
		b.WriteString(styleSubtitle.Render("Press ctrl+g to try again."))
		return b.String()
	}

	r := a.state.Result
	if r == nil {
		return ""
	}

	var b strings.Builder
	section := func(title, text string) {
		b.WriteString(styleLabel.Render(title))
		b.WriteString("\n")
		b.WriteString(wrap.Render(text))
		b.WriteString("\n\n")
	}
	section("Subject", r.Subject)
	section("Email", r.Email)
	section("Strategy", r.StrategyNote)
	section("Follow-up, day 3", r.FollowUp3Day)
	section("Follow-up, day 7", r.FollowUp7Day)

	if a.feedback.Copied() {
		b.WriteString(styleSuccess.Render("✓ Copied " + a.copiedWhat))
	} else {
		b.WriteString(styleSubtitle.Render("c copy email · 3 copy day 3 · 7 copy day 7"))
	}
	return b.String()
}
