// Package observability provides formatted output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/outreach-forge/internal/ingestion"
	"github.com/jonathan/outreach-forge/internal/outreach"
	"github.com/jonathan/outreach-forge/internal/types"
)

// boxWidth is the outer width of a printed box
const boxWidth = 72

// Printer writes boxed summaries for the CLI.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a titled box. Long lines are wrapped, never cut.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	inner := boxWidth - 4
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %s │\n", pad(title, inner))
	fmt.Fprintf(p.out, "├%s┤\n", border)
	for _, line := range strings.Split(content, "\n") {
		for _, wrapped := range wrap(line, inner) {
			fmt.Fprintf(p.out, "│ %s │\n", pad(wrapped, inner))
		}
	}
	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintInput summarizes an ingested input.
func (p *Printer) PrintInput(label string, meta *ingestion.Metadata) {
	if meta == nil {
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Source:  %s\n", meta.Source)
	if meta.Path != "" {
		fmt.Fprintf(&sb, "Path:    %s\n", meta.Path)
	}
	if meta.URL != "" {
		fmt.Fprintf(&sb, "URL:     %s\n", meta.URL)
		fmt.Fprintf(&sb, "Board:   %s (rendered: %t, cached: %t)\n", meta.Board, meta.Rendered, meta.FromCache)
	}
	fmt.Fprintf(&sb, "Chars:   %d\n", meta.Chars)
	fmt.Fprintf(&sb, "SHA-256: %s", shortHash(meta.Hash))
	p.printBox(strings.ToUpper(label), sb.String())
}

// PrintResult prints the five generated pieces.
func (p *Printer) PrintResult(result *types.GenerationResult) {
	if result == nil {
		return
	}
	p.printBox("SUBJECT", result.Subject)
	p.printBox("EMAIL", result.Email)
	p.printBox("STRATEGY NOTE", result.StrategyNote)
	p.printBox("FOLLOW-UP (DAY 3)", result.FollowUp3Day)
	p.printBox("FOLLOW-UP (DAY 7)", result.FollowUp7Day)
}

// PrintState prints a lifecycle snapshot. Succeeded states include the result.
func (p *Printer) PrintState(state outreach.State) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "State:    %s\n", state.Kind)
	if state.Tone != "" {
		fmt.Fprintf(&sb, "Tone:     %s\n", state.Tone)
	}
	if state.Terminal() {
		fmt.Fprintf(&sb, "Duration: %s\n", state.Duration().Round(time.Millisecond))
	}
	if state.Kind == outreach.StateFailed {
		fmt.Fprintf(&sb, "Stage:    %s\n", state.Stage)
		fmt.Fprintf(&sb, "Error:    %v\n", state.Err)
	}
	p.printBox("GENERATION", strings.TrimSuffix(sb.String(), "\n"))

	if state.Kind == outreach.StateSucceeded {
		p.PrintResult(state.Result)
	}
}

// PrintCopied confirms a clipboard copy.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintCopied(what string) {
	fmt.Fprintf(p.out, "✓ Copied %s to clipboard\n", what)
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// wrap splits line into chunks of at most width runes, breaking on spaces where possible.
func wrap(line string, width int) []string {
	if utf8.RuneCountInString(line) <= width {
		return []string{line}
	}

	var out []string
	var current []rune
	for _, word := range strings.Fields(line) {
		w := []rune(word)
		for len(w) > width {
			if len(current) > 0 {
				out = append(out, string(current))
				current = nil
			}
			out = append(out, string(w[:width]))
			w = w[width:]
		}
		switch {
		case len(current) == 0:
			current = w
		case len(current)+1+len(w) <= width:
			current = append(append(current, ' '), w...)
		default:
			out = append(out, string(current))
			current = w
		}
	}
	if len(current) > 0 {
		out = append(out, string(current))
	}
	return out
}
