package observability

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/jonathan/outreach-forge/internal/ingestion"
	"github.com/jonathan/outreach-forge/internal/outreach"
	"github.com/jonathan/outreach-forge/internal/types"
	"github.com/stretchr/testify/assert"
)

func sampleResult() *types.GenerationResult {
	return &types.GenerationResult{
		Subject:      "Question about your docs automation",
		Email:        "Hi team,\n\nI built an Adaptive AI documentation platform that automates report workflows using templates and would love to help.",
		StrategyNote: "Hook on documentation.",
		FollowUp3Day: "Sharing a write-up.",
		FollowUp7Day: "One more idea.",
	}
}

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintResult(sampleResult())
	output := buf.String()

	for _, title := range []string{"SUBJECT", "EMAIL", "STRATEGY NOTE", "FOLLOW-UP (DAY 3)", "FOLLOW-UP (DAY 7)"} {
		assert.Contains(t, output, title)
	}
	assert.Contains(t, output, "Question about your docs automation")
	assert.Contains(t, output, "Adaptive AI documentation platform")
}

func TestPrintResult_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintResult(nil)
	assert.Empty(t, buf.String())
}

func TestPrintBox_LinesHaveEqualWidth(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).printBox("TITLE", strings.Repeat("word ", 40)+"\nshort")

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Greater(t, len(lines), 5)
	for _, line := range lines {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), line)
	}
}

func TestPrintState_Failed(t *testing.T) {
	start := time.Now()
	state := outreach.State{
		Kind:       outreach.StateFailed,
		Tone:       types.ToneEdgy,
		Stage:      outreach.StageTransport,
		Err:        &outreach.TransportError{Message: "failed to generate content", Cause: errors.New("quota exceeded")},
		StartedAt:  start,
		FinishedAt: start.Add(1200 * time.Millisecond),
	}

	var buf bytes.Buffer
	NewPrinter(&buf).PrintState(state)
	output := buf.String()

	assert.Contains(t, output, "failed")
	assert.Contains(t, output, "transport")
	assert.Contains(t, output, "quota exceeded")
	assert.Contains(t, output, "1.2s")
	assert.NotContains(t, output, "SUBJECT")
}

func TestPrintState_SucceededIncludesResult(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintState(outreach.State{Kind: outreach.StateSucceeded, Tone: types.ToneStartup, Result: sampleResult()})

	output := buf.String()
	assert.Contains(t, output, "succeeded")
	assert.Contains(t, output, "SUBJECT")
	assert.NotContains(t, output, "Stage:")
}

func TestPrintInput(t *testing.T) {
	meta := ingestion.NewMetadata(ingestion.SourceURL, "posting text")
	meta.URL = "https://jobs.lever.co/acme/123"
	meta.Board = "lever"

	var buf bytes.Buffer
	NewPrinter(&buf).PrintInput("job description", meta)
	output := buf.String()

	assert.Contains(t, output, "JOB DESCRIPTION")
	assert.Contains(t, output, "lever")
	assert.Contains(t, output, meta.Hash[:12])
	assert.NotContains(t, output, meta.Hash[:13])
}

func TestWrap(t *testing.T) {
	assert.Equal(t, []string{"short"}, wrap("short", 10))
	assert.Equal(t, []string{"one two", "three"}, wrap("one two three", 8))
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, wrap("abcdefghij", 4))
	assert.Equal(t, []string{""}, wrap("", 4))
}
