// Package rendering turns a generation result into Markdown and HTML documents.
package rendering

import "fmt"

// Stage names the step of document rendering that failed.
type Stage string

const (
	// StageInput means there was nothing to render.
	StageInput Stage = "input"
	// StageTemplate covers parsing and executing the embedded templates.
	StageTemplate Stage = "template"
	// StageMarkdown is the goldmark Markdown to HTML conversion.
	StageMarkdown Stage = "markdown"
)

// RenderError reports a failed render and the stage it failed in.
type RenderError struct {
	Stage   Stage
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render %s: %s: %v", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("render %s: %s", e.Stage, e.Message)
}

func (e *RenderError) Unwrap() error { return e.Cause }
