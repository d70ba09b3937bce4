// Package types provides type definitions for structured data used throughout the outreach generator.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Tone selects the stylistic register of the generated copy.
type Tone string

const (
	// ToneProfessional is a formal register
	ToneProfessional Tone = "professional"
	// ToneStartup is a fast-paced register
	ToneStartup Tone = "startup"
	// ToneEdgy is a bold, direct register
	ToneEdgy Tone = "edgy"
)

// DefaultTone is the tone preselected when none is given.
const DefaultTone = ToneStartup

// Tones lists every supported tone in display order.
func Tones() []Tone {
	return []Tone{ToneProfessional, ToneStartup, ToneEdgy}
}

// Valid reports whether t is one of the supported tones.
func (t Tone) Valid() bool {
	switch t {
	case ToneProfessional, ToneStartup, ToneEdgy:
		return true
	}
	return false
}

// ParseTone parses a tone name case-insensitively. An empty string yields DefaultTone.
func ParseTone(s string) (Tone, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DefaultTone, nil
	}
	t := Tone(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown tone %q (expected professional, startup or edgy)", s)
	}
	return t, nil
}

// GenerationRequest is built fresh for every generate call and never persisted.
type GenerationRequest struct {
	JobDescription string `json:"jobDescription" validate:"required"`
	Profile        string `json:"profile" validate:"required"`
	Tone           Tone   `json:"tone" validate:"required,oneof=professional startup edgy"`
}

// Normalized returns a copy with surrounding whitespace trimmed and an empty tone defaulted.
func (r GenerationRequest) Normalized() GenerationRequest {
	r.JobDescription = strings.TrimSpace(r.JobDescription)
	r.Profile = strings.TrimSpace(r.Profile)
	if strings.TrimSpace(string(r.Tone)) == "" {
		r.Tone = DefaultTone
	}
	return r
}

// Ready reports whether both free-text inputs are non-empty.
func (r GenerationRequest) Ready() bool {
	return strings.TrimSpace(r.JobDescription) != "" && strings.TrimSpace(r.Profile) != ""
}

// Validate validates the GenerationRequest using the validator.
func (r *GenerationRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// GenerationResult is the five-part outreach produced by a successful generation.
type GenerationResult struct {
	Subject      string `json:"subject"`
	Email        string `json:"email"`
	StrategyNote string `json:"strategyNote"`
	FollowUp3Day string `json:"followUp3Day"`
	FollowUp7Day string `json:"followUp7Day"`
}

// ResultFields lists the JSON keys of GenerationResult in the order the model is asked to emit them.
func ResultFields() []string {
	return []string{"subject", "email", "strategyNote", "followUp3Day", "followUp7Day"}
}

// PrimaryEmail returns the text copied by the primary copy action: subject, blank line, body.
func (r *GenerationResult) PrimaryEmail() string {
	if r == nil {
		return ""
	}
	return r.Subject + "\n\n" + r.Email
}
