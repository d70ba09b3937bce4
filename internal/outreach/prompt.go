// Package outreach implements the generation pipeline: prompt construction, the model call,
// response parsing and the Idle/Generating/Succeeded/Failed lifecycle that coordinates them.
package outreach

import (
	"github.com/jonathan/outreach-forge/internal/prompts"
	"github.com/jonathan/outreach-forge/internal/types"
)

const outreachPromptKey = "outreach-email"

// ToneDirective returns the stylistic instruction for tone.
// Unknown tones use the default tone's directive.
func ToneDirective(tone types.Tone) string {
	if !tone.Valid() {
		tone = types.DefaultTone
	}
	return prompts.MustGet(prompts.OutreachFile, "tone-"+string(tone))
}

// BuildPrompt renders the outreach template for req. It is pure and deterministic:
// the job description and profile are embedded verbatim.
func BuildPrompt(req types.GenerationRequest) string {
	template := prompts.MustGet(prompts.OutreachFile, outreachPromptKey)
	return prompts.Format(template, map[string]string{
		"JobDescription": req.JobDescription,
		"Profile":        req.Profile,
		"Tone":           string(req.Tone),
		"ToneDirective":  ToneDirective(req.Tone),
	})
}
