package rendering

import (
	"strings"
	"testing"

	"github.com/jonathan/outreach-forge/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *types.GenerationResult {
	return &types.GenerationResult{
		Subject:      "Question about docs automation at Acme",
		Email:        "Hi team,\nI built an *adaptive* documentation platform.",
		StrategyNote: "Hook on documentation.",
		FollowUp3Day: "Sharing a write-up.",
		FollowUp7Day: "One more idea.",
	}
}

func TestMarkdown(t *testing.T) {
	doc, err := Markdown(sampleResult())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(doc, "# Question about docs automation at Acme"))
	assert.Contains(t, doc, "## Strategy note")
	assert.Contains(t, doc, "## Follow-up (day 3)")
	assert.Contains(t, doc, "I built an *adaptive* documentation platform.", "email markdown is kept")
}

func TestMarkdown_EscapesPlainTextFields(t *testing.T) {
	result := sampleResult()
	result.Subject = "Re: *urgent* #1"
	result.StrategyNote = "Lead with [docs] work"

	doc, err := Markdown(result)
	require.NoError(t, err)
	assert.Contains(t, doc, `# Re: \*urgent\* \#1`)
	assert.Contains(t, doc, `Lead with \[docs\] work`)
}

func TestMarkdown_Nil(t *testing.T) {
	_, err := Markdown(nil)
	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, StageInput, renderErr.Stage)
	assert.Equal(t, "render input: no result to render", err.Error())
}

func TestHTML(t *testing.T) {
	page, err := HTML(sampleResult())
	require.NoError(t, err)
	out := string(page)

	assert.Contains(t, out, "<title>Question about docs automation at Acme</title>")
	assert.Contains(t, out, "<h1>Question about docs automation at Acme</h1>")
	assert.Contains(t, out, "<h2>Strategy note</h2>")
	assert.Contains(t, out, "<em>adaptive</em>")
	assert.Contains(t, out, "<br")
}

func TestHTML_RendersMarkdownSections(t *testing.T) {
	result := sampleResult()
	result.Email = "I **built** a [tool](https://x.io)."
	result.FollowUp3Day = "- first point\n- second point"
	result.FollowUp7Day = "One `snippet` to try."

	page, err := HTML(result)
	require.NoError(t, err)
	out := string(page)

	assert.Contains(t, out, "<strong>built</strong>")
	assert.NotContains(t, out, "**built**")
	assert.Contains(t, out, `<a href="https://x.io">tool</a>`)
	assert.Contains(t, out, "<li>second point</li>")
	assert.Contains(t, out, "<code>snippet</code>")
}

func TestHTML_PlainTextFieldsStayLiteral(t *testing.T) {
	result := sampleResult()
	result.Subject = "Built **fast**"
	result.StrategyNote = "Mention _speed_"

	page, err := HTML(result)
	require.NoError(t, err)
	out := string(page)

	assert.Contains(t, out, "<h1>Built **fast**</h1>")
	assert.Contains(t, out, "Mention _speed_")
	assert.NotContains(t, out, "<strong>fast</strong>")
}

func TestHTML_DoesNotPassThroughMarkup(t *testing.T) {
	result := sampleResult()
	result.Subject = `<script>alert("x")</script>`
	result.Email = `<img src=x onerror=alert(1)>`

	page, err := HTML(result)
	require.NoError(t, err)
	out := string(page)

	assert.NotContains(t, out, "<script>alert")
	assert.NotContains(t, out, "<img")
}

func TestEscapeMarkdown(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"plain text", "plain text"},
		{"# heading", `\# heading`},
		{"a_b*c", `a\_b\*c`},
		{"[link](url)", `\[link\]\(url\)`},
		{"<b>", `\<b\>`},
		{`back\slash`, `back\\slash`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, EscapeMarkdown(tt.input))
		})
	}
}
