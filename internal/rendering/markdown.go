package rendering

import (
	"bytes"
	_ "embed"
	htmltemplate "html/template"
	"sync"
	"text/template"

	"github.com/jonathan/outreach-forge/internal/types"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

//go:embed result.md.tmpl
var resultTemplate string

//go:embed page.html.tmpl
var pageTemplate string

var (
	parseOnce sync.Once
	mdTmpl    *template.Template
	pageTmpl  *htmltemplate.Template
	parseErr  error

	// Hard wraps keep the email's line breaks. Raw HTML in model output is
	// dropped because goldmark's unsafe mode stays off.
	markdown = goldmark.New(goldmark.WithRendererOptions(html.WithHardWraps()))
)

func templates() (*template.Template, *htmltemplate.Template, error) {
	parseOnce.Do(func() {
		mdTmpl, parseErr = template.New("result.md").
			Funcs(template.FuncMap{"md": EscapeMarkdown}).
			Parse(resultTemplate)
		if parseErr != nil {
			return
		}
		pageTmpl, parseErr = htmltemplate.New("page.html").Parse(pageTemplate)
	})
	return mdTmpl, pageTmpl, parseErr
}

// Markdown renders result as a Markdown document.
func Markdown(result *types.GenerationResult) (string, error) {
	if result == nil {
		return "", &RenderError{Stage: StageInput, Message: "no result to render"}
	}
	md, _, err := templates()
	if err != nil {
		return "", &RenderError{Stage: StageTemplate, Message: "failed to parse template", Cause: err}
	}

	var buf bytes.Buffer
	if err := md.Execute(&buf, result); err != nil {
		return "", &RenderError{Stage: StageTemplate, Message: "failed to execute template", Cause: err}
	}
	return buf.String(), nil
}

// HTML renders result as a standalone HTML page.
func HTML(result *types.GenerationResult) ([]byte, error) {
	doc, err := Markdown(result)
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	if err := markdown.Convert([]byte(doc), &body); err != nil {
		return nil, &RenderError{Stage: StageMarkdown, Message: "failed to convert markdown", Cause: err}
	}

	_, page, err := templates()
	if err != nil {
		return nil, &RenderError{Stage: StageTemplate, Message: "failed to parse template", Cause: err}
	}

	var out bytes.Buffer
	err = page.Execute(&out, struct {
		Title string
		Body  htmltemplate.HTML
	}{
		Title: result.Subject,
		Body:  htmltemplate.HTML(body.String()), //nolint:gosec // produced by goldmark with raw HTML disabled
	})
	if err != nil {
		return nil, &RenderError{Stage: StageTemplate, Message: "failed to execute page template", Cause: err}
	}
	return out.Bytes(), nil
}
