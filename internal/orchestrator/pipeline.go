package orchestrator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
)

// The invocation pipeline has three substitutable stages:
// render the prompt, call the provider, parse the structured output.
// Agents compose a PromptRenderer and an OutputParser around the
// orchestrator's provider call.

// PromptRenderer turns named inputs into the final prompt text.
type PromptRenderer interface {
	Render(inputs map[string]any) (string, error)
}

// OutputParser decodes the provider's raw text into a structured value.
// A nil parser on a task means the raw text is the result.
type OutputParser interface {
	Parse(raw string) (any, error)
}

// TemplateRenderer renders prompts with text/template.
type TemplateRenderer struct {
	tmpl *template.Template
}

// NewTemplateRenderer parses the template text once at construction.
func NewTemplateRenderer(name, text string) (*TemplateRenderer, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse prompt template %q: %w", name, err)
	}
	return &TemplateRenderer{tmpl: tmpl}, nil
}

// MustTemplateRenderer is NewTemplateRenderer for static templates
// declared at package init.
func MustTemplateRenderer(name, text string) *TemplateRenderer {
	r, err := NewTemplateRenderer(name, text)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *TemplateRenderer) Render(inputs map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, inputs); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return buf.String(), nil
}

// JSONParser decodes the response into a fresh value from New. Models
// often wrap JSON in markdown fences, so those are stripped first.
type JSONParser struct {
	New func() any
}

func (p *JSONParser) Parse(raw string) (any, error) {
	cleaned := stripFences(raw)

	out := p.New()
	dec := json.NewDecoder(strings.NewReader(cleaned))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return nil, fmt.Errorf("decode JSON output: %w", err)
	}
	return out, nil
}

// stripFences removes a surrounding ```json ... ``` block if present.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		// drop the language tag line ("json", "JSON", or empty)
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
