package orchestrator

import (
	"strings"
	"testing"

	"interviewcore/internal/interview"
)

func TestTemplateRendererRender(t *testing.T) {
	t.Parallel()

	r := MustTemplateRenderer("greeting", "Hello {{.name}}, focus on {{.topic}}.")
	out, err := r.Render(map[string]any{"name": "Ada", "topic": "channels"})
	if err != nil {
		t.Fatal(err)
	}
	if out != "Hello Ada, focus on channels." {
		t.Fatalf("unexpected render: %q", out)
	}
}

func TestTemplateRendererMissingKey(t *testing.T) {
	t.Parallel()

	r := MustTemplateRenderer("greeting", "Hello {{.name}}.")
	if _, err := r.Render(map[string]any{}); err == nil {
		t.Fatal("expected error for missing template input")
	}
}

func TestNewTemplateRendererBadSyntax(t *testing.T) {
	t.Parallel()

	if _, err := NewTemplateRenderer("broken", "{{.unclosed"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestJSONParserPlain(t *testing.T) {
	t.Parallel()

	p := &JSONParser{New: func() any { return &interview.AnswerEvaluation{} }}
	out, err := p.Parse(`{"score": 7, "rationale": "clear", "evidence": "quoted the docs"}`)
	if err != nil {
		t.Fatal(err)
	}
	ev := out.(*interview.AnswerEvaluation)
	if ev.Score != 7 || ev.Rationale != "clear" {
		t.Fatalf("unexpected parse: %+v", ev)
	}
}

func TestJSONParserStripsFences(t *testing.T) {
	t.Parallel()

	p := &JSONParser{New: func() any { return &interview.AnswerEvaluation{} }}

	for _, raw := range []string{
		"```json\n{\"score\": 5, \"rationale\": \"ok\", \"evidence\": \"e\"}\n```",
		"```\n{\"score\": 5, \"rationale\": \"ok\", \"evidence\": \"e\"}\n```",
		"  ```json\n{\"score\": 5, \"rationale\": \"ok\", \"evidence\": \"e\"}\n```  ",
	} {
		out, err := p.Parse(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if ev := out.(*interview.AnswerEvaluation); ev.Score != 5 {
			t.Fatalf("unexpected parse of %q: %+v", raw, ev)
		}
	}
}

func TestJSONParserRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	p := &JSONParser{New: func() any { return &interview.AnswerEvaluation{} }}
	if _, err := p.Parse(`{"score": 7, "hallucinated_field": true}`); err == nil {
		t.Fatal("unknown fields should be rejected")
	}
}

func TestJSONParserRejectsProse(t *testing.T) {
	t.Parallel()

	p := &JSONParser{New: func() any { return &interview.AnswerEvaluation{} }}
	_, err := p.Parse("Sure! Here is the evaluation you asked for.")
	if err == nil || !strings.Contains(err.Error(), "decode JSON output") {
		t.Fatalf("expected decode error, got %v", err)
	}
}
