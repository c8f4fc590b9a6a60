package agents

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"interviewcore/internal/cache"
	"interviewcore/internal/llm"
	"interviewcore/internal/orchestrator"
)

type scriptedProvider struct {
	mu    sync.Mutex
	calls int
	text  string
	// lastReq is the most recent request seen, for prompt assertions.
	lastReq *llm.Request
}

func (p *scriptedProvider) Complete(_ context.Context, req *llm.Request) (*llm.Response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	p.lastReq = req
	return &llm.Response{
		Text:  p.text,
		Model: req.Model,
		Usage: &llm.Usage{PromptTokens: 100, CompletionTokens: 30, TotalTokens: 130},
	}, nil
}

func newTestOrchestrator(t *testing.T, p llm.Provider) *orchestrator.Orchestrator {
	t.Helper()
	return orchestrator.New(p, cache.NewMemoryCache(time.Hour, 100), orchestrator.Config{
		CacheEnabled: true,
		CacheTTL:     time.Hour,
		MaxAttempts:  3,
		Backoff:      orchestrator.BackoffPolicy{Min: time.Millisecond, Max: time.Millisecond},
	}, zaptest.NewLogger(t))
}

func validDocuments() DocumentInput {
	long := func(s string) string { return s + strings.Repeat(" detail", 20) }
	return DocumentInput{
		ResumeText:          long("Five years of Go services"),
		RoleDescriptionText: long("Backend engineer on the platform team"),
		JobOfferingText:     long("We offer meaningful infrastructure work"),
	}
}

func TestDocumentAnalysisAgent(t *testing.T) {
	t.Parallel()

	p := &scriptedProvider{text: `{"match_score": 8, "match_summary": "strong fit", "focus_areas": ["go", "sql", "apis"]}`}
	agent := NewDocumentAnalysisAgent(newTestOrchestrator(t, p), "gemini-pro")

	ma, err := agent.Analyze(context.Background(), validDocuments(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if ma.MatchScore != 8 || len(ma.FocusAreas) != 3 {
		t.Fatalf("unexpected analysis: %+v", ma)
	}

	// the rendered prompt carries the document text
	if !strings.Contains(p.lastReq.Prompt, "Five years of Go services") {
		t.Fatal("prompt should embed the resume text")
	}
	if p.lastReq.Temperature != 0 {
		t.Fatalf("document analysis must be deterministic, got temp %v", p.lastReq.Temperature)
	}

	// identical documents are served from cache
	if _, err := agent.Analyze(context.Background(), validDocuments(), nil); err != nil {
		t.Fatal(err)
	}
	if p.calls != 1 {
		t.Fatalf("expected cache hit on identical documents, got %d calls", p.calls)
	}
}

func TestDocumentAnalysisAgentValidation(t *testing.T) {
	t.Parallel()

	p := &scriptedProvider{text: "{}"}
	agent := NewDocumentAnalysisAgent(newTestOrchestrator(t, p), "gemini-pro")

	tests := []struct {
		name      string
		mutate    func(*DocumentInput)
		wantField string
	}{
		{"blank resume", func(in *DocumentInput) { in.ResumeText = "  " }, "resume_text"},
		{"short role description", func(in *DocumentInput) { in.RoleDescriptionText = "too short" }, "role_description_text"},
		{"blank job offering", func(in *DocumentInput) { in.JobOfferingText = "" }, "job_offering_text"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := validDocuments()
			tc.mutate(&in)

			_, err := agent.Analyze(context.Background(), in, nil)
			var verr *orchestrator.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tc.wantField {
				t.Fatalf("expected field %q, got %q", tc.wantField, verr.Field)
			}
		})
	}
	if p.calls != 0 {
		t.Fatalf("invalid documents must not reach the provider, got %d calls", p.calls)
	}
}

func TestQuestionGenerationAgent(t *testing.T) {
	t.Parallel()

	p := &scriptedProvider{text: "  How would you detect a goroutine leak?  \n"}
	agent := NewQuestionGenerationAgent(newTestOrchestrator(t, p), "gemini-pro")

	q, err := agent.Generate(context.Background(), QuestionInput{
		FocusAreas:      []string{"concurrency", "debugging"},
		DifficultyLevel: 6,
		QuestionsAsked:  2,
		ChatHistory:     "Q1: what is a channel?\nA1: a typed conduit.",
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if q != "How would you detect a goroutine leak?" {
		t.Fatalf("expected trimmed question, got %q", q)
	}
	if p.lastReq.Temperature != 0.7 {
		t.Fatalf("question generation should run warm, got temp %v", p.lastReq.Temperature)
	}
	if !strings.Contains(p.lastReq.Prompt, "concurrency, debugging") {
		t.Fatal("prompt should list the focus areas")
	}
}

func TestQuestionGenerationAgentDefaultsHistory(t *testing.T) {
	t.Parallel()

	p := &scriptedProvider{text: "First question?"}
	agent := NewQuestionGenerationAgent(newTestOrchestrator(t, p), "gemini-pro")

	if _, err := agent.Generate(context.Background(), QuestionInput{
		FocusAreas:      []string{"go"},
		DifficultyLevel: 5,
	}, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(p.lastReq.Prompt, "No previous questions yet.") {
		t.Fatal("empty history should be replaced with the placeholder")
	}
}

func TestQuestionGenerationAgentSkipsCache(t *testing.T) {
	t.Parallel()

	p := &scriptedProvider{text: "Same question."}
	agent := NewQuestionGenerationAgent(newTestOrchestrator(t, p), "gemini-pro")

	in := QuestionInput{FocusAreas: []string{"go"}, DifficultyLevel: 5}
	for i := 0; i < 2; i++ {
		if _, err := agent.Generate(context.Background(), in, nil); err != nil {
			t.Fatal(err)
		}
	}
	if p.calls != 2 {
		t.Fatalf("question generation must not cache, got %d calls", p.calls)
	}
}

func TestQuestionGenerationAgentValidation(t *testing.T) {
	t.Parallel()

	p := &scriptedProvider{text: "unused"}
	agent := NewQuestionGenerationAgent(newTestOrchestrator(t, p), "gemini-pro")

	bad := []QuestionInput{
		{FocusAreas: nil, DifficultyLevel: 5},
		{FocusAreas: []string{"go"}, DifficultyLevel: 2},
		{FocusAreas: []string{"go"}, DifficultyLevel: 11},
		{FocusAreas: []string{"go"}, DifficultyLevel: 5, QuestionsAsked: -1},
	}
	for _, in := range bad {
		_, err := agent.Generate(context.Background(), in, nil)
		var verr *orchestrator.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected ValidationError for %+v, got %v", in, err)
		}
	}
}

func TestAnswerEvaluationAgent(t *testing.T) {
	t.Parallel()

	p := &scriptedProvider{text: "```json\n{\"score\": 6, \"rationale\": \"partially correct\", \"evidence\": \"mentioned mutexes\"}\n```"}
	agent := NewAnswerEvaluationAgent(newTestOrchestrator(t, p), "gemini-pro")

	in := AnswerInput{
		Question: "How do you protect shared state?",
		Answer:   "Use mutexes around the critical section.",
	}
	ev, err := agent.Evaluate(context.Background(), in, nil)
	if err != nil {
		t.Fatal(err)
	}
	if ev.Score != 6 || ev.Rationale != "partially correct" {
		t.Fatalf("unexpected evaluation: %+v", ev)
	}

	// re-submitting the same answer is a cache hit
	if _, err := agent.Evaluate(context.Background(), in, nil); err != nil {
		t.Fatal(err)
	}
	if p.calls != 1 {
		t.Fatalf("expected cache hit on identical answer, got %d calls", p.calls)
	}
}

func TestAnswerEvaluationAgentValidation(t *testing.T) {
	t.Parallel()

	p := &scriptedProvider{text: "unused"}
	agent := NewAnswerEvaluationAgent(newTestOrchestrator(t, p), "gemini-pro")

	_, err := agent.Evaluate(context.Background(), AnswerInput{Question: "q?", Answer: "   "}, nil)
	var verr *orchestrator.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "answer" {
		t.Fatalf("expected answer flagged, got %q", verr.Field)
	}
}
