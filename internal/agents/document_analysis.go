// Package agents holds the LLM call sites of the interview workflow.
// Every agent goes through the orchestrator: prompt rendering, caching,
// retry and cost accounting are not re-implemented here.
package agents

import (
	"context"
	"strings"

	"interviewcore/internal/interview"
	"interviewcore/internal/orchestrator"
)

// minDocumentChars guards against accidentally passing a filename or an
// extraction failure instead of document text.
const minDocumentChars = 50

// DocumentInput is the raw text of the three uploaded documents.
type DocumentInput struct {
	ResumeText          string
	RoleDescriptionText string
	JobOfferingText     string
}

// Validate rejects blank or implausibly short documents.
func (in DocumentInput) Validate() error {
	fields := []struct {
		name string
		text string
	}{
		{"resume_text", in.ResumeText},
		{"role_description_text", in.RoleDescriptionText},
		{"job_offering_text", in.JobOfferingText},
	}
	for _, f := range fields {
		if err := orchestrator.ValidateInputs(map[string]string{f.name: f.text}); err != nil {
			return err
		}
		if len(strings.TrimSpace(f.text)) < minDocumentChars {
			return &orchestrator.ValidationError{
				Field:  f.name,
				Reason: "text too short to analyze",
			}
		}
	}
	return nil
}

// DocumentAnalysisAgent scores candidate-role fit from the uploaded
// documents. Deterministic (temperature 0) so identical documents cache.
type DocumentAnalysisAgent struct {
	orc   *orchestrator.Orchestrator
	model string
}

func NewDocumentAnalysisAgent(orc *orchestrator.Orchestrator, model string) *DocumentAnalysisAgent {
	return &DocumentAnalysisAgent{orc: orc, model: model}
}

// Analyze returns the structured match analysis for the documents.
// acct may be nil to skip cost tracking.
func (a *DocumentAnalysisAgent) Analyze(ctx context.Context, in DocumentInput, acct *orchestrator.Accounting) (*interview.MatchAnalysis, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	prompt, err := documentAnalysisPrompt.Render(map[string]any{
		"resume_text":           in.ResumeText,
		"role_description_text": in.RoleDescriptionText,
		"job_offering_text":     in.JobOfferingText,
	})
	if err != nil {
		return nil, err
	}

	res, err := a.orc.Invoke(ctx, orchestrator.Task{
		Agent:       "document_analysis",
		Model:       a.model,
		Temperature: 0,
		System:      documentAnalysisSystem,
		Prompt:      prompt,
		UseCache:    true,
		Parser: &orchestrator.JSONParser{
			New: func() any { return &interview.MatchAnalysis{} },
		},
		Accounting: acct,
	})
	if err != nil {
		return nil, err
	}

	return res.Output.(*interview.MatchAnalysis), nil
}
