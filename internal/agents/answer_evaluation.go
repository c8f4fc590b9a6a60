package agents

import (
	"context"

	"interviewcore/internal/interview"
	"interviewcore/internal/orchestrator"
)

// AnswerInput is one question/answer pair to score.
type AnswerInput struct {
	Question string
	Answer   string
}

// Validate rejects blank question or answer text.
func (in AnswerInput) Validate() error {
	return orchestrator.ValidateInputs(map[string]string{
		"question": in.Question,
		"answer":   in.Answer,
	})
}

// AnswerEvaluationAgent scores candidate answers. Deterministic
// (temperature 0), so re-submitting the same answer is a cache hit.
type AnswerEvaluationAgent struct {
	orc   *orchestrator.Orchestrator
	model string
}

func NewAnswerEvaluationAgent(orc *orchestrator.Orchestrator, model string) *AnswerEvaluationAgent {
	return &AnswerEvaluationAgent{orc: orc, model: model}
}

// Evaluate returns the structured evaluation for one answer.
func (a *AnswerEvaluationAgent) Evaluate(ctx context.Context, in AnswerInput, acct *orchestrator.Accounting) (*interview.AnswerEvaluation, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	prompt, err := answerEvaluationPrompt.Render(map[string]any{
		"question": in.Question,
		"answer":   in.Answer,
	})
	if err != nil {
		return nil, err
	}

	res, err := a.orc.Invoke(ctx, orchestrator.Task{
		Agent:       "answer_evaluation",
		Model:       a.model,
		Temperature: 0,
		System:      answerEvaluationSystem,
		Prompt:      prompt,
		UseCache:    true,
		Parser: &orchestrator.JSONParser{
			New: func() any { return &interview.AnswerEvaluation{} },
		},
		Accounting: acct,
	})
	if err != nil {
		return nil, err
	}

	return res.Output.(*interview.AnswerEvaluation), nil
}
