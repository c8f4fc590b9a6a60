package agents

import (
	"context"
	"strings"

	"interviewcore/internal/orchestrator"
)

// QuestionInput drives generation of the next interview question.
type QuestionInput struct {
	FocusAreas      []string
	DifficultyLevel float64
	ChatHistory     string
	QuestionsAsked  int
}

// Validate checks the focus areas and the 3-10 difficulty scale.
func (in QuestionInput) Validate() error {
	if len(in.FocusAreas) == 0 {
		return &orchestrator.ValidationError{Field: "focus_areas", Reason: "at least one focus area is required"}
	}
	if in.DifficultyLevel < 3 || in.DifficultyLevel > 10 {
		return &orchestrator.ValidationError{Field: "difficulty_level", Reason: "must be between 3 and 10"}
	}
	if in.QuestionsAsked < 0 {
		return &orchestrator.ValidationError{Field: "questions_asked", Reason: "must not be negative"}
	}
	return nil
}

// QuestionGenerationAgent produces the next adaptive question. It runs
// at temperature 0.7 for variety and skips the cache: the conversation
// context is different on every call anyway.
type QuestionGenerationAgent struct {
	orc   *orchestrator.Orchestrator
	model string
}

func NewQuestionGenerationAgent(orc *orchestrator.Orchestrator, model string) *QuestionGenerationAgent {
	return &QuestionGenerationAgent{orc: orc, model: model}
}

// Generate returns the next question to ask.
func (a *QuestionGenerationAgent) Generate(ctx context.Context, in QuestionInput, acct *orchestrator.Accounting) (string, error) {
	if err := in.Validate(); err != nil {
		return "", err
	}

	history := in.ChatHistory
	if strings.TrimSpace(history) == "" {
		history = "No previous questions yet."
	}

	prompt, err := questionGenerationPrompt.Render(map[string]any{
		"focus_areas":      strings.Join(in.FocusAreas, ", "),
		"difficulty_level": in.DifficultyLevel,
		"chat_history":     history,
		"questions_asked":  in.QuestionsAsked,
	})
	if err != nil {
		return "", err
	}

	res, err := a.orc.Invoke(ctx, orchestrator.Task{
		Agent:       "question_generation",
		Model:       a.model,
		Temperature: 0.7,
		System:      questionGenerationSystem,
		Prompt:      prompt,
		Accounting:  acct,
	})
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(res.Text), nil
}
