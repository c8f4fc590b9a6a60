package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Request is one completion exchange: a rendered prompt plus model and
// sampling configuration. The core never inspects the text it carries.
type Request struct {
	Model       string
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// Validate checks the request before it goes upstream.
func (r *Request) Validate() error {
	if r.Model == "" {
		return errors.New("model is required")
	}
	if strings.TrimSpace(r.Prompt) == "" {
		return errors.New("prompt is required")
	}
	if r.Temperature < 0 || r.Temperature > 2 {
		return errors.New("temperature must be between 0 and 2")
	}
	return nil
}

// Usage is the provider-reported token accounting for one exchange.
// When present it takes precedence over local estimation.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Response carries the completion text and, when the provider reports
// them, exact token counts.
type Response struct {
	Text  string
	Model string
	Usage *Usage
}

// Provider is the port every LLM backend implements. Implementations make
// exactly one upstream attempt per call; retry policy belongs to the
// orchestrator.
type Provider interface {
	Complete(ctx context.Context, req *Request) (*Response, error)
}

// ProviderError is a structured upstream failure: a non-2xx status or a
// decoded provider error body.
type ProviderError struct {
	Status  int
	Type    string
	Message string
}

func (e *ProviderError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("provider error %d: %s (%s)", e.Status, e.Message, e.Type)
	}
	return fmt.Sprintf("provider error %d: %s", e.Status, e.Message)
}
