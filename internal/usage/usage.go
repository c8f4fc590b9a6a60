// Package usage persists accounting rows for billed or cached LLM exchanges.
package usage

import (
	"context"
	"time"
)

// Record is one billed-or-cached LLM exchange. Rows are written once by
// the orchestrator's accounting side-channel and never mutated.
type Record struct {
	ID               int64
	InterviewID      int64
	AgentName        string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	EstimatedCost    float64
	Cached           bool
	CreatedAt        time.Time
}

// Session is a transactional handle supplied per call by the caller.
// The orchestrator appends at most one record and commits; any failure
// in this side-channel is rolled back, logged and swallowed.
type Session interface {
	Append(ctx context.Context, rec Record) error
	Commit() error
	Rollback() error
}

// Store opens sessions and answers reporting queries.
type Store interface {
	Begin(ctx context.Context) (Session, error)
	ByInterview(ctx context.Context, interviewID int64) ([]Record, error)
	Summary(ctx context.Context) ([]Summary, error)
	TotalCost(ctx context.Context) (float64, error)
	Close() error
}

// Summary aggregates usage per agent and model.
type Summary struct {
	AgentName        string
	Model            string
	Requests         int64
	CachedRequests   int64
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
	EstimatedCost    float64
}
