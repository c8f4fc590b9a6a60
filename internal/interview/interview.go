package interview

import "time"

// MatchAnalysis is the structured candidate-role fit produced by the
// document analysis agent. An interview cannot become READY without one.
type MatchAnalysis struct {
	MatchScore   int      `json:"match_score"`
	MatchSummary string   `json:"match_summary"`
	FocusAreas   []string `json:"focus_areas"`
}

// AnswerEvaluation is the structured scoring of one candidate answer.
type AnswerEvaluation struct {
	Score        int    `json:"score"`
	Rationale    string `json:"rationale"`
	Evidence     string `json:"evidence"`
	FollowupHint string `json:"followup_hint,omitempty"`
}

// Interview is the lifecycle entity the state machine guards. Rows are
// owned by the surrounding persistence layer; this package only reads
// the fields below and, through Transition, writes Status.
type Interview struct {
	ID              int64
	Status          Status
	MatchAnalysis   *MatchAnalysis
	CandidateEmail  string
	TokenExpiresAt  time.Time
	TargetQuestions int
	QuestionsAsked  int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TokenExpired reports whether the candidate access token has lapsed.
// A zero TokenExpiresAt means no token has been issued yet and does not
// count as expired.
func (iv *Interview) TokenExpired(now time.Time) bool {
	return !iv.TokenExpiresAt.IsZero() && now.After(iv.TokenExpiresAt)
}
