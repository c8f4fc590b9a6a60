package interview

import (
	"fmt"
	"time"
)

// StateTransitionError is an illegal or precondition-failing lifecycle
// transition. The violated rule is always named so callers can surface it.
type StateTransitionError struct {
	From   Status
	To     Status
	Reason string
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("invalid transition %s -> %s: %s", e.From, e.To, e.Reason)
}

// ValidateTransition checks that moving iv to the target status is legal:
// first the lifecycle ordering, then the target's data-readiness
// preconditions. It inspects the interview but never mutates it.
func ValidateTransition(iv *Interview, to Status) error {
	if iv == nil {
		return &StateTransitionError{To: to, Reason: "interview is nil"}
	}

	if !CanTransition(iv.Status, to) {
		reason := "transitions must advance one step forward"
		if iv.Status == StatusCompleted {
			reason = "COMPLETED is terminal"
		}
		return &StateTransitionError{From: iv.Status, To: to, Reason: reason}
	}

	switch to {
	case StatusReady:
		if iv.MatchAnalysis == nil {
			return &StateTransitionError{
				From:   iv.Status,
				To:     to,
				Reason: "precondition not met: match_analysis is missing",
			}
		}
	case StatusAssigned:
		if iv.CandidateEmail == "" {
			return &StateTransitionError{
				From:   iv.Status,
				To:     to,
				Reason: "precondition not met: candidate_email is missing",
			}
		}
	case StatusInProgress:
		if iv.TokenExpired(time.Now()) {
			return &StateTransitionError{
				From:   iv.Status,
				To:     to,
				Reason: "precondition not met: access token has expired",
			}
		}
	case StatusCompleted:
		if iv.QuestionsAsked < iv.TargetQuestions {
			return &StateTransitionError{
				From: iv.Status,
				To:   to,
				Reason: fmt.Sprintf(
					"precondition not met: %d of %d questions asked",
					iv.QuestionsAsked, iv.TargetQuestions,
				),
			}
		}
	}

	return nil
}

// Transition validates and applies the status change. This is the only
// sanctioned way to mutate Interview.Status.
func Transition(iv *Interview, to Status) error {
	if err := ValidateTransition(iv, to); err != nil {
		return err
	}
	iv.Status = to
	iv.UpdatedAt = time.Now()
	return nil
}
