package interview

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func validMatch() *MatchAnalysis {
	return &MatchAnalysis{
		MatchScore:   7,
		MatchSummary: "solid backend background",
		FocusAreas:   []string{"concurrency", "databases"},
	}
}

func TestCanTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusDraft, StatusReady, true},
		{StatusReady, StatusAssigned, true},
		{StatusAssigned, StatusInProgress, true},
		{StatusInProgress, StatusCompleted, true},

		{StatusDraft, StatusAssigned, false},    // skip
		{StatusDraft, StatusCompleted, false},   // skip
		{StatusReady, StatusDraft, false},       // backward
		{StatusInProgress, StatusReady, false},  // backward
		{StatusDraft, StatusDraft, false},       // self
		{StatusCompleted, StatusDraft, false},   // out of terminal
		{StatusCompleted, StatusCompleted, false},
		{Status("BOGUS"), StatusReady, false},
		{StatusDraft, Status("BOGUS"), false},
	}

	for _, tc := range tests {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestStatusValid(t *testing.T) {
	t.Parallel()

	for _, s := range []Status{StatusDraft, StatusReady, StatusAssigned, StatusInProgress, StatusCompleted} {
		if !s.Valid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if Status("PAUSED").Valid() {
		t.Error("PAUSED should not be valid")
	}
}

func TestValidateTransitionOrdering(t *testing.T) {
	t.Parallel()

	iv := &Interview{Status: StatusDraft, MatchAnalysis: validMatch()}
	if err := ValidateTransition(iv, StatusAssigned); err == nil {
		t.Fatal("expected error for skipped step")
	}

	done := &Interview{Status: StatusCompleted}
	err := ValidateTransition(done, StatusDraft)
	var terr *StateTransitionError
	if !errors.As(err, &terr) {
		t.Fatalf("expected StateTransitionError, got %v", err)
	}
	if !strings.Contains(terr.Reason, "terminal") {
		t.Fatalf("expected terminal reason, got %q", terr.Reason)
	}
}

func TestValidateTransitionPreconditions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		iv         *Interview
		to         Status
		wantErr    bool
		wantReason string
	}{
		{
			name:       "ready requires match analysis",
			iv:         &Interview{Status: StatusDraft},
			to:         StatusReady,
			wantErr:    true,
			wantReason: "match_analysis",
		},
		{
			name: "ready with match analysis",
			iv:   &Interview{Status: StatusDraft, MatchAnalysis: validMatch()},
			to:   StatusReady,
		},
		{
			name:       "assigned requires candidate email",
			iv:         &Interview{Status: StatusReady, MatchAnalysis: validMatch()},
			to:         StatusAssigned,
			wantErr:    true,
			wantReason: "candidate_email",
		},
		{
			name: "assigned with candidate email",
			iv: &Interview{
				Status:         StatusReady,
				MatchAnalysis:  validMatch(),
				CandidateEmail: "candidate@example.com",
			},
			to: StatusAssigned,
		},
		{
			name: "in progress rejects expired token",
			iv: &Interview{
				Status:         StatusAssigned,
				CandidateEmail: "candidate@example.com",
				TokenExpiresAt: time.Now().Add(-time.Minute),
			},
			to:         StatusInProgress,
			wantErr:    true,
			wantReason: "token",
		},
		{
			name: "in progress with live token",
			iv: &Interview{
				Status:         StatusAssigned,
				CandidateEmail: "candidate@example.com",
				TokenExpiresAt: time.Now().Add(time.Hour),
			},
			to: StatusInProgress,
		},
		{
			name: "in progress with no token issued",
			iv: &Interview{
				Status:         StatusAssigned,
				CandidateEmail: "candidate@example.com",
			},
			to: StatusInProgress,
		},
		{
			name: "completed requires enough questions",
			iv: &Interview{
				Status:          StatusInProgress,
				TargetQuestions: 8,
				QuestionsAsked:  5,
			},
			to:         StatusCompleted,
			wantErr:    true,
			wantReason: "5 of 8 questions",
		},
		{
			name: "completed once questions are done",
			iv: &Interview{
				Status:          StatusInProgress,
				TargetQuestions: 8,
				QuestionsAsked:  8,
			},
			to: StatusCompleted,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateTransition(tc.iv, tc.to)
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var terr *StateTransitionError
			if !errors.As(err, &terr) {
				t.Fatalf("expected StateTransitionError, got %v", err)
			}
			if !strings.Contains(terr.Reason, tc.wantReason) {
				t.Fatalf("reason %q does not mention %q", terr.Reason, tc.wantReason)
			}
		})
	}
}

func TestTransitionMutatesOnSuccess(t *testing.T) {
	t.Parallel()

	iv := &Interview{Status: StatusDraft, MatchAnalysis: validMatch()}
	before := iv.UpdatedAt

	if err := Transition(iv, StatusReady); err != nil {
		t.Fatal(err)
	}
	if iv.Status != StatusReady {
		t.Fatalf("expected READY, got %s", iv.Status)
	}
	if !iv.UpdatedAt.After(before) {
		t.Fatal("UpdatedAt should advance on transition")
	}
}

func TestTransitionLeavesInterviewOnFailure(t *testing.T) {
	t.Parallel()

	iv := &Interview{Status: StatusDraft}
	if err := Transition(iv, StatusReady); err == nil {
		t.Fatal("expected precondition error")
	}
	if iv.Status != StatusDraft {
		t.Fatalf("failed transition must not mutate status, got %s", iv.Status)
	}
}

func TestValidateTransitionNilInterview(t *testing.T) {
	t.Parallel()

	if err := ValidateTransition(nil, StatusReady); err == nil {
		t.Fatal("expected error for nil interview")
	}
}
