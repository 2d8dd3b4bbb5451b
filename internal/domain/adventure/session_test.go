package adventure

import (
	"math"
	"testing"
	"time"
)

func TestSessionResolveTransitions(t *testing.T) {
	now := time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)
	s := NewSession("s1", "p1", "u1", 2, now)
	if !s.InProgress() || s.EndedAt != nil {
		t.Fatalf("expected fresh in-progress session, got %+v", s)
	}

	if err := s.Resolve(Outcome{Win: true, Points: 20, Experience: 15, RewardCode: "R-1"}, now.Add(time.Minute)); err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if s.Status != StatusWon || s.EndedAt == nil || s.Points != 20 || s.Experience != 15 || s.RewardCode != "R-1" {
		t.Fatalf("unexpected resolved session: %+v", s)
	}
	if err := s.Resolve(Outcome{}, now); err != ErrNotInProgress {
		t.Fatalf("expected ErrNotInProgress on second resolve, got %v", err)
	}
	if err := s.Abort(now); err != ErrNotInProgress {
		t.Fatalf("expected ErrNotInProgress on abort after resolve, got %v", err)
	}
}

func TestSessionAbort(t *testing.T) {
	now := time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)
	s := NewSession("s1", "p1", "u1", 1, now)
	if err := s.Abort(now); err != nil {
		t.Fatalf("abort: %v", err)
	}
	if s.Status != StatusAborted || s.EndedAt == nil || !s.Status.Terminal() {
		t.Fatalf("unexpected aborted session: %+v", s)
	}
}

func TestSessionResolveRejectsNegativeRewards(t *testing.T) {
	s := NewSession("s1", "p1", "u1", 1, time.Now())
	if err := s.Resolve(Outcome{Points: -1}, time.Now()); err != ErrNegativeReward {
		t.Fatalf("expected ErrNegativeReward, got %v", err)
	}
	if !s.InProgress() {
		t.Fatalf("rejected outcome must leave session in progress")
	}
}

func TestOutcomeValidateRejectsRewardsBeyondInt32(t *testing.T) {
	if err := (Outcome{Points: math.MaxInt32, Experience: math.MaxInt32}).Validate(); err != nil {
		t.Fatalf("max int32 must be accepted, got %v", err)
	}
	if err := (Outcome{Points: math.MaxInt32 + 1}).Validate(); err != ErrRewardTooLarge {
		t.Fatalf("expected ErrRewardTooLarge for points, got %v", err)
	}
	if err := (Outcome{Experience: math.MaxInt32 + 1}).Validate(); err != ErrRewardTooLarge {
		t.Fatalf("expected ErrRewardTooLarge for experience, got %v", err)
	}
}
