package adventure

import (
	"errors"
	"testing"
	"time"

	"petquest/internal/domain/vitality"
)

func TestNextLevelWinsCapAndLossesHold(t *testing.T) {
	r := DefaultRules()
	level := 1
	for i := 0; i < 5; i++ {
		level = r.NextLevel(level, true)
	}
	if level != 3 {
		t.Fatalf("expected cap 3 after five wins, got %d", level)
	}
	if got := r.NextLevel(2, false); got != 2 {
		t.Fatalf("expected loss to hold level 2, got %d", got)
	}
	if got := r.NextLevel(0, false); got != 1 {
		t.Fatalf("expected floor 1, got %d", got)
	}
}

func TestNWinsReachMinOnePlusNCap(t *testing.T) {
	r := Rules{Deltas: DefaultOutcomeDeltas(), MaxLevel: 5}
	for n := 0; n <= 6; n++ {
		level := 1
		for i := 0; i < n; i++ {
			level = r.NextLevel(level, true)
		}
		want := 1 + n
		if want > 5 {
			want = 5
		}
		if level != want {
			t.Fatalf("after %d wins: got %d want %d", n, level, want)
		}
	}
}

func TestSettleWinAppliesDeltasAndLevelsUp(t *testing.T) {
	now := time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)
	pet := vitality.Pet{Stats: vitality.Stats{Hunger: 50, Mood: 80, Stamina: 10, Cleanliness: 50, Health: 40}, AdventureLevel: 1}
	s := NewSession("s1", "p1", "u1", 1, now)

	out, err := Settle(&pet, &s, Outcome{Win: true, Points: 10, Experience: 12}, DefaultRules(), now)
	if err != nil {
		t.Fatalf("settle: %v", err)
	}
	want := vitality.Stats{Hunger: 30, Mood: 100, Stamina: 0, Cleanliness: 30, Health: 40}
	if pet.Stats != want {
		t.Fatalf("stats mismatch: got=%+v want=%+v", pet.Stats, want)
	}
	if pet.AdventureLevel != 2 || out.LevelBefore != 1 || out.LevelAfter != 2 {
		t.Fatalf("expected level 1->2, got %+v pet=%d", out, pet.AdventureLevel)
	}
	if pet.Experience != 12 {
		t.Fatalf("expected exp 12, got %d", pet.Experience)
	}
}

func TestSettleLossKeepsLevel(t *testing.T) {
	now := time.Now()
	pet := vitality.Pet{Stats: vitality.FullStats(), AdventureLevel: 2}
	s := NewSession("s1", "p1", "u1", 2, now)

	if _, err := Settle(&pet, &s, Outcome{}, DefaultRules(), now); err != nil {
		t.Fatalf("settle: %v", err)
	}
	want := vitality.Stats{Hunger: 80, Mood: 70, Stamina: 80, Cleanliness: 80, Health: 100}
	if pet.Stats != want {
		t.Fatalf("stats mismatch: got=%+v want=%+v", pet.Stats, want)
	}
	if pet.AdventureLevel != 2 || s.Status != StatusLost {
		t.Fatalf("expected level 2 and lost, got level=%d status=%s", pet.AdventureLevel, s.Status)
	}
}

func TestOutcomeDeltasNeverTouchHealth(t *testing.T) {
	d := OutcomeDeltas{Win: vitality.Delta{Health: -50}, Loss: vitality.Delta{Health: 20}}
	if d.For(true).Health != 0 || d.For(false).Health != 0 {
		t.Fatalf("health delta must be dropped")
	}
}

func TestRewardBoundsCheck(t *testing.T) {
	b := DefaultRewardBounds(1)
	if err := b.Check(Outcome{Win: true, Points: 50, Experience: 30}); err != nil {
		t.Fatalf("expected in range, got %v", err)
	}
	err := b.Check(Outcome{Win: false, Points: 11})
	var rangeErr *RewardOutOfRangeError
	if !errors.As(err, &rangeErr) || rangeErr.Field != "points" {
		t.Fatalf("expected points range error, got %v", err)
	}
}

func TestDefaultDifficulty(t *testing.T) {
	d := DefaultDifficulty(2)
	if d.MonsterCount != 5 || d.SpeedMultiplier.String() != "1.25" {
		t.Fatalf("unexpected level 2 difficulty: %+v", d)
	}
	d = DefaultDifficulty(4)
	if d.MonsterCount != 9 || d.SpeedMultiplier.String() != "1.75" {
		t.Fatalf("unexpected level 4 difficulty: count=%d speed=%s", d.MonsterCount, d.SpeedMultiplier)
	}
}

func TestSettleProgressesFromPetLevelNotSessionLevel(t *testing.T) {
	now := time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)
	rules := DefaultRules()

	pet := vitality.Pet{Stats: vitality.FullStats(), AdventureLevel: 2}
	stale := NewSession("s1", "p1", "u1", 1, now)
	if _, err := Settle(&pet, &stale, Outcome{}, rules, now); err != nil {
		t.Fatalf("settle loss: %v", err)
	}
	if pet.AdventureLevel != 2 {
		t.Fatalf("loss changed level: got %d want 2", pet.AdventureLevel)
	}

	stale = NewSession("s2", "p1", "u1", 1, now)
	out, err := Settle(&pet, &stale, Outcome{Win: true}, rules, now)
	if err != nil {
		t.Fatalf("settle win: %v", err)
	}
	if pet.AdventureLevel != 3 || out.LevelBefore != 2 || out.LevelAfter != 3 {
		t.Fatalf("expected level 2->3, got %+v pet=%d", out, pet.AdventureLevel)
	}
}
