package adventure

import (
	"time"

	"petquest/internal/domain/vitality"
)

const DefaultMaxLevel = 3

type OutcomeDeltas struct {
	Win  vitality.Delta
	Loss vitality.Delta
}

func DefaultOutcomeDeltas() OutcomeDeltas {
	return OutcomeDeltas{
		Win:  vitality.Delta{Hunger: -20, Mood: 30, Stamina: -20, Cleanliness: -20},
		Loss: vitality.Delta{Hunger: -20, Mood: -30, Stamina: -20, Cleanliness: -20},
	}
}

// For never touches health; only decay and interactions move it.
func (d OutcomeDeltas) For(win bool) vitality.Delta {
	out := d.Loss
	if win {
		out = d.Win
	}
	out.Health = 0
	return out
}

type Rules struct {
	Deltas   OutcomeDeltas
	MaxLevel int
}

func DefaultRules() Rules {
	return Rules{Deltas: DefaultOutcomeDeltas(), MaxLevel: DefaultMaxLevel}
}

func (r Rules) maxLevel() int {
	if r.MaxLevel < vitality.DefaultLevel {
		return DefaultMaxLevel
	}
	return r.MaxLevel
}

// ClampLevel keeps a level inside 1..max.
func (r Rules) ClampLevel(level int) int {
	if level < vitality.DefaultLevel {
		return vitality.DefaultLevel
	}
	if top := r.maxLevel(); level > top {
		return top
	}
	return level
}

// NextLevel is the level the following start will use.
func (r Rules) NextLevel(played int, win bool) int {
	level := r.ClampLevel(played)
	if win {
		level++
	}
	return r.ClampLevel(level)
}

type Settlement struct {
	Before           vitality.Stats `json:"before"`
	After            vitality.Stats `json:"after"`
	LevelBefore      int            `json:"level_before"`
	LevelAfter       int            `json:"level_after"`
	ExperienceGained int            `json:"experience_gained"`
}

// Settle resolves the session and applies its outcome to the pet.
func Settle(pet *vitality.Pet, session *Session, o Outcome, rules Rules, now time.Time) (Settlement, error) {
	if err := session.Resolve(o, now); err != nil {
		return Settlement{}, err
	}
	out := Settlement{
		Before:           pet.Stats,
		LevelBefore:      pet.Level(),
		ExperienceGained: o.Experience,
	}
	pet.Stats = pet.Stats.Apply(rules.Deltas.For(o.Win))
	pet.GainExperience(o.Experience)
	pet.AdventureLevel = rules.NextLevel(pet.Level(), o.Win)
	pet.UpdatedAt = now
	out.After = pet.Stats
	out.LevelAfter = pet.AdventureLevel
	return out, nil
}
