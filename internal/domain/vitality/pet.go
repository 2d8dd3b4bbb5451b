package vitality

import (
	"errors"
	"strings"
	"time"
)

var ErrUnknownInteraction = errors.New("unknown interaction")

type Interaction string

const (
	InteractionFeed  Interaction = "feed"
	InteractionBathe Interaction = "bathe"
	InteractionPlay  Interaction = "play"
	InteractionRest  Interaction = "rest"
)

var Interactions = []Interaction{InteractionFeed, InteractionBathe, InteractionPlay, InteractionRest}

func ParseInteraction(raw string) (Interaction, error) {
	switch i := Interaction(strings.ToLower(strings.TrimSpace(raw))); i {
	case InteractionFeed, InteractionBathe, InteractionPlay, InteractionRest:
		return i, nil
	default:
		return "", ErrUnknownInteraction
	}
}

// Effect returns the two attributes an interaction raises. Rest is an alias of play.
func (i Interaction) Effect() (Attribute, Attribute) {
	switch i {
	case InteractionFeed:
		return Hunger, Health
	case InteractionBathe:
		return Cleanliness, Mood
	default:
		return Mood, Stamina
	}
}

type InteractionRule struct {
	Kind            Interaction
	FirstIncrease   int
	SecondIncrease  int
	BonusExperience int
	Today           string
}

type InteractionOutcome struct {
	Before          Stats `json:"before"`
	After           Stats `json:"after"`
	BonusAwarded    bool  `json:"daily_bonus_awarded"`
	BonusExperience int   `json:"bonus_experience"`
	HealthRestored  bool  `json:"health_restored"`
}

type DecayAmounts struct {
	Hunger      int `json:"hunger"`
	Mood        int `json:"mood"`
	Stamina     int `json:"stamina"`
	Cleanliness int `json:"cleanliness"`
	Health      int `json:"health"`
}

func NewPet(id, userID, name string, now time.Time) Pet {
	return Pet{
		ID:             id,
		UserID:         userID,
		Name:           name,
		Stats:          FullStats(),
		AdventureLevel: DefaultLevel,
		Version:        1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (p Pet) OwnedBy(userID string) bool {
	return p.UserID != "" && p.UserID == userID
}

func (p Pet) Level() int {
	if p.AdventureLevel < DefaultLevel {
		return DefaultLevel
	}
	return p.AdventureLevel
}

func (p Pet) BonusAvailable(today string) bool {
	return p.LastBonusDate != today
}

func (p *Pet) GainExperience(amount int) {
	if amount <= 0 {
		return
	}
	p.Experience += amount
}

// Interact raises the two attributes of the interaction, then runs the
// full-stats checks. The bonus is granted at most once per local day.
func (p *Pet) Interact(rule InteractionRule) InteractionOutcome {
	out := InteractionOutcome{Before: p.Stats}
	first, second := rule.Kind.Effect()
	d := Delta{}.
		With(first, maxZero(rule.FirstIncrease)).
		With(second, maxZero(rule.SecondIncrease))
	p.Stats = p.Stats.Apply(d)

	if p.Stats.IsFull() && p.BonusAvailable(rule.Today) {
		p.GainExperience(rule.BonusExperience)
		p.LastBonusDate = rule.Today
		out.BonusAwarded = true
		out.BonusExperience = maxZero(rule.BonusExperience)
	}
	if p.Stats.IsFull() && p.Stats.Health < MaxValue {
		p.Stats.Health = MaxValue
		out.HealthRestored = true
	}
	out.After = p.Stats
	return out
}

func (a DecayAmounts) Delta() Delta {
	return Delta{
		Hunger:      maxZero(a.Hunger),
		Mood:        maxZero(a.Mood),
		Stamina:     maxZero(a.Stamina),
		Cleanliness: maxZero(a.Cleanliness),
		Health:      maxZero(a.Health),
	}.Negate()
}

func (p *Pet) Decay(a DecayAmounts) {
	p.Stats = p.Stats.Apply(a.Delta())
}

func maxZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
