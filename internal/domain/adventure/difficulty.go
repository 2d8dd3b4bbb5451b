package adventure

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Difficulty struct {
	Level           int             `json:"level"`
	MonsterCount    int             `json:"monster_count"`
	SpeedMultiplier decimal.Decimal `json:"speed_multiplier"`
}

var defaultMonsterCounts = map[int]int{1: 3, 2: 5, 3: 8}

var defaultSpeedMultipliers = map[int]decimal.Decimal{
	1: decimal.NewFromInt(1),
	2: decimal.RequireFromString("1.25"),
	3: decimal.RequireFromString("1.5"),
}

func DefaultDifficulty(level int) Difficulty {
	count, ok := defaultMonsterCounts[level]
	if !ok {
		count = 3 + 2*(level-1)
	}
	speed, ok := defaultSpeedMultipliers[level]
	if !ok {
		speed = decimal.NewFromInt(1).Add(decimal.RequireFromString("0.25").Mul(decimal.NewFromInt(int64(level - 1))))
	}
	return Difficulty{Level: level, MonsterCount: count, SpeedMultiplier: speed}
}

type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func (r Range) Contains(v int) bool {
	return v >= r.Min && v <= r.Max
}

type Bounds struct {
	Points     Range `json:"points"`
	Experience Range `json:"experience"`
}

type RewardBounds struct {
	Win  Bounds `json:"win"`
	Loss Bounds `json:"loss"`
}

func DefaultRewardBounds(level int) RewardBounds {
	if level < 1 {
		level = 1
	}
	return RewardBounds{
		Win: Bounds{
			Points:     Range{Min: 0, Max: 50 * level},
			Experience: Range{Min: 0, Max: 30 * level},
		},
		Loss: Bounds{
			Points:     Range{Min: 0, Max: 10 * level},
			Experience: Range{Min: 0, Max: 10 * level},
		},
	}
}

type RewardOutOfRangeError struct {
	Field string
	Value int
	Range Range
}

func (e *RewardOutOfRangeError) Error() string {
	return fmt.Sprintf("%s %d outside allowed range %d-%d", e.Field, e.Value, e.Range.Min, e.Range.Max)
}

func (b RewardBounds) Check(o Outcome) error {
	bounds := b.Loss
	if o.Win {
		bounds = b.Win
	}
	if !bounds.Points.Contains(o.Points) {
		return &RewardOutOfRangeError{Field: "points", Value: o.Points, Range: bounds.Points}
	}
	if !bounds.Experience.Contains(o.Experience) {
		return &RewardOutOfRangeError{Field: "experience", Value: o.Experience, Range: bounds.Experience}
	}
	return nil
}
