package adventure

import (
	"context"

	"petquest/internal/app/settings"
	domain "petquest/internal/domain/adventure"
	"petquest/internal/domain/vitality"
)

type deltaKeys struct {
	hunger, mood, stamina, cleanliness string
}

var (
	winKeys  = deltaKeys{settings.KeyWinHungerDelta, settings.KeyWinMoodDelta, settings.KeyWinStaminaDelta, settings.KeyWinCleanlinessDelta}
	lossKeys = deltaKeys{settings.KeyLossHungerDelta, settings.KeyLossMoodDelta, settings.KeyLossStaminaDelta, settings.KeyLossCleanlinessDelta}
)

func (u UseCase) rules(ctx context.Context) (domain.Rules, error) {
	rules := domain.DefaultRules()
	maxLevel, err := u.Settings.Int(ctx, settings.KeyAdventureMaxLevel, domain.DefaultMaxLevel)
	if err != nil {
		return domain.Rules{}, err
	}
	rules.MaxLevel = maxLevel
	if rules.Deltas.Win, err = u.delta(ctx, winKeys, rules.Deltas.Win); err != nil {
		return domain.Rules{}, err
	}
	if rules.Deltas.Loss, err = u.delta(ctx, lossKeys, rules.Deltas.Loss); err != nil {
		return domain.Rules{}, err
	}
	return rules, nil
}

func (u UseCase) delta(ctx context.Context, keys deltaKeys, fallback vitality.Delta) (vitality.Delta, error) {
	var (
		out vitality.Delta
		err error
	)
	if out.Hunger, err = u.Settings.Int(ctx, keys.hunger, fallback.Hunger); err != nil {
		return vitality.Delta{}, err
	}
	if out.Mood, err = u.Settings.Int(ctx, keys.mood, fallback.Mood); err != nil {
		return vitality.Delta{}, err
	}
	if out.Stamina, err = u.Settings.Int(ctx, keys.stamina, fallback.Stamina); err != nil {
		return vitality.Delta{}, err
	}
	if out.Cleanliness, err = u.Settings.Int(ctx, keys.cleanliness, fallback.Cleanliness); err != nil {
		return vitality.Delta{}, err
	}
	return out, nil
}

func (u UseCase) difficulty(ctx context.Context, level int) (domain.Difficulty, error) {
	out := domain.DefaultDifficulty(level)
	count, err := u.Settings.Int(ctx, settings.LevelMonsterCountKey(level), out.MonsterCount)
	if err != nil {
		return domain.Difficulty{}, err
	}
	speed, err := u.Settings.Decimal(ctx, settings.LevelSpeedMultiplierKey(level), out.SpeedMultiplier)
	if err != nil {
		return domain.Difficulty{}, err
	}
	out.MonsterCount = count
	out.SpeedMultiplier = speed
	return out, nil
}

func (u UseCase) rewardBounds(ctx context.Context, level int) (domain.RewardBounds, error) {
	var out domain.RewardBounds
	ok, err := u.Settings.JSON(ctx, settings.LevelRewardBoundsKey(level), &out)
	if err != nil {
		return domain.RewardBounds{}, err
	}
	if !ok {
		return domain.DefaultRewardBounds(level), nil
	}
	return out, nil
}
