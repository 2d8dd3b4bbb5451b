package settings

import "fmt"

const (
	KeyTimeZone = "App.TimeZone"

	KeyFeedHungerIncrease       = "Pet.Interaction.Feed.HungerIncrease"
	KeyFeedHealthIncrease       = "Pet.Interaction.Feed.HealthIncrease"
	KeyBatheCleanlinessIncrease = "Pet.Interaction.Bathe.CleanlinessIncrease"
	KeyBatheMoodIncrease        = "Pet.Interaction.Bathe.MoodIncrease"
	KeyPlayMoodIncrease         = "Pet.Interaction.Play.MoodIncrease"
	KeyPlayStaminaIncrease      = "Pet.Interaction.Play.StaminaIncrease"

	KeyFullStatsBonusExperience = "Pet.DailyFullStatsBonus.Experience"

	KeyDecayEnabled             = "Pet.DailyDecay.Enabled"
	KeyDecayHunger              = "Pet.DailyDecay.HungerDecay"
	KeyDecayMood                = "Pet.DailyDecay.MoodDecay"
	KeyDecayStamina             = "Pet.DailyDecay.StaminaDecay"
	KeyDecayCleanliness         = "Pet.DailyDecay.CleanlinessDecay"
	KeyDecayHealth              = "Pet.DailyDecay.HealthDecay"
	KeyDecayRetryBackoffMinutes = "Pet.DailyDecay.RetryBackoffMinutes"

	KeyAdventureMaxLevel       = "Adventure.MaxLevel"
	KeyDailyLimitDefault       = "Adventure.DailyLimit.Default"
	KeyRewardValidationEnabled = "Adventure.RewardValidation.Enabled"
	KeyWinHungerDelta          = "Adventure.Win.HungerDelta"
	KeyWinMoodDelta            = "Adventure.Win.MoodDelta"
	KeyWinStaminaDelta         = "Adventure.Win.StaminaDelta"
	KeyWinCleanlinessDelta     = "Adventure.Win.CleanlinessDelta"
	KeyLossHungerDelta         = "Adventure.Loss.HungerDelta"
	KeyLossMoodDelta           = "Adventure.Loss.MoodDelta"
	KeyLossStaminaDelta        = "Adventure.Loss.StaminaDelta"
	KeyLossCleanlinessDelta    = "Adventure.Loss.CleanlinessDelta"
)

const (
	DefaultInteractionIncrease  = 10
	DefaultFullStatsBonus       = 100
	DefaultDecayHunger          = 20
	DefaultDecayMood            = 30
	DefaultDecayStamina         = 10
	DefaultDecayCleanliness     = 20
	DefaultDecayHealth          = 0
	DefaultDecayRetryBackoffMin = 60
	DefaultDailyLimit           = 3
)

func LevelMonsterCountKey(level int) string {
	return fmt.Sprintf("Adventure.Level.%d.MonsterCount", level)
}

func LevelSpeedMultiplierKey(level int) string {
	return fmt.Sprintf("Adventure.Level.%d.SpeedMultiplier", level)
}

func LevelRewardBoundsKey(level int) string {
	return fmt.Sprintf("Adventure.Level.%d.RewardBounds", level)
}
