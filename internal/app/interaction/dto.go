package interaction

import (
	"petquest/internal/app/outcome"
	"petquest/internal/domain/vitality"
)

type Request struct {
	UserID string
	PetID  string
	Kind   string
}

type Response struct {
	outcome.Result
	Interaction       vitality.Interaction `json:"interaction,omitempty"`
	Stats             vitality.Stats       `json:"stats"`
	Experience        int                  `json:"experience"`
	DailyBonusAwarded bool                 `json:"daily_bonus_awarded"`
	BonusExperience   int                  `json:"bonus_experience,omitempty"`
	HealthRestored    bool                 `json:"health_restored"`
}
