package pet

import (
	"time"

	"petquest/internal/app/outcome"
	"petquest/internal/domain/vitality"
)

const MaxNameLength = 64

type AdoptRequest struct {
	UserID string
	Name   string
}

type StatusRequest struct {
	UserID string
	PetID  string
}

type Response struct {
	outcome.Result
	Pet                *vitality.Pet `json:"pet,omitempty"`
	Level              int           `json:"level,omitempty"`
	BonusAvailable     bool          `json:"bonus_available"`
	NextDecayAt        *time.Time    `json:"next_decay_at,omitempty"`
	NextDecayInSeconds int64         `json:"next_decay_in_seconds,omitempty"`
}
