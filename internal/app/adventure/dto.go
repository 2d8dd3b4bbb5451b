package adventure

import (
	"petquest/internal/app/gate"
	"petquest/internal/app/outcome"
	domain "petquest/internal/domain/adventure"
	"petquest/internal/domain/vitality"
)

type PetRequest struct {
	UserID string
	PetID  string
}

type HealthResponse struct {
	outcome.Result
	CanStart  bool               `json:"can_start"`
	Attribute vitality.Attribute `json:"attribute,omitempty"`
}

type LevelResponse struct {
	outcome.Result
	Level    int `json:"level"`
	MaxLevel int `json:"max_level"`
}

type StartResponse struct {
	outcome.Result
	SessionID  string             `json:"session_id,omitempty"`
	Level      int                `json:"level,omitempty"`
	Difficulty *domain.Difficulty `json:"difficulty,omitempty"`
	DailyLimit *gate.LimitStatus  `json:"daily_limit,omitempty"`
}

type EndRequest struct {
	UserID     string
	SessionID  string
	IsWin      bool
	Points     int
	Experience int
	RewardCode string
}

type EndResponse struct {
	outcome.Result
	Session    *domain.Session    `json:"session,omitempty"`
	Settlement *domain.Settlement `json:"settlement,omitempty"`
	Experience int                `json:"experience,omitempty"`
}

type AbortRequest struct {
	UserID    string
	SessionID string
}

type AbortResponse struct {
	outcome.Result
	Session *domain.Session `json:"session,omitempty"`
}
