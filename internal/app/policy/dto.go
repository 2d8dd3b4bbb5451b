package policy

import (
	"petquest/internal/app/outcome"
	"petquest/internal/app/ports"
)

const (
	MinMaxPlays = 1
	MaxMaxPlays = 100
)

type CreateRequest struct {
	Name     string `json:"name"`
	MaxPlays int    `json:"max_plays"`
	Enabled  bool   `json:"enabled"`
}

type PolicyResponse struct {
	outcome.Result
	Policy *ports.DailyLimitPolicy `json:"policy,omitempty"`
}

type CurrentResponse struct {
	outcome.Result
	Limit  int                     `json:"limit"`
	Source string                  `json:"source"`
	Policy *ports.DailyLimitPolicy `json:"policy,omitempty"`
}

type ListResponse struct {
	outcome.Result
	Policies []ports.DailyLimitPolicy `json:"policies"`
}
