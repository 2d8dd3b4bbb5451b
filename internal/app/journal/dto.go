package journal

import (
	"petquest/internal/app/outcome"
	"petquest/internal/domain/vitality"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

type Request struct {
	UserID       string
	PetID        string
	Limit        int
	OccurredFrom int64
	OccurredTo   int64
}

type Response struct {
	outcome.Result
	Events []vitality.Event `json:"events"`
	// LatestStats is rebuilt from the newest event that carries an after snapshot.
	LatestStats *vitality.Stats `json:"latest_stats,omitempty"`
}
