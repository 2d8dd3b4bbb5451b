package ports

import (
	"petquest/internal/domain/adventure"
	"petquest/internal/domain/vitality"
)

type EngineMetrics interface {
	RecordInteraction(kind vitality.Interaction, bonusAwarded bool)
	RecordAdventure(status adventure.Status)
	RecordRejected(code string)
	RecordConflict()
	RecordFailure()
	RecordDecayRun(applied bool, pets int)
}
