package inmemory

import (
	"sync"

	"petquest/internal/domain/adventure"
	"petquest/internal/domain/vitality"
)

type Snapshot struct {
	InteractionTotal  uint64            `json:"interaction_total"`
	BonusAwarded      uint64            `json:"bonus_awarded"`
	ByInteraction     map[string]uint64 `json:"by_interaction"`
	AdventureByStatus map[string]uint64 `json:"adventure_by_status"`
	RejectedByCode    map[string]uint64 `json:"rejected_by_code"`
	Conflict          uint64            `json:"conflict"`
	Failure           uint64            `json:"failure"`
	DecayRuns         uint64            `json:"decay_runs"`
	DecaySkipped      uint64            `json:"decay_skipped"`
	PetsDecayed       uint64            `json:"pets_decayed"`
}

// Recorder implements ports.EngineMetrics.
type Recorder struct {
	mu            sync.Mutex
	bonus         uint64
	byInteraction map[string]uint64
	byStatus      map[string]uint64
	byRejection   map[string]uint64
	conflict      uint64
	failure       uint64
	decayRuns     uint64
	decaySkipped  uint64
	petsDecayed   uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byInteraction: map[string]uint64{},
		byStatus:      map[string]uint64{},
		byRejection:   map[string]uint64{},
	}
}

func (r *Recorder) RecordInteraction(kind vitality.Interaction, bonusAwarded bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byInteraction[string(kind)]++
	if bonusAwarded {
		r.bonus++
	}
}

func (r *Recorder) RecordAdventure(status adventure.Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byStatus[string(status)]++
}

func (r *Recorder) RecordRejected(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byRejection[code]++
}

func (r *Recorder) RecordConflict() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conflict++
}

func (r *Recorder) RecordFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failure++
}

func (r *Recorder) RecordDecayRun(applied bool, pets int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !applied {
		r.decaySkipped++
		return
	}
	r.decayRuns++
	r.petsDecayed += uint64(pets)
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		BonusAwarded:      r.bonus,
		ByInteraction:     copyCounts(r.byInteraction),
		AdventureByStatus: copyCounts(r.byStatus),
		RejectedByCode:    copyCounts(r.byRejection),
		Conflict:          r.conflict,
		Failure:           r.failure,
		DecayRuns:         r.decayRuns,
		DecaySkipped:      r.decaySkipped,
		PetsDecayed:       r.petsDecayed,
	}
	for _, v := range r.byInteraction {
		out.InteractionTotal += v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}

func copyCounts(in map[string]uint64) map[string]uint64 {
	out := make(map[string]uint64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
