package ports

import (
	"context"
	"time"

	"petquest/internal/domain/adventure"
	"petquest/internal/domain/vitality"
)

type PetRepository interface {
	Create(ctx context.Context, pet vitality.Pet) error
	GetByID(ctx context.Context, petID string) (vitality.Pet, error)
	// GetForUpdate locks the row for the rest of the transaction.
	GetForUpdate(ctx context.Context, petID string) (vitality.Pet, error)
	SaveWithVersion(ctx context.Context, pet vitality.Pet, expectedVersion int64) error
	ListActiveIDs(ctx context.Context, afterID string, limit int) ([]string, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session adventure.Session) error
	GetForUpdate(ctx context.Context, sessionID string) (adventure.Session, error)
	// SaveResolution persists a terminal session; it fails with ErrConflict
	// when the stored row is no longer in progress.
	SaveResolution(ctx context.Context, session adventure.Session) error
	CountStartedBetween(ctx context.Context, userID string, from, to time.Time) (int, error)
	HasInProgress(ctx context.Context, petID string) (bool, error)
}

type PlayLedgerRepository interface {
	// LockDay creates the (user, day) row if missing and locks it.
	LockDay(ctx context.Context, userID, localDate string) (int, error)
	Increment(ctx context.Context, userID, localDate string) error
}

type DailyLimitPolicy struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	MaxPlays  int       `json:"max_plays"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
}

type DailyLimitPolicyRepository interface {
	Create(ctx context.Context, policy DailyLimitPolicy) error
	GetByID(ctx context.Context, id string) (DailyLimitPolicy, error)
	SetEnabled(ctx context.Context, id string, enabled bool) error
	// Current returns the most recently created enabled policy.
	Current(ctx context.Context) (DailyLimitPolicy, error)
	List(ctx context.Context) ([]DailyLimitPolicy, error)
}

type SettingsRepository interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

type DecayRunRecord struct {
	LocalDate   string         `json:"local_date"`
	RanAt       time.Time      `json:"ran_at"`
	PetsDecayed int            `json:"pets_decayed"`
	Summary     map[string]any `json:"summary"`
}

type DecayRunRepository interface {
	// Claim inserts the marker for localDate; false means another run owns it.
	Claim(ctx context.Context, localDate string, ranAt time.Time) (bool, error)
	Complete(ctx context.Context, record DecayRunRecord) error
	Get(ctx context.Context, localDate string) (DecayRunRecord, error)
}

// EventQuery selects events newest first. Zero fields are unbounded;
// OccurredFrom is inclusive and OccurredBefore exclusive.
type EventQuery struct {
	Limit          int
	OccurredFrom   time.Time
	OccurredBefore time.Time
}

func (q EventQuery) Contains(t time.Time) bool {
	if !q.OccurredFrom.IsZero() && t.Before(q.OccurredFrom) {
		return false
	}
	if !q.OccurredBefore.IsZero() && !t.Before(q.OccurredBefore) {
		return false
	}
	return true
}

type EventRepository interface {
	Append(ctx context.Context, petID string, events []vitality.Event) error
	ListByPetID(ctx context.Context, petID string, q EventQuery) ([]vitality.Event, error)
}
