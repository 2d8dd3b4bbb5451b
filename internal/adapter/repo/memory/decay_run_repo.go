package memory

import (
	"context"
	"time"

	"petquest/internal/app/ports"
)

type DecayRunRepo struct {
	store *Store
}

func NewDecayRunRepo(store *Store) DecayRunRepo {
	return DecayRunRepo{store: store}
}

func (r DecayRunRepo) Claim(ctx context.Context, localDate string, ranAt time.Time) (bool, error) {
	claimed := false
	r.store.with(ctx, func() {
		if _, exists := r.store.decayRuns[localDate]; exists {
			return
		}
		r.store.decayRuns[localDate] = ports.DecayRunRecord{LocalDate: localDate, RanAt: ranAt}
		claimed = true
	})
	return claimed, nil
}

func (r DecayRunRepo) Complete(ctx context.Context, record ports.DecayRunRecord) error {
	var err error
	r.store.with(ctx, func() {
		if _, exists := r.store.decayRuns[record.LocalDate]; !exists {
			err = ports.ErrNotFound
			return
		}
		r.store.decayRuns[record.LocalDate] = record
	})
	return err
}

func (r DecayRunRepo) Get(ctx context.Context, localDate string) (ports.DecayRunRecord, error) {
	var (
		rec ports.DecayRunRecord
		ok  bool
	)
	r.store.with(ctx, func() {
		rec, ok = r.store.decayRuns[localDate]
	})
	if !ok {
		return ports.DecayRunRecord{}, ports.ErrNotFound
	}
	return rec, nil
}
