package memory

import (
	"context"

	"petquest/internal/app/ports"
	"petquest/internal/domain/vitality"
)

type EventRepo struct {
	store *Store
}

func NewEventRepo(store *Store) EventRepo {
	return EventRepo{store: store}
}

func (r EventRepo) Append(ctx context.Context, petID string, events []vitality.Event) error {
	r.store.with(ctx, func() {
		r.store.events[petID] = append(r.store.events[petID], events...)
	})
	return nil
}

func (r EventRepo) ListByPetID(ctx context.Context, petID string, q ports.EventQuery) ([]vitality.Event, error) {
	var out []vitality.Event
	r.store.with(ctx, func() {
		all := r.store.events[petID]
		for i := len(all) - 1; i >= 0; i-- {
			if !q.Contains(all[i].OccurredAt) {
				continue
			}
			out = append(out, all[i])
			if q.Limit > 0 && len(out) == q.Limit {
				break
			}
		}
	})
	if len(out) == 0 {
		return nil, ports.ErrNotFound
	}
	return out, nil
}
