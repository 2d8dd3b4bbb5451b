package memory

import (
	"context"

	"petquest/internal/app/ports"
)

type DailyLimitPolicyRepo struct {
	store *Store
}

func NewDailyLimitPolicyRepo(store *Store) DailyLimitPolicyRepo {
	return DailyLimitPolicyRepo{store: store}
}

func (r DailyLimitPolicyRepo) Create(ctx context.Context, policy ports.DailyLimitPolicy) error {
	var err error
	r.store.with(ctx, func() {
		for _, p := range r.store.policies {
			if p.Name == policy.Name || p.ID == policy.ID {
				err = ports.ErrDuplicate
				return
			}
		}
		r.store.policies = append(r.store.policies, policy)
	})
	return err
}

func (r DailyLimitPolicyRepo) GetByID(ctx context.Context, id string) (ports.DailyLimitPolicy, error) {
	var (
		out ports.DailyLimitPolicy
		ok  bool
	)
	r.store.with(ctx, func() {
		for _, p := range r.store.policies {
			if p.ID == id {
				out, ok = p, true
				return
			}
		}
	})
	if !ok {
		return ports.DailyLimitPolicy{}, ports.ErrNotFound
	}
	return out, nil
}

func (r DailyLimitPolicyRepo) SetEnabled(ctx context.Context, id string, enabled bool) error {
	err := ports.ErrNotFound
	r.store.with(ctx, func() {
		for i := range r.store.policies {
			if r.store.policies[i].ID == id {
				r.store.policies[i].Enabled = enabled
				err = nil
				return
			}
		}
	})
	return err
}

// Current prefers the latest creation time; ties go to the later insert.
func (r DailyLimitPolicyRepo) Current(ctx context.Context) (ports.DailyLimitPolicy, error) {
	var (
		out ports.DailyLimitPolicy
		ok  bool
	)
	r.store.with(ctx, func() {
		for _, p := range r.store.policies {
			if !p.Enabled {
				continue
			}
			if !ok || !p.CreatedAt.Before(out.CreatedAt) {
				out, ok = p, true
			}
		}
	})
	if !ok {
		return ports.DailyLimitPolicy{}, ports.ErrNotFound
	}
	return out, nil
}

func (r DailyLimitPolicyRepo) List(ctx context.Context) ([]ports.DailyLimitPolicy, error) {
	var out []ports.DailyLimitPolicy
	r.store.with(ctx, func() {
		out = make([]ports.DailyLimitPolicy, 0, len(r.store.policies))
		for i := len(r.store.policies) - 1; i >= 0; i-- {
			out = append(out, r.store.policies[i])
		}
	})
	return out, nil
}
