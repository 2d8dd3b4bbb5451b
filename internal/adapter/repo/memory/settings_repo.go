package memory

import "context"

type SettingsRepo struct {
	store *Store
}

func NewSettingsRepo(store *Store) SettingsRepo {
	return SettingsRepo{store: store}
}

func (r SettingsRepo) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		v  string
		ok bool
	)
	r.store.with(ctx, func() {
		v, ok = r.store.settings[key]
	})
	return v, ok, nil
}

func (r SettingsRepo) Set(ctx context.Context, key, value string) error {
	r.store.with(ctx, func() {
		r.store.settings[key] = value
	})
	return nil
}
