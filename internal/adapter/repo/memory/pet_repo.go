package memory

import (
	"context"
	"sort"

	"petquest/internal/app/ports"
	"petquest/internal/domain/vitality"
)

type PetRepo struct {
	store *Store
}

func NewPetRepo(store *Store) PetRepo {
	return PetRepo{store: store}
}

func (r PetRepo) Create(ctx context.Context, pet vitality.Pet) error {
	var err error
	r.store.with(ctx, func() {
		if _, exists := r.store.pets[pet.ID]; exists {
			err = ports.ErrDuplicate
			return
		}
		r.store.pets[pet.ID] = pet
	})
	return err
}

func (r PetRepo) GetByID(ctx context.Context, petID string) (vitality.Pet, error) {
	var (
		pet vitality.Pet
		ok  bool
	)
	r.store.with(ctx, func() {
		pet, ok = r.store.pets[petID]
	})
	if !ok {
		return vitality.Pet{}, ports.ErrNotFound
	}
	return pet, nil
}

func (r PetRepo) GetForUpdate(ctx context.Context, petID string) (vitality.Pet, error) {
	return r.GetByID(ctx, petID)
}

func (r PetRepo) SaveWithVersion(ctx context.Context, pet vitality.Pet, expectedVersion int64) error {
	var err error
	r.store.with(ctx, func() {
		current, ok := r.store.pets[pet.ID]
		if !ok {
			err = ports.ErrNotFound
			return
		}
		if current.Version != expectedVersion {
			err = ports.ErrConflict
			return
		}
		r.store.pets[pet.ID] = pet
	})
	return err
}

func (r PetRepo) ListActiveIDs(ctx context.Context, afterID string, limit int) ([]string, error) {
	var ids []string
	r.store.with(ctx, func() {
		for id := range r.store.pets {
			if id > afterID {
				ids = append(ids, id)
			}
		}
	})
	sort.Strings(ids)
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}
