package gormrepo

import (
	"context"
	"errors"

	"petquest/internal/adapter/repo/gorm/model"
	"petquest/internal/app/ports"
	"petquest/internal/domain/vitality"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PetRepo struct {
	db *gorm.DB
}

func NewPetRepo(db *gorm.DB) PetRepo {
	return PetRepo{db: db}
}

func (r PetRepo) Create(ctx context.Context, pet vitality.Pet) error {
	m := toPetModel(pet)
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ports.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r PetRepo) GetByID(ctx context.Context, petID string) (vitality.Pet, error) {
	return r.get(conn(ctx, r.db), petID)
}

func (r PetRepo) GetForUpdate(ctx context.Context, petID string) (vitality.Pet, error) {
	return r.get(conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), petID)
}

func (r PetRepo) get(db *gorm.DB, petID string) (vitality.Pet, error) {
	var m model.Pet
	if err := db.Where("id = ?", petID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return vitality.Pet{}, ports.ErrNotFound
		}
		return vitality.Pet{}, err
	}
	return fromPetModel(m), nil
}

func (r PetRepo) SaveWithVersion(ctx context.Context, pet vitality.Pet, expectedVersion int64) error {
	updates := map[string]any{
		"name":            pet.Name,
		"hunger":          int32(pet.Stats.Hunger),
		"mood":            int32(pet.Stats.Mood),
		"stamina":         int32(pet.Stats.Stamina),
		"cleanliness":     int32(pet.Stats.Cleanliness),
		"health":          int32(pet.Stats.Health),
		"experience":      int64(pet.Experience),
		"adventure_level": int32(pet.AdventureLevel),
		"last_bonus_date": pet.LastBonusDate,
		"version":         pet.Version,
		"updated_at":      pet.UpdatedAt.UTC(),
	}
	res := conn(ctx, r.db).Model(&model.Pet{}).
		Where("id = ? AND version = ?", pet.ID, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r PetRepo) ListActiveIDs(ctx context.Context, afterID string, limit int) ([]string, error) {
	var ids []string
	q := conn(ctx, r.db).Model(&model.Pet{}).Where("id > ?", afterID).Order("id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// SoftDelete hides the pet from every query, decay included.
func (r PetRepo) SoftDelete(ctx context.Context, petID string) error {
	res := conn(ctx, r.db).Where("id = ?", petID).Delete(&model.Pet{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func toPetModel(p vitality.Pet) model.Pet {
	return model.Pet{
		ID:             p.ID,
		UserID:         p.UserID,
		Name:           p.Name,
		Hunger:         int32(p.Stats.Hunger),
		Mood:           int32(p.Stats.Mood),
		Stamina:        int32(p.Stats.Stamina),
		Cleanliness:    int32(p.Stats.Cleanliness),
		Health:         int32(p.Stats.Health),
		Experience:     int64(p.Experience),
		AdventureLevel: int32(p.AdventureLevel),
		LastBonusDate:  p.LastBonusDate,
		Version:        p.Version,
		CreatedAt:      p.CreatedAt.UTC(),
		UpdatedAt:      p.UpdatedAt.UTC(),
	}
}

func fromPetModel(m model.Pet) vitality.Pet {
	return vitality.Pet{
		ID:     m.ID,
		UserID: m.UserID,
		Name:   m.Name,
		Stats: vitality.Stats{
			Hunger:      int(m.Hunger),
			Mood:        int(m.Mood),
			Stamina:     int(m.Stamina),
			Cleanliness: int(m.Cleanliness),
			Health:      int(m.Health),
		}.Normalize(),
		Experience:     int(m.Experience),
		AdventureLevel: int(m.AdventureLevel),
		LastBonusDate:  m.LastBonusDate,
		Version:        m.Version,
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}
