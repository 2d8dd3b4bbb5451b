package gormrepo

import (
	"context"
	"errors"

	"petquest/internal/adapter/repo/gorm/model"
	"petquest/internal/app/ports"

	"gorm.io/gorm"
)

type DailyLimitPolicyRepo struct {
	db *gorm.DB
}

func NewDailyLimitPolicyRepo(db *gorm.DB) DailyLimitPolicyRepo {
	return DailyLimitPolicyRepo{db: db}
}

func (r DailyLimitPolicyRepo) Create(ctx context.Context, p ports.DailyLimitPolicy) error {
	m := model.DailyLimitPolicy{
		ID:        p.ID,
		Name:      p.Name,
		MaxPlays:  int32(p.MaxPlays),
		Enabled:   p.Enabled,
		CreatedAt: p.CreatedAt.UTC(),
	}
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ports.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r DailyLimitPolicyRepo) GetByID(ctx context.Context, id string) (ports.DailyLimitPolicy, error) {
	return r.first(conn(ctx, r.db).Where("id = ?", id))
}

func (r DailyLimitPolicyRepo) SetEnabled(ctx context.Context, id string, enabled bool) error {
	res := conn(ctx, r.db).Model(&model.DailyLimitPolicy{}).Where("id = ?", id).Update("enabled", enabled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r DailyLimitPolicyRepo) Current(ctx context.Context) (ports.DailyLimitPolicy, error) {
	return r.first(conn(ctx, r.db).Where("enabled = ?", true).Order("created_at DESC").Order("id DESC"))
}

func (r DailyLimitPolicyRepo) List(ctx context.Context) ([]ports.DailyLimitPolicy, error) {
	var rows []model.DailyLimitPolicy
	if err := conn(ctx, r.db).Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ports.DailyLimitPolicy, 0, len(rows))
	for _, m := range rows {
		out = append(out, fromPolicyModel(m))
	}
	return out, nil
}

func (r DailyLimitPolicyRepo) first(q *gorm.DB) (ports.DailyLimitPolicy, error) {
	var m model.DailyLimitPolicy
	if err := q.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.DailyLimitPolicy{}, ports.ErrNotFound
		}
		return ports.DailyLimitPolicy{}, err
	}
	return fromPolicyModel(m), nil
}

func fromPolicyModel(m model.DailyLimitPolicy) ports.DailyLimitPolicy {
	return ports.DailyLimitPolicy{
		ID:        m.ID,
		Name:      m.Name,
		MaxPlays:  int(m.MaxPlays),
		Enabled:   m.Enabled,
		CreatedAt: m.CreatedAt.UTC(),
	}
}
