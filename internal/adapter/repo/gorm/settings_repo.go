package gormrepo

import (
	"context"
	"errors"
	"time"

	"petquest/internal/adapter/repo/gorm/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsRepo struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSettingsRepo(db *gorm.DB) SettingsRepo {
	return SettingsRepo{db: db, now: time.Now}
}

func (r SettingsRepo) Get(ctx context.Context, key string) (string, bool, error) {
	var m model.Setting
	err := conn(ctx, r.db).Where(clause.Eq{Column: clause.Column{Name: "key"}, Value: key}).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return m.Value, true, nil
}

func (r SettingsRepo) Set(ctx context.Context, key, value string) error {
	m := model.Setting{Key: key, Value: value, UpdatedAt: r.now().UTC()}
	return conn(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&m).Error
}
