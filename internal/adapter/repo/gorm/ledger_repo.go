package gormrepo

import (
	"context"

	"petquest/internal/adapter/repo/gorm/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PlayLedgerRepo struct {
	db *gorm.DB
}

func NewPlayLedgerRepo(db *gorm.DB) PlayLedgerRepo {
	return PlayLedgerRepo{db: db}
}

// LockDay must run inside a transaction for the lock to outlive the call.
func (r PlayLedgerRepo) LockDay(ctx context.Context, userID, localDate string) (int, error) {
	db := conn(ctx, r.db)
	row := model.DailyPlayLedger{UserID: userID, LocalDate: localDate}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return 0, err
	}
	var locked model.DailyPlayLedger
	err := db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND local_date = ?", userID, localDate).
		First(&locked).Error
	if err != nil {
		return 0, err
	}
	return int(locked.Plays), nil
}

func (r PlayLedgerRepo) Increment(ctx context.Context, userID, localDate string) error {
	return conn(ctx, r.db).Model(&model.DailyPlayLedger{}).
		Where("user_id = ? AND local_date = ?", userID, localDate).
		Update("plays", gorm.Expr("plays + 1")).Error
}
