package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"petquest/internal/adapter/repo/gorm/model"
	"petquest/internal/app/ports"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DecayRunRepo struct {
	db *gorm.DB
}

func NewDecayRunRepo(db *gorm.DB) DecayRunRepo {
	return DecayRunRepo{db: db}
}

// Claim is an insert-if-absent; exactly one caller per local date sees true.
func (r DecayRunRepo) Claim(ctx context.Context, localDate string, ranAt time.Time) (bool, error) {
	m := model.DecayRun{LocalDate: localDate, RanAt: ranAt.UTC(), Summary: datatypes.JSON("{}")}
	res := conn(ctx, r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(&m)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r DecayRunRepo) Complete(ctx context.Context, rec ports.DecayRunRecord) error {
	summary, err := json.Marshal(rec.Summary)
	if err != nil {
		return err
	}
	res := conn(ctx, r.db).Model(&model.DecayRun{}).
		Where("local_date = ?", rec.LocalDate).
		Updates(map[string]any{
			"ran_at":       rec.RanAt.UTC(),
			"pets_decayed": int32(rec.PetsDecayed),
			"summary":      datatypes.JSON(summary),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r DecayRunRepo) Get(ctx context.Context, localDate string) (ports.DecayRunRecord, error) {
	var m model.DecayRun
	if err := conn(ctx, r.db).Where("local_date = ?", localDate).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.DecayRunRecord{}, ports.ErrNotFound
		}
		return ports.DecayRunRecord{}, err
	}
	var summary map[string]any
	if len(m.Summary) > 0 {
		if err := json.Unmarshal(m.Summary, &summary); err != nil {
			return ports.DecayRunRecord{}, fmt.Errorf("decode decay run %s summary: %w", localDate, err)
		}
	}
	return ports.DecayRunRecord{
		LocalDate:   m.LocalDate,
		RanAt:       m.RanAt.UTC(),
		PetsDecayed: int(m.PetsDecayed),
		Summary:     summary,
	}, nil
}
