package gormrepo

import (
	"context"
	"errors"
	"time"

	"petquest/internal/adapter/repo/gorm/model"
	"petquest/internal/app/ports"
	"petquest/internal/domain/adventure"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionRepo struct {
	db *gorm.DB
}

func NewSessionRepo(db *gorm.DB) SessionRepo {
	return SessionRepo{db: db}
}

func (r SessionRepo) Create(ctx context.Context, s adventure.Session) error {
	m := model.GameSession{
		ID:        s.ID,
		PetID:     s.PetID,
		UserID:    s.UserID,
		Level:     int32(s.Level),
		Status:    string(s.Status),
		StartedAt: s.StartedAt.UTC(),
	}
	if err := conn(ctx, r.db).Create(&m).Error; err != nil {
		// Also hit when the pet already has a session in progress.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ports.ErrDuplicate
		}
		return err
	}
	return nil
}

func (r SessionRepo) GetForUpdate(ctx context.Context, sessionID string) (adventure.Session, error) {
	var m model.GameSession
	err := conn(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", sessionID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return adventure.Session{}, ports.ErrNotFound
		}
		return adventure.Session{}, err
	}
	return fromSessionModel(m), nil
}

func (r SessionRepo) SaveResolution(ctx context.Context, s adventure.Session) error {
	updates := map[string]any{
		"status":     string(s.Status),
		"ended_at":   s.EndedAt,
		"points":     int32(s.Points),
		"experience": int32(s.Experience),
	}
	if s.RewardCode != "" {
		updates["reward_code"] = s.RewardCode
	}
	res := conn(ctx, r.db).Model(&model.GameSession{}).
		Where("id = ? AND status = ?", s.ID, string(adventure.StatusInProgress)).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r SessionRepo) CountStartedBetween(ctx context.Context, userID string, from, to time.Time) (int, error) {
	var n int64
	err := conn(ctx, r.db).Model(&model.GameSession{}).
		Where("user_id = ? AND started_at >= ? AND started_at < ?", userID, from.UTC(), to.UTC()).
		Count(&n).Error
	return int(n), err
}

func (r SessionRepo) HasInProgress(ctx context.Context, petID string) (bool, error) {
	var n int64
	err := conn(ctx, r.db).Model(&model.GameSession{}).
		Where("pet_id = ? AND status = ?", petID, string(adventure.StatusInProgress)).
		Count(&n).Error
	return n > 0, err
}

func fromSessionModel(m model.GameSession) adventure.Session {
	s := adventure.Session{
		ID:         m.ID,
		PetID:      m.PetID,
		UserID:     m.UserID,
		Level:      int(m.Level),
		Status:     adventure.Status(m.Status),
		StartedAt:  m.StartedAt.UTC(),
		Points:     int(m.Points),
		Experience: int(m.Experience),
	}
	if m.EndedAt != nil {
		ended := m.EndedAt.UTC()
		s.EndedAt = &ended
	}
	if m.RewardCode != nil {
		s.RewardCode = *m.RewardCode
	}
	return s
}
