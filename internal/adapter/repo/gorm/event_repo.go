package gormrepo

import (
	"context"
	"encoding/json"
	"fmt"

	"petquest/internal/adapter/repo/gorm/model"
	"petquest/internal/app/ports"
	"petquest/internal/domain/vitality"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) EventRepo {
	return EventRepo{db: db}
}

func (r EventRepo) Append(ctx context.Context, petID string, events []vitality.Event) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]model.PetEvent, 0, len(events))
	for _, e := range events {
		b, err := json.Marshal(e.Payload)
		if err != nil {
			return fmt.Errorf("encode %s payload: %w", e.Type, err)
		}
		rows = append(rows, model.PetEvent{
			ID:         uuid.NewString(),
			PetID:      petID,
			Type:       e.Type,
			OccurredAt: e.OccurredAt.UTC(),
			Payload:    datatypes.JSON(b),
		})
	}
	return conn(ctx, r.db).Create(&rows).Error
}

func (r EventRepo) ListByPetID(ctx context.Context, petID string, q ports.EventQuery) ([]vitality.Event, error) {
	rows := []model.PetEvent{}
	query := conn(ctx, r.db).
		Where("pet_id = ?", petID).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "occurred_at"}, Desc: true}},
		})
	if !q.OccurredFrom.IsZero() {
		query = query.Where("occurred_at >= ?", q.OccurredFrom.UTC())
	}
	if !q.OccurredBefore.IsZero() {
		query = query.Where("occurred_at < ?", q.OccurredBefore.UTC())
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ports.ErrNotFound
	}

	out := make([]vitality.Event, 0, len(rows))
	for _, row := range rows {
		var payload map[string]any
		if len(row.Payload) > 0 {
			if err := json.Unmarshal(row.Payload, &payload); err != nil {
				return nil, fmt.Errorf("decode event %s payload: %w", row.ID, err)
			}
		}
		out = append(out, vitality.Event{
			Type:       row.Type,
			OccurredAt: row.OccurredAt.UTC(),
			Payload:    payload,
		})
	}
	return out, nil
}
