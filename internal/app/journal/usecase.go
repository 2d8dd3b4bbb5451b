package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"petquest/internal/app/outcome"
	"petquest/internal/app/ports"
	"petquest/internal/domain/vitality"
)

type UseCase struct {
	Pets   ports.PetRepository
	Events ports.EventRepository
}

func (u UseCase) List(ctx context.Context, req Request) (Response, error) {
	petID := strings.TrimSpace(req.PetID)
	if petID == "" {
		return Response{Result: outcome.Fail(outcome.CodeInvalidRequest, "pet id is required")}, nil
	}
	if u.Pets != nil {
		p, err := u.Pets.GetByID(ctx, petID)
		if errors.Is(err, ports.ErrNotFound) {
			return Response{Result: outcome.Fail(outcome.CodeNotFound, "pet not found")}, nil
		}
		if err != nil {
			return Response{}, err
		}
		if userID := strings.TrimSpace(req.UserID); userID != "" && !p.OwnedBy(userID) {
			return Response{Result: outcome.Fail(outcome.CodeForbidden, "pet does not belong to user")}, nil
		}
	}

	events, err := u.Events.ListByPetID(ctx, petID, eventQuery(req))
	if errors.Is(err, ports.ErrNotFound) {
		events = nil
	} else if err != nil {
		return Response{}, fmt.Errorf("list events for %s: %w", petID, err)
	}
	if events == nil {
		events = []vitality.Event{}
	}
	return Response{
		Result:      outcome.OK(fmt.Sprintf("%d events", len(events))),
		Events:      events,
		LatestStats: latestStats(events),
	}, nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// eventQuery turns the unix-second window into repository bounds; both ends
// are inclusive at second resolution.
func eventQuery(req Request) ports.EventQuery {
	q := ports.EventQuery{Limit: clampLimit(req.Limit)}
	if req.OccurredFrom > 0 {
		q.OccurredFrom = time.Unix(req.OccurredFrom, 0).UTC()
	}
	if req.OccurredTo > 0 {
		q.OccurredBefore = time.Unix(req.OccurredTo+1, 0).UTC()
	}
	return q
}

// latestStats expects events newest first.
func latestStats(events []vitality.Event) *vitality.Stats {
	for _, evt := range events {
		raw, ok := evt.Payload["after"]
		if !ok {
			raw, ok = evt.Payload["stats"]
		}
		if stats, ok := toStats(raw); ok {
			return &stats
		}
	}
	return nil
}

func toStats(v any) (vitality.Stats, bool) {
	switch s := v.(type) {
	case vitality.Stats:
		return s, true
	case map[string]any:
		return vitality.Stats{
			Hunger:      int(num(s["hunger"])),
			Mood:        int(num(s["mood"])),
			Stamina:     int(num(s["stamina"])),
			Cleanliness: int(num(s["cleanliness"])),
			Health:      int(num(s["health"])),
		}, true
	default:
		return vitality.Stats{}, false
	}
}

func num(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return 0
	}
}
