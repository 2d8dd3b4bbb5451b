package pet

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"petquest/internal/app/outcome"
	"petquest/internal/app/ports"
	"petquest/internal/domain/vitality"

	"github.com/google/uuid"
)

type UseCase struct {
	TxManager ports.TxManager
	Pets      ports.PetRepository
	Events    ports.EventRepository
	Calendar  ports.Calendar
	NewID     func() string
}

func (u UseCase) Adopt(ctx context.Context, req AdoptRequest) (Response, error) {
	userID := strings.TrimSpace(req.UserID)
	name := strings.TrimSpace(req.Name)
	if userID == "" {
		return Response{Result: outcome.Fail(outcome.CodeInvalidRequest, "user id is required")}, nil
	}
	if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
		return Response{Result: outcome.Fail(outcome.CodeInvalidRequest,
			fmt.Sprintf("pet name must be 1-%d characters", MaxNameLength))}, nil
	}

	id := uuid.NewString()
	if u.NewID != nil {
		id = u.NewID()
	}
	now := u.Calendar.UtcNow()
	p := vitality.NewPet(id, userID, name, now)
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := u.Pets.Create(txCtx, p); err != nil {
			return fmt.Errorf("create pet: %w", err)
		}
		if u.Events == nil {
			return nil
		}
		return u.Events.Append(txCtx, p.ID, []vitality.Event{{
			Type:       vitality.EventPetAdopted,
			OccurredAt: now,
			Payload:    map[string]any{"name": name, "stats": p.Stats},
		}})
	})
	if err != nil {
		return Response{}, err
	}
	return u.snapshot(p, fmt.Sprintf("%s has been adopted", name)), nil
}

func (u UseCase) Status(ctx context.Context, req StatusRequest) (Response, error) {
	petID := strings.TrimSpace(req.PetID)
	if petID == "" {
		return Response{Result: outcome.Fail(outcome.CodeInvalidRequest, "pet id is required")}, nil
	}
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
	return u.snapshot(p, "ok"), nil
}

func (u UseCase) snapshot(p vitality.Pet, msg string) Response {
	now := u.Calendar.UtcNow()
	next := u.Calendar.NextMidnight(now)
	return Response{
		Result:             outcome.OK(msg),
		Pet:                &p,
		Level:              p.Level(),
		BonusAvailable:     p.BonusAvailable(u.Calendar.LocalDate(now)),
		NextDecayAt:        &next,
		NextDecayInSeconds: int64(next.Sub(now).Seconds()),
	}
}
