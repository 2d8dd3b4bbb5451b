package interaction

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"petquest/internal/app/outcome"
	"petquest/internal/app/ports"
	"petquest/internal/app/settings"
	"petquest/internal/domain/vitality"
)

type UseCase struct {
	TxManager ports.TxManager
	Pets      ports.PetRepository
	Events    ports.EventRepository
	Settings  ports.Settings
	Calendar  ports.Calendar
	Metrics   ports.EngineMetrics
}

var increaseKeys = map[vitality.Interaction][2]string{
	vitality.InteractionFeed:  {settings.KeyFeedHungerIncrease, settings.KeyFeedHealthIncrease},
	vitality.InteractionBathe: {settings.KeyBatheCleanlinessIncrease, settings.KeyBatheMoodIncrease},
	vitality.InteractionPlay:  {settings.KeyPlayMoodIncrease, settings.KeyPlayStaminaIncrease},
	vitality.InteractionRest:  {settings.KeyPlayMoodIncrease, settings.KeyPlayStaminaIncrease},
}

var doneMessages = map[vitality.Interaction]string{
	vitality.InteractionFeed:  "pet has been fed",
	vitality.InteractionBathe: "pet has been bathed",
	vitality.InteractionPlay:  "played with pet",
	vitality.InteractionRest:  "pet has rested",
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	req.PetID = strings.TrimSpace(req.PetID)
	kind, err := vitality.ParseInteraction(req.Kind)
	if err != nil {
		return u.reject(outcome.Fail(outcome.CodeInvalidRequest, fmt.Sprintf("unknown interaction %q", req.Kind))), nil
	}
	if req.UserID == "" || req.PetID == "" {
		return u.reject(outcome.Fail(outcome.CodeInvalidRequest, "user id and pet id are required")), nil
	}

	now := u.Calendar.UtcNow()
	rule, err := u.rule(ctx, kind, u.Calendar.LocalDate(now))
	if err != nil {
		u.recordError(err)
		return Response{}, err
	}

	var out Response
	err = ports.RunInTxRetry(ctx, u.TxManager, ports.DefaultConflictRetries, func(txCtx context.Context) error {
		pet, err := u.Pets.GetForUpdate(txCtx, req.PetID)
		if errors.Is(err, ports.ErrNotFound) {
			out = Response{Result: outcome.Fail(outcome.CodeNotFound, "pet not found")}
			return nil
		}
		if err != nil {
			return err
		}
		if !pet.OwnedBy(req.UserID) {
			out = Response{Result: outcome.Fail(outcome.CodeForbidden, "pet does not belong to user")}
			return nil
		}

		expected := pet.Version
		result := pet.Interact(rule)
		pet.UpdatedAt = now
		pet.Version++
		if err := u.Pets.SaveWithVersion(txCtx, pet, expected); err != nil {
			return err
		}
		if u.Events != nil {
			evt := vitality.Event{
				Type:       vitality.EventPetInteracted,
				OccurredAt: now,
				Payload: map[string]any{
					"interaction":         string(kind),
					"before":              result.Before,
					"after":               result.After,
					"daily_bonus_awarded": result.BonusAwarded,
					"bonus_experience":    result.BonusExperience,
					"health_restored":     result.HealthRestored,
				},
			}
			if err := u.Events.Append(txCtx, pet.ID, []vitality.Event{evt}); err != nil {
				return err
			}
		}

		out = Response{
			Result:            outcome.OK(message(kind, result)),
			Interaction:       kind,
			Stats:             pet.Stats,
			Experience:        pet.Experience,
			DailyBonusAwarded: result.BonusAwarded,
			BonusExperience:   result.BonusExperience,
			HealthRestored:    result.HealthRestored,
		}
		return nil
	})
	if err != nil {
		u.recordError(err)
		return Response{}, err
	}
	if out.Failed() {
		return u.reject(out.Result), nil
	}
	if u.Metrics != nil {
		u.Metrics.RecordInteraction(kind, out.DailyBonusAwarded)
	}
	return out, nil
}

func (u UseCase) rule(ctx context.Context, kind vitality.Interaction, today string) (vitality.InteractionRule, error) {
	keys := increaseKeys[kind]
	first, err := u.Settings.Int(ctx, keys[0], settings.DefaultInteractionIncrease)
	if err != nil {
		return vitality.InteractionRule{}, err
	}
	second, err := u.Settings.Int(ctx, keys[1], settings.DefaultInteractionIncrease)
	if err != nil {
		return vitality.InteractionRule{}, err
	}
	bonus, err := u.Settings.Int(ctx, settings.KeyFullStatsBonusExperience, settings.DefaultFullStatsBonus)
	if err != nil {
		return vitality.InteractionRule{}, err
	}
	return vitality.InteractionRule{
		Kind:            kind,
		FirstIncrease:   first,
		SecondIncrease:  second,
		BonusExperience: bonus,
		Today:           today,
	}, nil
}

func message(kind vitality.Interaction, r vitality.InteractionOutcome) string {
	msg := doneMessages[kind]
	if r.BonusAwarded {
		msg += fmt.Sprintf("; full stats reached, %d bonus experience awarded", r.BonusExperience)
	}
	if r.HealthRestored {
		msg += "; health restored to 100"
	}
	return msg
}

func (u UseCase) reject(r outcome.Result) Response {
	if u.Metrics != nil {
		u.Metrics.RecordRejected(string(r.Code))
	}
	return Response{Result: r}
}

func (u UseCase) recordError(err error) {
	if u.Metrics == nil {
		return
	}
	if errors.Is(err, ports.ErrConflict) {
		u.Metrics.RecordConflict()
		return
	}
	u.Metrics.RecordFailure()
}
