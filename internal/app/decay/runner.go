package decay

import (
	"context"
	"errors"
	"fmt"
	"time"

	"petquest/internal/app/ports"
	"petquest/internal/app/settings"
	"petquest/internal/domain/vitality"
)

const DefaultPageSize = 200

type Result struct {
	Applied     bool                  `json:"applied"`
	LocalDate   string                `json:"local_date"`
	PetsDecayed int                   `json:"pets_decayed"`
	Amounts     vitality.DecayAmounts `json:"amounts"`
	Message     string                `json:"message"`
}

// Runner applies one day's decay. The DecayRun marker makes RunOnce safe to
// call from several processes; only the first claim of a local date decays.
type Runner struct {
	TxManager ports.TxManager
	Pets      ports.PetRepository
	Runs      ports.DecayRunRepository
	Events    ports.EventRepository
	Settings  ports.Settings
	Calendar  ports.Calendar
	Metrics   ports.EngineMetrics
	PageSize  int
}

func (r Runner) RunOnce(ctx context.Context) (Result, error) {
	return r.RunFor(ctx, r.Calendar.LocalDate(r.Calendar.UtcNow()))
}

// RunFor applies the decay owed for localDate, which may lie in the past when
// a run is being caught up.
func (r Runner) RunFor(ctx context.Context, localDate string) (Result, error) {
	now := r.Calendar.UtcNow()

	enabled, err := r.Settings.Bool(ctx, settings.KeyDecayEnabled, true)
	if err != nil {
		return Result{}, err
	}
	if !enabled {
		return Result{LocalDate: localDate, Message: "daily decay is disabled"}, nil
	}
	amounts, err := r.amounts(ctx)
	if err != nil {
		return Result{}, err
	}

	out := Result{LocalDate: localDate, Amounts: amounts}
	err = r.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		claimed, err := r.Runs.Claim(txCtx, localDate, now)
		if err != nil {
			return fmt.Errorf("claim decay run %s: %w", localDate, err)
		}
		if !claimed {
			return nil
		}
		n, err := r.decayAll(txCtx, amounts, now)
		if err != nil {
			return err
		}
		out.Applied = true
		out.PetsDecayed = n
		return r.Runs.Complete(txCtx, ports.DecayRunRecord{
			LocalDate:   localDate,
			RanAt:       now,
			PetsDecayed: n,
			Summary:     map[string]any{"amounts": amounts, "pets_decayed": n},
		})
	})
	if err != nil {
		if r.Metrics != nil {
			r.Metrics.RecordFailure()
		}
		return Result{}, err
	}

	if out.Applied {
		out.Message = fmt.Sprintf("decayed %d pets for %s", out.PetsDecayed, localDate)
	} else {
		out.Message = fmt.Sprintf("decay already ran for %s", localDate)
		if rec, err := r.Runs.Get(ctx, localDate); err == nil {
			out.PetsDecayed = rec.PetsDecayed
		}
	}
	if r.Metrics != nil {
		r.Metrics.RecordDecayRun(out.Applied, out.PetsDecayed)
	}
	return out, nil
}

func (r Runner) decayAll(ctx context.Context, amounts vitality.DecayAmounts, now time.Time) (int, error) {
	size := r.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	decayed := 0
	after := ""
	for {
		ids, err := r.Pets.ListActiveIDs(ctx, after, size)
		if err != nil {
			return decayed, fmt.Errorf("list pets after %q: %w", after, err)
		}
		for _, id := range ids {
			ok, err := r.decayPet(ctx, id, amounts, now)
			if err != nil {
				return decayed, err
			}
			if ok {
				decayed++
			}
		}
		if len(ids) < size {
			return decayed, nil
		}
		after = ids[len(ids)-1]
	}
}

func (r Runner) decayPet(ctx context.Context, id string, amounts vitality.DecayAmounts, now time.Time) (bool, error) {
	pet, err := r.Pets.GetForUpdate(ctx, id)
	if errors.Is(err, ports.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lock pet %s: %w", id, err)
	}
	before := pet.Stats
	expected := pet.Version
	pet.Decay(amounts)
	pet.UpdatedAt = now
	pet.Version++
	if err := r.Pets.SaveWithVersion(ctx, pet, expected); err != nil {
		return false, fmt.Errorf("save pet %s: %w", id, err)
	}
	if r.Events != nil {
		evt := vitality.Event{
			Type:       vitality.EventPetDecayed,
			OccurredAt: now,
			Payload:    map[string]any{"before": before, "after": pet.Stats, "amounts": amounts},
		}
		if err := r.Events.Append(ctx, pet.ID, []vitality.Event{evt}); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (r Runner) amounts(ctx context.Context) (vitality.DecayAmounts, error) {
	var (
		out vitality.DecayAmounts
		err error
	)
	if out.Hunger, err = r.Settings.Int(ctx, settings.KeyDecayHunger, settings.DefaultDecayHunger); err != nil {
		return out, err
	}
	if out.Mood, err = r.Settings.Int(ctx, settings.KeyDecayMood, settings.DefaultDecayMood); err != nil {
		return out, err
	}
	if out.Stamina, err = r.Settings.Int(ctx, settings.KeyDecayStamina, settings.DefaultDecayStamina); err != nil {
		return out, err
	}
	if out.Cleanliness, err = r.Settings.Int(ctx, settings.KeyDecayCleanliness, settings.DefaultDecayCleanliness); err != nil {
		return out, err
	}
	if out.Health, err = r.Settings.Int(ctx, settings.KeyDecayHealth, settings.DefaultDecayHealth); err != nil {
		return out, err
	}
	return out, nil
}
