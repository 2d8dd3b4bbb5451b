package decay

import (
	"context"
	"log/slog"
	"time"

	"petquest/internal/app/ports"
	"petquest/internal/app/settings"
	"petquest/internal/domain/calendar"
)

type dayRunner interface {
	RunFor(ctx context.Context, localDate string) (Result, error)
}

// Scheduler fires the runner at every application-local midnight.
type Scheduler struct {
	Runner     dayRunner
	Settings   ports.Settings
	Calendar   ports.Calendar
	Logger     *slog.Logger
	RunOnStart bool
	// After defaults to time.After.
	After func(d time.Duration) <-chan time.Time
}

// Run blocks until ctx is done and returns its error.
func (s Scheduler) Run(ctx context.Context) error {
	if s.RunOnStart {
		if err := s.catchUp(ctx, s.Calendar.LocalDate(s.Calendar.UtcNow())); err != nil {
			return err
		}
	}
	for {
		now := s.Calendar.UtcNow()
		next := s.Calendar.NextMidnight(now)
		s.logger().Info("decay scheduled", "next_run", next, "wait", next.Sub(now).String())
		if err := s.sleep(ctx, next.Sub(now)); err != nil {
			return err
		}
		if err := s.catchUp(ctx, s.Calendar.LocalDate(next)); err != nil {
			return err
		}
	}
}

// catchUp runs localDate and then every later day that began while it was
// retrying, so an outage across midnight skips no day.
func (s Scheduler) catchUp(ctx context.Context, localDate string) error {
	for {
		if err := s.runWithRetry(ctx, localDate); err != nil {
			return err
		}
		today := s.Calendar.LocalDate(s.Calendar.UtcNow())
		if today <= localDate {
			return nil
		}
		localDate = nextDate(localDate, today)
	}
}

// nextDate steps one calendar day after date, clamped to today.
func nextDate(date, today string) string {
	d, err := time.Parse(calendar.DateLayout, date)
	if err != nil {
		return today
	}
	next := d.AddDate(0, 0, 1).Format(calendar.DateLayout)
	if next > today {
		return today
	}
	return next
}

func (s Scheduler) runWithRetry(ctx context.Context, localDate string) error {
	for {
		res, err := s.Runner.RunFor(ctx, localDate)
		if err == nil {
			s.logger().Info("decay run finished", "local_date", res.LocalDate, "applied", res.Applied, "pets", res.PetsDecayed)
			return nil
		}
		backoff := s.backoff(ctx)
		s.logger().Error("decay run failed", "err", err, "retry_in", backoff.String())
		if err := s.sleep(ctx, backoff); err != nil {
			return err
		}
	}
}

func (s Scheduler) backoff(ctx context.Context) time.Duration {
	minutes := settings.DefaultDecayRetryBackoffMin
	if s.Settings != nil {
		if v, err := s.Settings.Int(ctx, settings.KeyDecayRetryBackoffMinutes, minutes); err == nil && v > 0 {
			minutes = v
		}
	}
	return time.Duration(minutes) * time.Minute
}

func (s Scheduler) sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	after := s.After
	if after == nil {
		after = time.After
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-after(d):
		return nil
	}
}

func (s Scheduler) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}
