package gate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"petquest/internal/app/ports"
	"petquest/internal/app/settings"
	"petquest/internal/domain/vitality"
)

type HealthVerdict struct {
	CanStart  bool               `json:"can_start"`
	Attribute vitality.Attribute `json:"attribute,omitempty"`
	Message   string             `json:"message"`
}

var zeroMessages = map[vitality.Attribute]string{
	vitality.Hunger:      "pet is too hungry to play (hunger is 0)",
	vitality.Mood:        "pet is too unhappy to play (mood is 0)",
	vitality.Stamina:     "pet is too tired to play (stamina is 0)",
	vitality.Cleanliness: "pet is too dirty to play (cleanliness is 0)",
	vitality.Health:      "pet is too unwell to play (health is 0)",
}

// CheckHealth denies play when any attribute sits at the floor.
func CheckHealth(stats vitality.Stats) HealthVerdict {
	attr, zero := stats.ZeroAttribute()
	if !zero {
		return HealthVerdict{CanStart: true, Message: "pet is ready for adventure"}
	}
	return HealthVerdict{CanStart: false, Attribute: attr, Message: zeroMessages[attr]}
}

type LimitStatus struct {
	Allowed    bool   `json:"allowed"`
	Limit      int    `json:"limit"`
	Count      int    `json:"count"`
	Remaining  int    `json:"remaining"`
	PolicyID   string `json:"policy_id,omitempty"`
	PolicyName string `json:"policy_name,omitempty"`
	Message    string `json:"message"`
}

// Gate evaluates read-only play checks. Callers that act on the verdict run it
// inside the transaction that creates the session.
type Gate struct {
	Policies ports.DailyLimitPolicyRepository
	Sessions ports.SessionRepository
	Settings ports.Settings
	Calendar ports.Calendar
}

func (g Gate) EffectiveLimit(ctx context.Context) (int, *ports.DailyLimitPolicy, error) {
	if g.Policies != nil {
		policy, err := g.Policies.Current(ctx)
		if err == nil {
			return policy.MaxPlays, &policy, nil
		}
		if !errors.Is(err, ports.ErrNotFound) {
			return 0, nil, fmt.Errorf("load daily limit policy: %w", err)
		}
	}
	limit, err := g.Settings.Int(ctx, settings.KeyDailyLimitDefault, settings.DefaultDailyLimit)
	if err != nil {
		return 0, nil, err
	}
	return limit, nil, nil
}

func (g Gate) CheckDailyLimit(ctx context.Context, userID string, now time.Time) (LimitStatus, error) {
	limit, policy, err := g.EffectiveLimit(ctx)
	if err != nil {
		return LimitStatus{}, err
	}
	from, to := g.Calendar.DayWindow(now)
	count, err := g.Sessions.CountStartedBetween(ctx, userID, from, to)
	if err != nil {
		return LimitStatus{}, fmt.Errorf("count sessions today: %w", err)
	}

	out := LimitStatus{Limit: limit, Count: count, Remaining: limit - count}
	if out.Remaining < 0 {
		out.Remaining = 0
	}
	if policy != nil {
		out.PolicyID = policy.ID
		out.PolicyName = policy.Name
	}
	if count >= limit {
		out.Message = fmt.Sprintf("daily play limit reached: %d of %d plays used today", count, limit)
		return out, nil
	}
	out.Allowed = true
	out.Message = fmt.Sprintf("%d of %d plays remaining today", out.Remaining, limit)
	return out, nil
}
