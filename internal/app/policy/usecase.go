package policy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"petquest/internal/app/gate"
	"petquest/internal/app/outcome"
	"petquest/internal/app/ports"

	"github.com/google/uuid"
)

const (
	SourcePolicy  = "policy"
	SourceDefault = "default"
)

type UseCase struct {
	Policies ports.DailyLimitPolicyRepository
	Gate     gate.Gate
	Calendar ports.Calendar
	NewID    func() string
}

func (u UseCase) Create(ctx context.Context, req CreateRequest) (PolicyResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return PolicyResponse{Result: outcome.Fail(outcome.CodeInvalidRequest, "policy name is required")}, nil
	}
	if req.MaxPlays < MinMaxPlays || req.MaxPlays > MaxMaxPlays {
		return PolicyResponse{Result: outcome.Fail(outcome.CodeInvalidRequest,
			fmt.Sprintf("max plays must be between %d and %d", MinMaxPlays, MaxMaxPlays))}, nil
	}
	id := uuid.NewString()
	if u.NewID != nil {
		id = u.NewID()
	}
	p := ports.DailyLimitPolicy{
		ID:        id,
		Name:      name,
		MaxPlays:  req.MaxPlays,
		Enabled:   req.Enabled,
		CreatedAt: u.Calendar.UtcNow(),
	}
	if err := u.Policies.Create(ctx, p); err != nil {
		if errors.Is(err, ports.ErrDuplicate) {
			return PolicyResponse{Result: outcome.Fail(outcome.CodeInvalidRequest, fmt.Sprintf("policy %q already exists", name))}, nil
		}
		return PolicyResponse{}, fmt.Errorf("create policy: %w", err)
	}
	return PolicyResponse{Result: outcome.OK("policy created"), Policy: &p}, nil
}

func (u UseCase) SetEnabled(ctx context.Context, id string, enabled bool) (PolicyResponse, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return PolicyResponse{Result: outcome.Fail(outcome.CodeInvalidRequest, "policy id is required")}, nil
	}
	err := u.Policies.SetEnabled(ctx, id, enabled)
	if errors.Is(err, ports.ErrNotFound) {
		return PolicyResponse{Result: outcome.Fail(outcome.CodeNotFound, "policy not found")}, nil
	}
	if err != nil {
		return PolicyResponse{}, fmt.Errorf("update policy %s: %w", id, err)
	}
	p, err := u.Policies.GetByID(ctx, id)
	if err != nil {
		return PolicyResponse{}, fmt.Errorf("reload policy %s: %w", id, err)
	}
	msg := "policy disabled"
	if enabled {
		msg = "policy enabled"
	}
	return PolicyResponse{Result: outcome.OK(msg), Policy: &p}, nil
}

func (u UseCase) Current(ctx context.Context) (CurrentResponse, error) {
	limit, p, err := u.Gate.EffectiveLimit(ctx)
	if err != nil {
		return CurrentResponse{}, err
	}
	if p == nil {
		return CurrentResponse{
			Result: outcome.OK(fmt.Sprintf("no enabled policy; default limit %d applies", limit)),
			Limit:  limit,
			Source: SourceDefault,
		}, nil
	}
	return CurrentResponse{
		Result: outcome.OK(fmt.Sprintf("policy %q limits play to %d per day", p.Name, limit)),
		Limit:  limit,
		Source: SourcePolicy,
		Policy: p,
	}, nil
}

func (u UseCase) List(ctx context.Context) (ListResponse, error) {
	items, err := u.Policies.List(ctx)
	if err != nil {
		return ListResponse{}, fmt.Errorf("list policies: %w", err)
	}
	if items == nil {
		items = []ports.DailyLimitPolicy{}
	}
	return ListResponse{Result: outcome.OK(fmt.Sprintf("%d policies", len(items))), Policies: items}, nil
}
