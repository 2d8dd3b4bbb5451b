package adventure

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"petquest/internal/app/gate"
	"petquest/internal/app/outcome"
	"petquest/internal/app/ports"
	"petquest/internal/app/settings"
	domain "petquest/internal/domain/adventure"
	"petquest/internal/domain/vitality"

	"github.com/google/uuid"
)

type UseCase struct {
	TxManager ports.TxManager
	Pets      ports.PetRepository
	Sessions  ports.SessionRepository
	Ledger    ports.PlayLedgerRepository
	Events    ports.EventRepository
	Gate      gate.Gate
	Settings  ports.Settings
	Calendar  ports.Calendar
	Metrics   ports.EngineMetrics
	NewID     func() string
}

var (
	failPetNotFound     = outcome.Fail(outcome.CodeNotFound, "pet not found")
	failPetForbidden    = outcome.Fail(outcome.CodeForbidden, "pet does not belong to user")
	failSessionNotFound = outcome.Fail(outcome.CodeNotFound, "adventure session not found")
	failSessionOwner    = outcome.Fail(outcome.CodeForbidden, "adventure session does not belong to user")
)

func (u UseCase) CheckHealth(ctx context.Context, req PetRequest) (HealthResponse, error) {
	pet, res, err := u.loadPet(ctx, req)
	if err != nil || res.Failed() {
		return HealthResponse{Result: res}, err
	}
	v := gate.CheckHealth(pet.Stats)
	out := HealthResponse{CanStart: v.CanStart, Attribute: v.Attribute, Result: outcome.OK(v.Message)}
	if !v.CanStart {
		out.Result = outcome.Fail(outcome.CodePolicyViolation, v.Message)
	}
	return out, nil
}

func (u UseCase) CurrentLevel(ctx context.Context, req PetRequest) (LevelResponse, error) {
	pet, res, err := u.loadPet(ctx, req)
	if err != nil || res.Failed() {
		return LevelResponse{Result: res}, err
	}
	rules, err := u.rules(ctx)
	if err != nil {
		return LevelResponse{}, err
	}
	level := rules.ClampLevel(pet.Level())
	return LevelResponse{Result: outcome.OK(fmt.Sprintf("next adventure starts at level %d", level)), Level: level, MaxLevel: rules.MaxLevel}, nil
}

// Start runs both gates and the insert in one transaction. The ledger row lock
// serializes concurrent starts of the same user on the same local day.
func (u UseCase) Start(ctx context.Context, req PetRequest) (StartResponse, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	req.PetID = strings.TrimSpace(req.PetID)
	if req.UserID == "" || req.PetID == "" {
		return u.rejectStart(outcome.Fail(outcome.CodeInvalidRequest, "user id and pet id are required")), nil
	}
	rules, err := u.rules(ctx)
	if err != nil {
		u.recordError(err)
		return StartResponse{}, err
	}

	now := u.Calendar.UtcNow()
	today := u.Calendar.LocalDate(now)
	var out StartResponse
	err = ports.RunInTxRetry(ctx, u.TxManager, ports.DefaultConflictRetries, func(txCtx context.Context) error {
		out = StartResponse{}
		if u.Ledger != nil {
			if _, err := u.Ledger.LockDay(txCtx, req.UserID, today); err != nil {
				return err
			}
		}
		pet, err := u.Pets.GetForUpdate(txCtx, req.PetID)
		if errors.Is(err, ports.ErrNotFound) {
			out.Result = failPetNotFound
			return nil
		}
		if err != nil {
			return err
		}
		if !pet.OwnedBy(req.UserID) {
			out.Result = failPetForbidden
			return nil
		}
		if v := gate.CheckHealth(pet.Stats); !v.CanStart {
			out.Result = outcome.Fail(outcome.CodePolicyViolation, v.Message)
			return nil
		}
		busy, err := u.Sessions.HasInProgress(txCtx, pet.ID)
		if err != nil {
			return err
		}
		if busy {
			out.Result = outcome.Fail(outcome.CodeInvalidState, "pet already has an adventure in progress")
			return nil
		}
		limit, err := u.Gate.CheckDailyLimit(txCtx, req.UserID, now)
		if err != nil {
			return err
		}
		out.DailyLimit = &limit
		if !limit.Allowed {
			out.Result = outcome.Fail(outcome.CodePolicyViolation, limit.Message)
			return nil
		}

		level := rules.ClampLevel(pet.Level())
		session := domain.NewSession(u.newID(), pet.ID, req.UserID, level, now)
		if err := u.Sessions.Create(txCtx, session); err != nil {
			return err
		}
		if u.Ledger != nil {
			if err := u.Ledger.Increment(txCtx, req.UserID, today); err != nil {
				return err
			}
		}
		if err := u.appendEvent(txCtx, pet.ID, vitality.EventAdventureStarted, now, map[string]any{
			"session_id": session.ID,
			"level":      level,
		}); err != nil {
			return err
		}

		limit.Count++
		limit.Remaining = max(limit.Limit-limit.Count, 0)
		limit.Message = fmt.Sprintf("%d of %d plays remaining today", limit.Remaining, limit.Limit)
		out.SessionID = session.ID
		out.Level = level
		out.Result = outcome.OK(fmt.Sprintf("adventure started at level %d", level))
		return nil
	})
	if err != nil {
		u.recordError(err)
		return StartResponse{}, err
	}
	if out.Failed() {
		resp := u.rejectStart(out.Result)
		resp.DailyLimit = out.DailyLimit
		return resp, nil
	}

	difficulty, err := u.difficulty(ctx, out.Level)
	if err != nil {
		u.recordError(err)
		return StartResponse{}, err
	}
	out.Difficulty = &difficulty
	if u.Metrics != nil {
		u.Metrics.RecordAdventure(domain.StatusInProgress)
	}
	return out, nil
}

func (u UseCase) End(ctx context.Context, req EndRequest) (EndResponse, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	req.SessionID = strings.TrimSpace(req.SessionID)
	result := domain.Outcome{
		Win:        req.IsWin,
		Points:     req.Points,
		Experience: req.Experience,
		RewardCode: strings.TrimSpace(req.RewardCode),
	}
	if req.SessionID == "" {
		return u.rejectEnd(outcome.Fail(outcome.CodeInvalidRequest, "session id is required")), nil
	}
	if err := result.Validate(); err != nil {
		return u.rejectEnd(outcome.Fail(outcome.CodeInvalidRequest, err.Error())), nil
	}
	rules, err := u.rules(ctx)
	if err != nil {
		u.recordError(err)
		return EndResponse{}, err
	}
	validate, err := u.Settings.Bool(ctx, settings.KeyRewardValidationEnabled, true)
	if err != nil {
		u.recordError(err)
		return EndResponse{}, err
	}

	now := u.Calendar.UtcNow()
	var out EndResponse
	err = ports.RunInTxRetry(ctx, u.TxManager, ports.DefaultConflictRetries, func(txCtx context.Context) error {
		out = EndResponse{}
		session, res, err := u.loadSession(txCtx, req.UserID, req.SessionID)
		if err != nil || res.Failed() {
			out.Result = res
			return err
		}
		if validate {
			bounds, err := u.rewardBounds(txCtx, session.Level)
			if err != nil {
				return err
			}
			if err := bounds.Check(result); err != nil {
				out.Result = outcome.Fail(outcome.CodePolicyViolation, fmt.Sprintf("level %d reward rejected: %s", session.Level, err.Error()))
				return nil
			}
		}

		pet, err := u.Pets.GetForUpdate(txCtx, session.PetID)
		if errors.Is(err, ports.ErrNotFound) {
			out.Result = failPetNotFound
			return nil
		}
		if err != nil {
			return err
		}
		expected := pet.Version
		settlement, err := domain.Settle(&pet, &session, result, rules, now)
		if err != nil {
			return err
		}
		pet.Version++
		if err := u.Pets.SaveWithVersion(txCtx, pet, expected); err != nil {
			return err
		}
		if err := u.Sessions.SaveResolution(txCtx, session); err != nil {
			return err
		}
		if err := u.appendEvent(txCtx, pet.ID, vitality.EventAdventureEnded, now, map[string]any{
			"session_id":   session.ID,
			"status":       string(session.Status),
			"points":       session.Points,
			"experience":   session.Experience,
			"reward_code":  session.RewardCode,
			"before":       settlement.Before,
			"after":        settlement.After,
			"level_before": settlement.LevelBefore,
			"level_after":  settlement.LevelAfter,
		}); err != nil {
			return err
		}

		msg := fmt.Sprintf("adventure lost at level %d", session.Level)
		if result.Win {
			msg = fmt.Sprintf("adventure won at level %d; next level %d", session.Level, settlement.LevelAfter)
		}
		out = EndResponse{
			Result:     outcome.OK(msg),
			Session:    &session,
			Settlement: &settlement,
			Experience: pet.Experience,
		}
		return nil
	})
	if err != nil {
		u.recordError(err)
		return EndResponse{}, err
	}
	if out.Failed() {
		return u.rejectEnd(out.Result), nil
	}
	if u.Metrics != nil {
		u.Metrics.RecordAdventure(out.Session.Status)
	}
	return out, nil
}

func (u UseCase) Abort(ctx context.Context, req AbortRequest) (AbortResponse, error) {
	req.UserID = strings.TrimSpace(req.UserID)
	req.SessionID = strings.TrimSpace(req.SessionID)
	if req.SessionID == "" {
		return u.rejectAbort(outcome.Fail(outcome.CodeInvalidRequest, "session id is required")), nil
	}

	now := u.Calendar.UtcNow()
	var out AbortResponse
	err := ports.RunInTxRetry(ctx, u.TxManager, ports.DefaultConflictRetries, func(txCtx context.Context) error {
		out = AbortResponse{}
		session, res, err := u.loadSession(txCtx, req.UserID, req.SessionID)
		if err != nil || res.Failed() {
			out.Result = res
			return err
		}
		if err := session.Abort(now); err != nil {
			return err
		}
		if err := u.Sessions.SaveResolution(txCtx, session); err != nil {
			return err
		}
		if err := u.appendEvent(txCtx, session.PetID, vitality.EventAdventureAborted, now, map[string]any{
			"session_id": session.ID,
			"level":      session.Level,
		}); err != nil {
			return err
		}
		out = AbortResponse{Result: outcome.OK("adventure aborted"), Session: &session}
		return nil
	})
	if err != nil {
		u.recordError(err)
		return AbortResponse{}, err
	}
	if out.Failed() {
		return u.rejectAbort(out.Result), nil
	}
	if u.Metrics != nil {
		u.Metrics.RecordAdventure(domain.StatusAborted)
	}
	return out, nil
}

func (u UseCase) loadPet(ctx context.Context, req PetRequest) (vitality.Pet, outcome.Result, error) {
	petID := strings.TrimSpace(req.PetID)
	userID := strings.TrimSpace(req.UserID)
	if petID == "" {
		return vitality.Pet{}, outcome.Fail(outcome.CodeInvalidRequest, "pet id is required"), nil
	}
	pet, err := u.Pets.GetByID(ctx, petID)
	if errors.Is(err, ports.ErrNotFound) {
		return vitality.Pet{}, failPetNotFound, nil
	}
	if err != nil {
		return vitality.Pet{}, outcome.Result{}, err
	}
	if userID != "" && !pet.OwnedBy(userID) {
		return vitality.Pet{}, failPetForbidden, nil
	}
	return pet, outcome.OK(""), nil
}

func (u UseCase) loadSession(ctx context.Context, userID, sessionID string) (domain.Session, outcome.Result, error) {
	session, err := u.Sessions.GetForUpdate(ctx, sessionID)
	if errors.Is(err, ports.ErrNotFound) {
		return domain.Session{}, failSessionNotFound, nil
	}
	if err != nil {
		return domain.Session{}, outcome.Result{}, err
	}
	if userID != "" && session.UserID != userID {
		return domain.Session{}, failSessionOwner, nil
	}
	if !session.InProgress() {
		return domain.Session{}, outcome.Fail(outcome.CodeInvalidState, fmt.Sprintf("adventure session is already %s", session.Status)), nil
	}
	return session, outcome.OK(""), nil
}

func (u UseCase) appendEvent(ctx context.Context, petID, typ string, now time.Time, payload map[string]any) error {
	if u.Events == nil {
		return nil
	}
	return u.Events.Append(ctx, petID, []vitality.Event{{Type: typ, OccurredAt: now, Payload: payload}})
}

func (u UseCase) newID() string {
	if u.NewID != nil {
		return u.NewID()
	}
	return uuid.NewString()
}

func (u UseCase) rejectStart(r outcome.Result) StartResponse {
	u.recordRejected(r)
	return StartResponse{Result: r}
}

func (u UseCase) rejectEnd(r outcome.Result) EndResponse {
	u.recordRejected(r)
	return EndResponse{Result: r}
}

func (u UseCase) rejectAbort(r outcome.Result) AbortResponse {
	u.recordRejected(r)
	return AbortResponse{Result: r}
}

func (u UseCase) recordRejected(r outcome.Result) {
	if u.Metrics != nil {
		u.Metrics.RecordRejected(string(r.Code))
	}
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
