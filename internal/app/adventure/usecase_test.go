package adventure

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"petquest/internal/adapter/repo/memory"
	"petquest/internal/app/gate"
	"petquest/internal/app/outcome"
	"petquest/internal/app/ports"
	"petquest/internal/app/settings"
	domain "petquest/internal/domain/adventure"
	"petquest/internal/domain/calendar"
	"petquest/internal/domain/vitality"
)

var shanghai = time.FixedZone("UTC+8", 8*60*60)

type fixture struct {
	store    *memory.Store
	settings *settings.Provider
	now      time.Time
	uc       UseCase
}

func newFixture(t *testing.T, pet vitality.Pet) *fixture {
	t.Helper()
	f := &fixture{store: memory.NewStore(), now: time.Date(2026, 10, 14, 2, 0, 0, 0, time.UTC)}
	f.settings = settings.NewProvider(memory.NewSettingsRepo(f.store))
	if pet.ID == "" {
		pet = vitality.Pet{ID: "pet-1", UserID: "user-1", Stats: vitality.FullStats(), AdventureLevel: 1, Version: 1}
	}
	f.store.SeedPet(pet)
	zone := calendar.NewZone(shanghai, func() time.Time { return f.now })
	sessions := memory.NewSessionRepo(f.store)
	f.uc = UseCase{
		TxManager: memory.NewTxManager(f.store),
		Pets:      memory.NewPetRepo(f.store),
		Sessions:  sessions,
		Ledger:    memory.NewPlayLedgerRepo(f.store),
		Events:    memory.NewEventRepo(f.store),
		Gate: gate.Gate{
			Policies: memory.NewDailyLimitPolicyRepo(f.store),
			Sessions: sessions,
			Settings: f.settings,
			Calendar: zone,
		},
		Settings: f.settings,
		Calendar: zone,
	}
	return f
}

func (f *fixture) pet(t *testing.T) vitality.Pet {
	t.Helper()
	p, err := f.uc.Pets.GetByID(context.Background(), "pet-1")
	if err != nil {
		t.Fatalf("load pet: %v", err)
	}
	return p
}

func (f *fixture) start(t *testing.T) StartResponse {
	t.Helper()
	resp, err := f.uc.Start(context.Background(), PetRequest{UserID: "user-1", PetID: "pet-1"})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	return resp
}

func (f *fixture) abort(t *testing.T, sessionID string) {
	t.Helper()
	resp, err := f.uc.Abort(context.Background(), AbortRequest{UserID: "user-1", SessionID: sessionID})
	if err != nil || !resp.Success {
		t.Fatalf("abort %s: %+v err=%v", sessionID, resp.Result, err)
	}
}

func (f *fixture) playsToday(t *testing.T) int {
	t.Helper()
	limit, err := f.uc.Gate.CheckDailyLimit(context.Background(), "user-1", f.now)
	if err != nil {
		t.Fatalf("check daily limit: %v", err)
	}
	return limit.Count
}

func (f *fixture) setting(t *testing.T, key, value string) {
	t.Helper()
	if err := f.settings.Set(context.Background(), key, value); err != nil {
		t.Fatalf("set %s: %v", key, err)
	}
}

func TestStartDeniedAfterDefaultDailyLimit(t *testing.T) {
	f := newFixture(t, vitality.Pet{})
	for i := 0; i < 3; i++ {
		resp := f.start(t)
		if !resp.Success {
			t.Fatalf("start %d rejected: %+v", i+1, resp.Result)
		}
		if resp.DailyLimit == nil || resp.DailyLimit.Remaining != 2-i {
			t.Fatalf("start %d remaining mismatch: %+v", i+1, resp.DailyLimit)
		}
		f.abort(t, resp.SessionID)
	}

	resp := f.start(t)
	if resp.Success || resp.Code != outcome.CodePolicyViolation {
		t.Fatalf("expected policy violation on 4th start, got %+v", resp.Result)
	}
	if resp.DailyLimit == nil || resp.DailyLimit.Count != 3 || resp.DailyLimit.Limit != 3 {
		t.Fatalf("expected limit status 3/3, got %+v", resp.DailyLimit)
	}
}

func TestStartIgnoresSessionsFromPreviousLocalDay(t *testing.T) {
	f := newFixture(t, vitality.Pet{})
	// 2026-10-13 23:30 local is 15:30 UTC, still "yesterday" in UTC+8.
	yesterday := time.Date(2026, 10, 13, 15, 30, 0, 0, time.UTC)
	for _, id := range []string{"s-1", "s-2", "s-3"} {
		f.store.SeedSession(domain.Session{ID: id, PetID: "pet-1", UserID: "user-1", Level: 1, Status: domain.StatusAborted, StartedAt: yesterday})
	}

	resp := f.start(t)
	if !resp.Success {
		t.Fatalf("expected start allowed, got %+v", resp.Result)
	}
	if resp.DailyLimit.Count != 1 {
		t.Fatalf("expected 1 play today, got %+v", resp.DailyLimit)
	}
}

func TestStartUsesEnabledPolicyOverDefault(t *testing.T) {
	f := newFixture(t, vitality.Pet{})
	err := memory.NewDailyLimitPolicyRepo(f.store).Create(context.Background(), policyFixture("strict", 1))
	if err != nil {
		t.Fatalf("create policy: %v", err)
	}

	first := f.start(t)
	if !first.Success {
		t.Fatalf("first start rejected: %+v", first.Result)
	}
	f.abort(t, first.SessionID)
	resp := f.start(t)
	if resp.Code != outcome.CodePolicyViolation || resp.DailyLimit.PolicyName != "strict" {
		t.Fatalf("expected strict policy to deny, got %+v %+v", resp.Result, resp.DailyLimit)
	}
}

func TestStartDeniedWhenAttributeIsZero(t *testing.T) {
	stats := vitality.FullStats()
	stats.Stamina = 0
	f := newFixture(t, vitality.Pet{ID: "pet-1", UserID: "user-1", Stats: stats, AdventureLevel: 1, Version: 1})

	resp := f.start(t)
	if resp.Code != outcome.CodePolicyViolation {
		t.Fatalf("expected policy violation, got %+v", resp.Result)
	}
	if resp.Message != "pet is too tired to play (stamina is 0)" {
		t.Fatalf("unexpected message %q", resp.Message)
	}
	health, err := f.uc.CheckHealth(context.Background(), PetRequest{UserID: "user-1", PetID: "pet-1"})
	if err != nil {
		t.Fatalf("check health: %v", err)
	}
	if health.CanStart || health.Attribute != vitality.Stamina {
		t.Fatalf("expected stamina verdict, got %+v", health)
	}
}

func TestStartRejectsUnknownAndForeignPet(t *testing.T) {
	f := newFixture(t, vitality.Pet{})
	ctx := context.Background()

	resp, err := f.uc.Start(ctx, PetRequest{UserID: "user-1", PetID: "missing"})
	if err != nil || resp.Code != outcome.CodeNotFound {
		t.Fatalf("expected not_found, got %+v err=%v", resp.Result, err)
	}
	resp, err = f.uc.Start(ctx, PetRequest{UserID: "user-2", PetID: "pet-1"})
	if err != nil || resp.Code != outcome.CodeForbidden {
		t.Fatalf("expected forbidden, got %+v err=%v", resp.Result, err)
	}
}

func TestWinsAdvanceLevelUpToMax(t *testing.T) {
	f := newFixture(t, vitality.Pet{})
	f.setting(t, settings.KeyDailyLimitDefault, "10")
	ctx := context.Background()

	wantLevels := []int{1, 2, 3, 3}
	for i, want := range wantLevels {
		start := f.start(t)
		if !start.Success || start.Level != want {
			t.Fatalf("start %d: want level %d, got %+v level=%d", i+1, want, start.Result, start.Level)
		}
		if start.Difficulty == nil || start.Difficulty.MonsterCount != domain.DefaultDifficulty(want).MonsterCount {
			t.Fatalf("start %d: difficulty mismatch %+v", i+1, start.Difficulty)
		}
		end, err := f.uc.End(ctx, EndRequest{UserID: "user-1", SessionID: start.SessionID, IsWin: true, Points: 10, Experience: 5})
		if err != nil {
			t.Fatalf("end %d: %v", i+1, err)
		}
		if !end.Success || end.Session.Status != domain.StatusWon {
			t.Fatalf("end %d: unexpected %+v", i+1, end.Result)
		}
	}

	pet := f.pet(t)
	if pet.Level() != 3 || pet.Experience != 20 {
		t.Fatalf("expected level 3 and 20 xp, got level=%d xp=%d", pet.Level(), pet.Experience)
	}
	want := vitality.Stats{Hunger: 20, Mood: 100, Stamina: 20, Cleanliness: 20, Health: 100}
	if pet.Stats != want {
		t.Fatalf("stats mismatch: got=%+v want=%+v", pet.Stats, want)
	}
	level, err := f.uc.CurrentLevel(ctx, PetRequest{UserID: "user-1", PetID: "pet-1"})
	if err != nil || level.Level != 3 || level.MaxLevel != 3 {
		t.Fatalf("current level mismatch: %+v err=%v", level, err)
	}
}

func TestLossKeepsLevelAndAppliesLossDeltas(t *testing.T) {
	f := newFixture(t, vitality.Pet{ID: "pet-1", UserID: "user-1", Stats: vitality.FullStats(), AdventureLevel: 2, Version: 1})
	start := f.start(t)
	if start.Level != 2 {
		t.Fatalf("expected level 2, got %d", start.Level)
	}

	end, err := f.uc.End(context.Background(), EndRequest{UserID: "user-1", SessionID: start.SessionID, IsWin: false, Points: 3})
	if err != nil {
		t.Fatalf("end: %v", err)
	}
	if !end.Success || end.Session.Status != domain.StatusLost {
		t.Fatalf("unexpected end %+v", end.Result)
	}
	if end.Settlement.LevelBefore != 2 || end.Settlement.LevelAfter != 2 {
		t.Fatalf("level should hold on loss: %+v", end.Settlement)
	}
	want := vitality.Stats{Hunger: 80, Mood: 70, Stamina: 80, Cleanliness: 80, Health: 100}
	if got := f.pet(t).Stats; got != want {
		t.Fatalf("stats mismatch: got=%+v want=%+v", got, want)
	}
}

func TestEndUsesConfiguredDeltas(t *testing.T) {
	f := newFixture(t, vitality.Pet{})
	f.setting(t, settings.KeyWinHungerDelta, "-5")
	f.setting(t, settings.KeyWinMoodDelta, "0")
	start := f.start(t)

	if _, err := f.uc.End(context.Background(), EndRequest{UserID: "user-1", SessionID: start.SessionID, IsWin: true}); err != nil {
		t.Fatalf("end: %v", err)
	}
	want := vitality.Stats{Hunger: 95, Mood: 100, Stamina: 80, Cleanliness: 80, Health: 100}
	if got := f.pet(t).Stats; got != want {
		t.Fatalf("stats mismatch: got=%+v want=%+v", got, want)
	}
}

func TestEndTwiceIsInvalidState(t *testing.T) {
	f := newFixture(t, vitality.Pet{})
	ctx := context.Background()
	start := f.start(t)
	req := EndRequest{UserID: "user-1", SessionID: start.SessionID, IsWin: true, Points: 1}

	if first, err := f.uc.End(ctx, req); err != nil || !first.Success {
		t.Fatalf("first end failed: %+v err=%v", first.Result, err)
	}
	before := f.pet(t)
	second, err := f.uc.End(ctx, req)
	if err != nil {
		t.Fatalf("second end: %v", err)
	}
	if second.Code != outcome.CodeInvalidState {
		t.Fatalf("expected invalid_state, got %+v", second.Result)
	}
	if after := f.pet(t); after.Stats != before.Stats || after.Version != before.Version {
		t.Fatalf("second end must not change pet: before=%+v after=%+v", before, after)
	}
}

func TestEndRejectsBadRewards(t *testing.T) {
	f := newFixture(t, vitality.Pet{})
	ctx := context.Background()
	start := f.start(t)

	neg, err := f.uc.End(ctx, EndRequest{UserID: "user-1", SessionID: start.SessionID, Points: -1})
	if err != nil || neg.Code != outcome.CodeInvalidRequest {
		t.Fatalf("expected invalid_request for negative points, got %+v err=%v", neg.Result, err)
	}
	over, err := f.uc.End(ctx, EndRequest{UserID: "user-1", SessionID: start.SessionID, IsWin: true, Points: 51})
	if err != nil || over.Code != outcome.CodePolicyViolation {
		t.Fatalf("expected policy_violation for points over bound, got %+v err=%v", over.Result, err)
	}

	f.setting(t, settings.LevelRewardBoundsKey(1), `{"win":{"points":{"min":0,"max":500},"experience":{"min":0,"max":10}},"loss":{"points":{"min":0,"max":0},"experience":{"min":0,"max":0}}}`)
	ok, err := f.uc.End(ctx, EndRequest{UserID: "user-1", SessionID: start.SessionID, IsWin: true, Points: 400})
	if err != nil || !ok.Success {
		t.Fatalf("expected configured bounds to accept, got %+v err=%v", ok.Result, err)
	}
}

func TestEndSkipsBoundsWhenValidationDisabled(t *testing.T) {
	f := newFixture(t, vitality.Pet{})
	f.setting(t, settings.KeyRewardValidationEnabled, "false")
	start := f.start(t)

	resp, err := f.uc.End(context.Background(), EndRequest{UserID: "user-1", SessionID: start.SessionID, IsWin: true, Points: 9999})
	if err != nil || !resp.Success {
		t.Fatalf("expected success, got %+v err=%v", resp.Result, err)
	}
}

func TestEndRejectsRewardsBeyondInt32WhenValidationDisabled(t *testing.T) {
	f := newFixture(t, vitality.Pet{})
	f.setting(t, settings.KeyRewardValidationEnabled, "false")
	start := f.start(t)

	resp, err := f.uc.End(context.Background(), EndRequest{UserID: "user-1", SessionID: start.SessionID, IsWin: true, Points: math.MaxInt32 + 1})
	if err != nil || resp.Code != outcome.CodeInvalidRequest {
		t.Fatalf("expected invalid_request, got %+v err=%v", resp.Result, err)
	}
	retry, err := f.uc.End(context.Background(), EndRequest{UserID: "user-1", SessionID: start.SessionID, IsWin: true, Points: math.MaxInt32})
	if err != nil || !retry.Success {
		t.Fatalf("rejected end must leave the session open, got %+v err=%v", retry.Result, err)
	}
}

func TestEndByOtherUserIsForbidden(t *testing.T) {
	f := newFixture(t, vitality.Pet{})
	start := f.start(t)

	resp, err := f.uc.End(context.Background(), EndRequest{UserID: "user-2", SessionID: start.SessionID, IsWin: true})
	if err != nil || resp.Code != outcome.CodeForbidden {
		t.Fatalf("expected forbidden, got %+v err=%v", resp.Result, err)
	}
	missing, err := f.uc.End(context.Background(), EndRequest{UserID: "user-1", SessionID: "nope"})
	if err != nil || missing.Code != outcome.CodeNotFound {
		t.Fatalf("expected not_found, got %+v err=%v", missing.Result, err)
	}
}

func TestAbortLeavesPetUntouched(t *testing.T) {
	f := newFixture(t, vitality.Pet{})
	ctx := context.Background()
	start := f.start(t)
	before := f.pet(t)

	resp, err := f.uc.Abort(ctx, AbortRequest{UserID: "user-1", SessionID: start.SessionID})
	if err != nil {
		t.Fatalf("abort: %v", err)
	}
	if !resp.Success || resp.Session.Status != domain.StatusAborted || resp.Session.EndedAt == nil {
		t.Fatalf("unexpected abort %+v", resp)
	}
	if after := f.pet(t); after != before {
		t.Fatalf("abort changed pet: before=%+v after=%+v", before, after)
	}
	again, err := f.uc.Abort(ctx, AbortRequest{UserID: "user-1", SessionID: start.SessionID})
	if err != nil || again.Code != outcome.CodeInvalidState {
		t.Fatalf("expected invalid_state on second abort, got %+v err=%v", again.Result, err)
	}
	end, err := f.uc.End(ctx, EndRequest{UserID: "user-1", SessionID: start.SessionID, IsWin: true})
	if err != nil || end.Code != outcome.CodeInvalidState {
		t.Fatalf("expected invalid_state on end after abort, got %+v err=%v", end.Result, err)
	}
}

func TestStartRejectedWhileSessionInProgress(t *testing.T) {
	f := newFixture(t, vitality.Pet{})
	ctx := context.Background()
	first := f.start(t)
	if !first.Success {
		t.Fatalf("first start rejected: %+v", first.Result)
	}

	second := f.start(t)
	if second.Success || second.Code != outcome.CodeInvalidState {
		t.Fatalf("expected invalid_state while a session is open, got %+v", second.Result)
	}
	if second.DailyLimit != nil {
		t.Fatalf("rejected start must not report a consumed play, got %+v", second.DailyLimit)
	}

	end, err := f.uc.End(ctx, EndRequest{UserID: "user-1", SessionID: first.SessionID, IsWin: true})
	if err != nil || !end.Success {
		t.Fatalf("end: %+v err=%v", end.Result, err)
	}
	third := f.start(t)
	if !third.Success || third.Level != 2 {
		t.Fatalf("expected start at level 2 after the win, got %+v level=%d", third.Result, third.Level)
	}
	loss, err := f.uc.End(ctx, EndRequest{UserID: "user-1", SessionID: third.SessionID, IsWin: false})
	if err != nil || !loss.Success {
		t.Fatalf("end loss: %+v err=%v", loss.Result, err)
	}
	if got := f.pet(t).Level(); got != 2 {
		t.Fatalf("loss changed level: got %d want 2", got)
	}
	if n := f.playsToday(t); n != 2 {
		t.Fatalf("expected 2 plays counted today, got %d", n)
	}
}

func TestConcurrentStartsOnOnePetOpenOneSession(t *testing.T) {
	f := newFixture(t, vitality.Pet{})
	const workers = 8

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := f.uc.Start(context.Background(), PetRequest{UserID: "user-1", PetID: "pet-1"})
			if err != nil {
				t.Errorf("start: %v", err)
				return
			}
			if resp.Success {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 1 {
		t.Fatalf("expected exactly one open session, got %d", allowed)
	}
}

func TestConcurrentStartsRespectDailyLimit(t *testing.T) {
	f := newFixture(t, vitality.Pet{})
	pets := []string{"pet-1", "pet-2", "pet-3", "pet-4", "pet-5", "pet-6"}
	for _, id := range pets[1:] {
		f.store.SeedPet(vitality.Pet{ID: id, UserID: "user-1", Stats: vitality.FullStats(), AdventureLevel: 1, Version: 1})
	}
	const workers = 12

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(petID string) {
			defer wg.Done()
			resp, err := f.uc.Start(context.Background(), PetRequest{UserID: "user-1", PetID: petID})
			if err != nil {
				t.Errorf("start: %v", err)
				return
			}
			if resp.Success {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}(pets[i%len(pets)])
	}
	wg.Wait()

	if allowed != settings.DefaultDailyLimit {
		t.Fatalf("expected %d starts allowed, got %d", settings.DefaultDailyLimit, allowed)
	}
}

func policyFixture(name string, maxPlays int) ports.DailyLimitPolicy {
	return ports.DailyLimitPolicy{ID: "policy-" + name, Name: name, MaxPlays: maxPlays, Enabled: true, CreatedAt: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)}
}
