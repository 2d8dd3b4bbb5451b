package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"petquest/internal/adapter/metrics/inmemory"
	"petquest/internal/adapter/repo/memory"
	"petquest/internal/app/adventure"
	"petquest/internal/app/decay"
	"petquest/internal/app/gate"
	"petquest/internal/app/interaction"
	"petquest/internal/app/journal"
	"petquest/internal/app/pet"
	"petquest/internal/app/policy"
	"petquest/internal/app/ports"
	"petquest/internal/app/settings"
	"petquest/internal/domain/calendar"
	"petquest/internal/domain/vitality"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/cloudwego/hertz/pkg/route/param"
)

type stubDecay struct {
	res   decay.Result
	err   error
	calls int
}

func (s *stubDecay) RunOnce(context.Context) (decay.Result, error) {
	s.calls++
	return s.res, s.err
}

func newTestHandler(t *testing.T) (Handler, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.SeedPet(vitality.Pet{ID: "pet-1", UserID: "user-1", Name: "Mochi", Stats: vitality.FullStats(), AdventureLevel: 1, Version: 1})
	now := time.Date(2026, 10, 14, 2, 0, 0, 0, time.UTC)
	zone := calendar.NewZone(time.FixedZone("UTC+8", 8*60*60), func() time.Time { return now })
	provider := settings.NewProvider(memory.NewSettingsRepo(store))
	tx := memory.NewTxManager(store)
	pets := memory.NewPetRepo(store)
	events := memory.NewEventRepo(store)
	sessions := memory.NewSessionRepo(store)
	policies := memory.NewDailyLimitPolicyRepo(store)
	metrics := inmemory.NewRecorder()
	limitGate := gate.Gate{Policies: policies, Sessions: sessions, Settings: provider, Calendar: zone}

	return Handler{
		PetUC: pet.UseCase{TxManager: tx, Pets: pets, Events: events, Calendar: zone},
		InteractionUC: interaction.UseCase{
			TxManager: tx, Pets: pets, Events: events, Settings: provider, Calendar: zone, Metrics: metrics,
		},
		AdventureUC: adventure.UseCase{
			TxManager: tx,
			Pets:      pets,
			Sessions:  sessions,
			Ledger:    memory.NewPlayLedgerRepo(store),
			Events:    events,
			Gate:      limitGate,
			Settings:  provider,
			Calendar:  zone,
			Metrics:   metrics,
		},
		PolicyUC:  policy.UseCase{Policies: policies, Gate: limitGate, Calendar: zone},
		JournalUC: journal.UseCase{Pets: pets, Events: events},
		Settings:  provider,
		KPI:       metrics,
	}, store
}

func newRequest(userID, body string, params ...param.Param) *app.RequestContext {
	ctx := &app.RequestContext{}
	if userID != "" {
		ctx.Request.Header.Set(userIDHeader, userID)
	}
	if body != "" {
		ctx.Request.SetBody([]byte(body))
	}
	ctx.Params = param.Params(params)
	return ctx
}

func decodeBody(t *testing.T, ctx *app.RequestContext) map[string]any {
	t.Helper()
	var got map[string]any
	if err := json.Unmarshal(ctx.Response.Body(), &got); err != nil {
		t.Fatalf("unmarshal response: %v body=%s", err, string(ctx.Response.Body()))
	}
	return got
}

func petParam() param.Param { return param.Param{Key: "id", Value: "pet-1"} }

func TestMissingUserHeaderIsBadRequest(t *testing.T) {
	h, _ := newTestHandler(t)
	ctx := newRequest("", "", petParam())

	h.petStatus(context.Background(), ctx)

	if ctx.Response.StatusCode() != consts.StatusBadRequest {
		t.Fatalf("expected 400, got %d", ctx.Response.StatusCode())
	}
	got := decodeBody(t, ctx)
	if got["success"] != false || got["code"] != "invalid_request" {
		t.Fatalf("unexpected error body: %v", got)
	}
}

func TestAdoptThenStatus(t *testing.T) {
	h, _ := newTestHandler(t)
	h.PetUC.NewID = func() string { return "pet-2" }

	ctx := newRequest("user-2", `{"name":"Tofu"}`)
	h.adopt(context.Background(), ctx)
	if ctx.Response.StatusCode() != consts.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", ctx.Response.StatusCode(), string(ctx.Response.Body()))
	}

	ctx = newRequest("user-2", "", param.Param{Key: "id", Value: "pet-2"})
	h.petStatus(context.Background(), ctx)
	if ctx.Response.StatusCode() != consts.StatusOK {
		t.Fatalf("expected 200, got %d", ctx.Response.StatusCode())
	}
	got := decodeBody(t, ctx)
	petBody := asMap(got["pet"])
	if petBody["name"] != "Tofu" || petBody["pet_id"] != "pet-2" {
		t.Fatalf("unexpected pet body: %v", petBody)
	}
}

func TestAdoptRejectsInvalidJSON(t *testing.T) {
	h, _ := newTestHandler(t)
	ctx := newRequest("user-2", `{"name":`)

	h.adopt(context.Background(), ctx)

	if ctx.Response.StatusCode() != consts.StatusBadRequest {
		t.Fatalf("expected 400, got %d", ctx.Response.StatusCode())
	}
}

func TestStatusOfAnotherUsersPetIsForbidden(t *testing.T) {
	h, _ := newTestHandler(t)
	ctx := newRequest("user-2", "", petParam())

	h.petStatus(context.Background(), ctx)

	if ctx.Response.StatusCode() != consts.StatusForbidden {
		t.Fatalf("expected 403, got %d", ctx.Response.StatusCode())
	}
	if got := decodeBody(t, ctx); got["code"] != "forbidden" {
		t.Fatalf("unexpected body: %v", got)
	}
}

func TestStatusOfMissingPetIsNotFound(t *testing.T) {
	h, _ := newTestHandler(t)
	ctx := newRequest("user-1", "", param.Param{Key: "id", Value: "missing"})

	h.petStatus(context.Background(), ctx)

	if ctx.Response.StatusCode() != consts.StatusNotFound {
		t.Fatalf("expected 404, got %d", ctx.Response.StatusCode())
	}
}

func TestFeedRoutesToInteraction(t *testing.T) {
	h, store := newTestHandler(t)
	store.SeedPet(vitality.Pet{
		ID: "pet-1", UserID: "user-1", AdventureLevel: 1, Version: 1,
		Stats: vitality.Stats{Hunger: 40, Mood: 40, Stamina: 40, Cleanliness: 40, Health: 40},
	})
	ctx := newRequest("user-1", "", petParam())

	h.interact(vitality.InteractionFeed)(context.Background(), ctx)

	if ctx.Response.StatusCode() != consts.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", ctx.Response.StatusCode(), string(ctx.Response.Body()))
	}
	got := decodeBody(t, ctx)
	if got["interaction"] != "feed" || got["success"] != true {
		t.Fatalf("unexpected body: %v", got)
	}
	stats := asMap(got["stats"])
	if stats["hunger"].(float64) <= 40 {
		t.Fatalf("expected hunger to rise, got %v", stats)
	}
}

func TestAdventureFlowOverHTTP(t *testing.T) {
	h, _ := newTestHandler(t)
	h.AdventureUC.NewID = func() string { return "session-1" }

	ctx := newRequest("user-1", "", petParam())
	h.adventureStart(context.Background(), ctx)
	if ctx.Response.StatusCode() != consts.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", ctx.Response.StatusCode(), string(ctx.Response.Body()))
	}
	started := decodeBody(t, ctx)
	if started["session_id"] != "session-1" {
		t.Fatalf("unexpected start body: %v", started)
	}

	sid := param.Param{Key: "sid", Value: "session-1"}
	ctx = newRequest("user-1", `{"is_win":true,"points":10,"experience":5}`, sid)
	h.adventureEnd(context.Background(), ctx)
	if ctx.Response.StatusCode() != consts.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", ctx.Response.StatusCode(), string(ctx.Response.Body()))
	}

	ctx = newRequest("user-1", `{"is_win":true,"points":10,"experience":5}`, sid)
	h.adventureEnd(context.Background(), ctx)
	if ctx.Response.StatusCode() != consts.StatusConflict {
		t.Fatalf("expected 409 on second end, got %d", ctx.Response.StatusCode())
	}
	if got := decodeBody(t, ctx); got["code"] != "invalid_state" {
		t.Fatalf("unexpected body: %v", got)
	}

	ctx = newRequest("user-1", "", petParam())
	h.adventureLevel(context.Background(), ctx)
	if got := decodeBody(t, ctx); got["level"].(float64) != 2 {
		t.Fatalf("expected level 2 after a win, got %v", got)
	}
}

func TestAdventureEndRejectsOversizedReward(t *testing.T) {
	h, _ := newTestHandler(t)
	h.AdventureUC.NewID = func() string { return "session-1" }
	h.adventureStart(context.Background(), newRequest("user-1", "", petParam()))

	ctx := newRequest("user-1", `{"is_win":true,"points":100000,"experience":5}`, param.Param{Key: "sid", Value: "session-1"})
	h.adventureEnd(context.Background(), ctx)

	if ctx.Response.StatusCode() != consts.StatusConflict {
		t.Fatalf("expected 409, got %d", ctx.Response.StatusCode())
	}
	if got := decodeBody(t, ctx); got["code"] != "policy_violation" {
		t.Fatalf("unexpected body: %v", got)
	}
}

func TestDailyLimitReturnsConflict(t *testing.T) {
	h, _ := newTestHandler(t)
	for i := 0; i < 3; i++ {
		ctx := newRequest("user-1", "", petParam())
		h.adventureStart(context.Background(), ctx)
		if ctx.Response.StatusCode() != consts.StatusCreated {
			t.Fatalf("start %d: expected 201, got %d", i+1, ctx.Response.StatusCode())
		}
		sid, _ := decodeBody(t, ctx)["session_id"].(string)
		ctx = newRequest("user-1", "", param.Param{Key: "sid", Value: sid})
		h.adventureAbort(context.Background(), ctx)
		if ctx.Response.StatusCode() != consts.StatusOK {
			t.Fatalf("abort %d: expected 200, got %d", i+1, ctx.Response.StatusCode())
		}
	}
	ctx := newRequest("user-1", "", petParam())
	h.adventureStart(context.Background(), ctx)

	if ctx.Response.StatusCode() != consts.StatusConflict {
		t.Fatalf("expected 409, got %d", ctx.Response.StatusCode())
	}
	got := decodeBody(t, ctx)
	limit := asMap(got["daily_limit"])
	if limit["remaining"].(float64) != 0 || limit["limit"].(float64) != 3 {
		t.Fatalf("unexpected daily limit: %v", got)
	}
}

func TestSecondStartWhileInProgressIsConflict(t *testing.T) {
	h, _ := newTestHandler(t)
	h.adventureStart(context.Background(), newRequest("user-1", "", petParam()))

	ctx := newRequest("user-1", "", petParam())
	h.adventureStart(context.Background(), ctx)

	if ctx.Response.StatusCode() != consts.StatusConflict {
		t.Fatalf("expected 409, got %d", ctx.Response.StatusCode())
	}
	if got := decodeBody(t, ctx); got["code"] != "invalid_state" {
		t.Fatalf("unexpected body: %v", got)
	}
}

func TestHealthCheckReportsWeakPetWithOK(t *testing.T) {
	h, store := newTestHandler(t)
	stats := vitality.FullStats()
	stats.Stamina = 0
	store.SeedPet(vitality.Pet{ID: "pet-1", UserID: "user-1", Stats: stats, AdventureLevel: 1, Version: 1})
	ctx := newRequest("user-1", "", petParam())

	h.adventureHealth(context.Background(), ctx)

	if ctx.Response.StatusCode() != consts.StatusOK {
		t.Fatalf("expected 200, got %d", ctx.Response.StatusCode())
	}
	got := decodeBody(t, ctx)
	if got["can_start"] != false || got["attribute"] != "stamina" {
		t.Fatalf("unexpected verdict: %v", got)
	}
}

func TestPolicyEndpoints(t *testing.T) {
	h, _ := newTestHandler(t)
	h.PolicyUC.NewID = func() string { return "policy-1" }

	ctx := newRequest("", `{"name":"weekend","max_plays":5}`)
	h.createPolicy(context.Background(), ctx)
	if ctx.Response.StatusCode() != consts.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", ctx.Response.StatusCode(), string(ctx.Response.Body()))
	}

	ctx = newRequest("", "")
	h.currentLimit(context.Background(), ctx)
	got := decodeBody(t, ctx)
	if got["limit"].(float64) != 5 || got["source"] != policy.SourcePolicy {
		t.Fatalf("expected enabled policy to win, got %v", got)
	}

	ctx = newRequest("", `{"enabled":false}`, param.Param{Key: "id", Value: "policy-1"})
	h.setPolicyEnabled(context.Background(), ctx)
	if ctx.Response.StatusCode() != consts.StatusOK {
		t.Fatalf("expected 200, got %d", ctx.Response.StatusCode())
	}

	ctx = newRequest("", "")
	h.currentLimit(context.Background(), ctx)
	got = decodeBody(t, ctx)
	if got["limit"].(float64) != 3 || got["source"] != policy.SourceDefault {
		t.Fatalf("expected default limit after disabling, got %v", got)
	}

	ctx = newRequest("", "")
	h.listPolicies(context.Background(), ctx)
	got = decodeBody(t, ctx)
	if list, _ := got["policies"].([]any); len(list) != 1 {
		t.Fatalf("expected one policy, got %v", got)
	}

	ctx = newRequest("", `{"enabled":true}`, param.Param{Key: "id", Value: "missing"})
	h.setPolicyEnabled(context.Background(), ctx)
	if ctx.Response.StatusCode() != consts.StatusNotFound {
		t.Fatalf("expected 404, got %d", ctx.Response.StatusCode())
	}
}

func TestCreatePolicyValidatesMaxPlays(t *testing.T) {
	h, _ := newTestHandler(t)
	ctx := newRequest("", `{"name":"broken","max_plays":0}`)

	h.createPolicy(context.Background(), ctx)

	if ctx.Response.StatusCode() != consts.StatusBadRequest {
		t.Fatalf("expected 400, got %d", ctx.Response.StatusCode())
	}
}

func TestPutSettingChangesDefaultLimit(t *testing.T) {
	h, _ := newTestHandler(t)
	ctx := newRequest("", `{"value":"7"}`, param.Param{Key: "key", Value: settings.KeyDailyLimitDefault})

	h.putSetting(context.Background(), ctx)
	if ctx.Response.StatusCode() != consts.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", ctx.Response.StatusCode(), string(ctx.Response.Body()))
	}

	ctx = newRequest("", "")
	h.currentLimit(context.Background(), ctx)
	if got := decodeBody(t, ctx); got["limit"].(float64) != 7 {
		t.Fatalf("expected limit 7, got %v", got)
	}
}

func TestPutSettingRejectsBlankKey(t *testing.T) {
	h, _ := newTestHandler(t)
	ctx := newRequest("", `{"value":"7"}`, param.Param{Key: "key", Value: " "})

	h.putSetting(context.Background(), ctx)

	if ctx.Response.StatusCode() != consts.StatusBadRequest {
		t.Fatalf("expected 400, got %d", ctx.Response.StatusCode())
	}
}

func TestEventsListsJournal(t *testing.T) {
	h, _ := newTestHandler(t)
	h.interact(vitality.InteractionBathe)(context.Background(), newRequest("user-1", "", petParam()))

	ctx := newRequest("user-1", "", petParam())
	ctx.Request.SetQueryString("limit=10")
	h.events(context.Background(), ctx)

	if ctx.Response.StatusCode() != consts.StatusOK {
		t.Fatalf("expected 200, got %d", ctx.Response.StatusCode())
	}
	got := decodeBody(t, ctx)
	if list, _ := got["events"].([]any); len(list) != 1 {
		t.Fatalf("expected one event, got %v", got)
	}
}

func TestRunDecay(t *testing.T) {
	h, _ := newTestHandler(t)
	runner := &stubDecay{res: decay.Result{Applied: true, LocalDate: "2026-10-14", PetsDecayed: 1, Message: "decayed 1 pets for 2026-10-14"}}
	h.Decay = runner
	ctx := newRequest("", "")

	h.runDecay(context.Background(), ctx)

	if ctx.Response.StatusCode() != consts.StatusOK || runner.calls != 1 {
		t.Fatalf("expected one successful run, got status=%d calls=%d", ctx.Response.StatusCode(), runner.calls)
	}
	got := decodeBody(t, ctx)
	if asMap(got["run"])["pets_decayed"].(float64) != 1 {
		t.Fatalf("unexpected body: %v", got)
	}
}

func TestRunDecayMapsConflict(t *testing.T) {
	h, _ := newTestHandler(t)
	h.Decay = &stubDecay{err: ports.ErrConflict}
	ctx := newRequest("", "")

	h.runDecay(context.Background(), ctx)

	if ctx.Response.StatusCode() != consts.StatusConflict {
		t.Fatalf("expected 409, got %d", ctx.Response.StatusCode())
	}
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	ctx := &app.RequestContext{}
	writeError(ctx, errors.New("dial tcp 10.0.0.1:5432: connection refused"))

	if ctx.Response.StatusCode() != consts.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", ctx.Response.StatusCode())
	}
	if got := decodeBody(t, ctx); got["message"] != "internal error" {
		t.Fatalf("unexpected body: %v", got)
	}
}

func TestKPIReturnsSnapshot(t *testing.T) {
	h, _ := newTestHandler(t)
	h.interact(vitality.InteractionPlay)(context.Background(), newRequest("user-1", "", petParam()))
	ctx := newRequest("", "")

	h.kpi(context.Background(), ctx)

	got := decodeBody(t, ctx)
	if got["interaction_total"].(float64) != 1 {
		t.Fatalf("unexpected kpi snapshot: %v", got)
	}
}
