package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"petquest/internal/app/adventure"
	"petquest/internal/app/decay"
	"petquest/internal/app/interaction"
	"petquest/internal/app/journal"
	"petquest/internal/app/outcome"
	"petquest/internal/app/pet"
	"petquest/internal/app/policy"
	"petquest/internal/app/ports"
	"petquest/internal/app/settings"
	"petquest/internal/domain/vitality"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const userIDHeader = "X-User-ID"

type settingsWriter interface {
	Set(ctx context.Context, key, value string) error
}

type decayRunner interface {
	RunOnce(ctx context.Context) (decay.Result, error)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

type Handler struct {
	PetUC         pet.UseCase
	InteractionUC interaction.UseCase
	AdventureUC   adventure.UseCase
	PolicyUC      policy.UseCase
	JournalUC     journal.UseCase
	Settings      settingsWriter
	Decay         decayRunner
	KPI           kpiSnapshotProvider
	Logger        *slog.Logger
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware(), accessLogMiddleware(h.Logger))

	pets := s.Group("/api/pets")
	pets.POST("", h.adopt)
	pets.GET("/:id", h.petStatus)
	pets.GET("/:id/events", h.events)
	for _, kind := range vitality.Interactions {
		pets.POST("/:id/"+string(kind), h.interact(kind))
	}
	pets.GET("/:id/adventure/health", h.adventureHealth)
	pets.GET("/:id/adventure/level", h.adventureLevel)
	pets.POST("/:id/adventure/start", h.adventureStart)

	sessions := s.Group("/api/adventure/sessions")
	sessions.POST("/:sid/end", h.adventureEnd)
	sessions.POST("/:sid/abort", h.adventureAbort)

	admin := s.Group("/api/admin")
	admin.GET("/daily-limit", h.currentLimit)
	admin.GET("/daily-limit/policies", h.listPolicies)
	admin.POST("/daily-limit/policies", h.createPolicy)
	admin.POST("/daily-limit/policies/:id/enabled", h.setPolicyEnabled)
	admin.PUT("/settings/:key", h.putSetting)
	admin.POST("/decay/run", h.runDecay)

	s.GET("/ops/kpi", h.kpi)
}

type adoptRequest struct {
	Name string `json:"name"`
}

type endRequest struct {
	IsWin      bool   `json:"is_win"`
	Points     int    `json:"points"`
	Experience int    `json:"experience"`
	RewardCode string `json:"reward_code,omitempty"`
}

type createPolicyRequest struct {
	Name     string `json:"name"`
	MaxPlays int    `json:"max_plays"`
	Enabled  *bool  `json:"enabled,omitempty"`
}

type enabledRequest struct {
	Enabled bool `json:"enabled"`
}

type settingRequest struct {
	Value string `json:"value"`
}

type decayResponse struct {
	outcome.Result
	Run decay.Result `json:"run"`
}

func (h Handler) adopt(c context.Context, ctx *app.RequestContext) {
	userID, err := requireUser(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body adoptRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.PetUC.Adopt(c, pet.AdoptRequest{UserID: userID, Name: body.Name})
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeResult(ctx, consts.StatusCreated, resp.Result, resp)
}

func (h Handler) petStatus(c context.Context, ctx *app.RequestContext) {
	userID, err := requireUser(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.PetUC.Status(c, pet.StatusRequest{UserID: userID, PetID: ctx.Param("id")})
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeResult(ctx, consts.StatusOK, resp.Result, resp)
}

func (h Handler) events(c context.Context, ctx *app.RequestContext) {
	userID, err := requireUser(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	limit, _ := strconv.Atoi(ctx.Query("limit"))
	occurredFrom, _ := strconv.ParseInt(ctx.Query("occurred_from"), 10, 64)
	occurredTo, _ := strconv.ParseInt(ctx.Query("occurred_to"), 10, 64)
	resp, err := h.JournalUC.List(c, journal.Request{
		UserID:       userID,
		PetID:        ctx.Param("id"),
		Limit:        limit,
		OccurredFrom: occurredFrom,
		OccurredTo:   occurredTo,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeResult(ctx, consts.StatusOK, resp.Result, resp)
}

func (h Handler) interact(kind vitality.Interaction) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		userID, err := requireUser(ctx)
		if err != nil {
			writeError(ctx, err)
			return
		}
		resp, err := h.InteractionUC.Execute(c, interaction.Request{
			UserID: userID,
			PetID:  ctx.Param("id"),
			Kind:   string(kind),
		})
		if err != nil {
			writeError(ctx, err)
			return
		}
		writeResult(ctx, consts.StatusOK, resp.Result, resp)
	}
}

func (h Handler) adventureHealth(c context.Context, ctx *app.RequestContext) {
	userID, err := requireUser(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.AdventureUC.CheckHealth(c, adventure.PetRequest{UserID: userID, PetID: ctx.Param("id")})
	if err != nil {
		writeError(ctx, err)
		return
	}
	// A pet too weak to play is a verdict, not a failed request.
	if resp.Code == outcome.CodePolicyViolation {
		ctx.JSON(consts.StatusOK, resp)
		return
	}
	writeResult(ctx, consts.StatusOK, resp.Result, resp)
}

func (h Handler) adventureLevel(c context.Context, ctx *app.RequestContext) {
	userID, err := requireUser(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.AdventureUC.CurrentLevel(c, adventure.PetRequest{UserID: userID, PetID: ctx.Param("id")})
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeResult(ctx, consts.StatusOK, resp.Result, resp)
}

func (h Handler) adventureStart(c context.Context, ctx *app.RequestContext) {
	userID, err := requireUser(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.AdventureUC.Start(c, adventure.PetRequest{UserID: userID, PetID: ctx.Param("id")})
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeResult(ctx, consts.StatusCreated, resp.Result, resp)
}

func (h Handler) adventureEnd(c context.Context, ctx *app.RequestContext) {
	userID, err := requireUser(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	var body endRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.AdventureUC.End(c, adventure.EndRequest{
		UserID:     userID,
		SessionID:  ctx.Param("sid"),
		IsWin:      body.IsWin,
		Points:     body.Points,
		Experience: body.Experience,
		RewardCode: body.RewardCode,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeResult(ctx, consts.StatusOK, resp.Result, resp)
}

func (h Handler) adventureAbort(c context.Context, ctx *app.RequestContext) {
	userID, err := requireUser(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.AdventureUC.Abort(c, adventure.AbortRequest{UserID: userID, SessionID: ctx.Param("sid")})
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeResult(ctx, consts.StatusOK, resp.Result, resp)
}

func (h Handler) currentLimit(c context.Context, ctx *app.RequestContext) {
	resp, err := h.PolicyUC.Current(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeResult(ctx, consts.StatusOK, resp.Result, resp)
}

func (h Handler) listPolicies(c context.Context, ctx *app.RequestContext) {
	resp, err := h.PolicyUC.List(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeResult(ctx, consts.StatusOK, resp.Result, resp)
}

func (h Handler) createPolicy(c context.Context, ctx *app.RequestContext) {
	var body createPolicyRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	enabled := true
	if body.Enabled != nil {
		enabled = *body.Enabled
	}
	resp, err := h.PolicyUC.Create(c, policy.CreateRequest{Name: body.Name, MaxPlays: body.MaxPlays, Enabled: enabled})
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeResult(ctx, consts.StatusCreated, resp.Result, resp)
}

func (h Handler) setPolicyEnabled(c context.Context, ctx *app.RequestContext) {
	var body enabledRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	resp, err := h.PolicyUC.SetEnabled(c, ctx.Param("id"), body.Enabled)
	if err != nil {
		writeError(ctx, err)
		return
	}
	writeResult(ctx, consts.StatusOK, resp.Result, resp)
}

func (h Handler) putSetting(c context.Context, ctx *app.RequestContext) {
	if h.Settings == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "settings store not configured")
		return
	}
	var body settingRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	key := ctx.Param("key")
	if err := h.Settings.Set(c, key, body.Value); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{
		"success": true,
		"message": "setting updated",
		"key":     key,
		"value":   body.Value,
	})
}

func (h Handler) runDecay(c context.Context, ctx *app.RequestContext) {
	if h.Decay == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "decay runner not configured")
		return
	}
	res, err := h.Decay.RunOnce(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, decayResponse{Result: outcome.OK(res.Message), Run: res})
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

var ErrMissingUserIDHeader = errors.New("missing x-user-id header")

func requireUser(ctx *app.RequestContext) (string, error) {
	userID := strings.TrimSpace(string(ctx.GetHeader(userIDHeader)))
	if userID == "" {
		return "", ErrMissingUserIDHeader
	}
	return userID, nil
}

var statusByCode = map[outcome.Code]int{
	outcome.CodeNotFound:        consts.StatusNotFound,
	outcome.CodeForbidden:       consts.StatusForbidden,
	outcome.CodePolicyViolation: consts.StatusConflict,
	outcome.CodeInvalidState:    consts.StatusConflict,
	outcome.CodeInvalidRequest:  consts.StatusBadRequest,
}

// writeResult sends body with okStatus, or with the status mapped from the
// failure code.
func writeResult(ctx *app.RequestContext, okStatus int, res outcome.Result, body any) {
	if !res.Failed() {
		ctx.JSON(okStatus, body)
		return
	}
	status, ok := statusByCode[res.Code]
	if !ok {
		status = consts.StatusBadRequest
	}
	ctx.JSON(status, body)
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, ErrMissingUserIDHeader):
		writeErrorBody(ctx, consts.StatusBadRequest, string(outcome.CodeInvalidRequest), err.Error())
	case errors.Is(err, settings.ErrInvalidKey):
		writeErrorBody(ctx, consts.StatusBadRequest, string(outcome.CodeInvalidRequest), err.Error())
	case errors.Is(err, settings.ErrNoStore):
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, string(outcome.CodeNotFound), err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", "concurrent update, retry the request")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeErrorBody(ctx, consts.StatusServiceUnavailable, "unavailable", "request cancelled")
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"success": false,
		"code":    code,
		"message": message,
	})
}
