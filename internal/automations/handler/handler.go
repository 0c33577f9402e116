package handler

import (
	"context"
	"io"

	"adsales_backend/internal/automations/transport"
	"adsales_backend/internal/events"
	"adsales_backend/platform/httpkit"
	"adsales_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

// maxBodyBytes bounds the optional threshold body.
const maxBodyBytes = 4 << 10

type (
	wafflingRunner interface {
		Run(ctx context.Context) (transport.WafflingResponse, error)
	}
	atRiskRunner interface {
		Run(ctx context.Context) (transport.AtRiskResponse, error)
	}
	deadlineRunner interface {
		Run(ctx context.Context, days int) (transport.DeadlineAlertsResponse, error)
	}
	staleRunner interface {
		Run(ctx context.Context, days int) (transport.StaleContactsResponse, error)
	}
	digestRunner interface {
		Run(ctx context.Context) (transport.DigestResponse, error)
	}
	runAller interface {
		RunAll(ctx context.Context, trigger events.Trigger) transport.RunAllResponse
	}
)

// Deps are the use cases behind the automation endpoints.
type Deps struct {
	Waffling     wafflingRunner
	AtRisk       atRiskRunner
	Deadlines    deadlineRunner
	Stale        staleRunner
	Digest       digestRunner
	Orchestrator runAller

	DeadlineDays int
	StaleDays    int
}

// Handler handles HTTP requests for automations.
type Handler struct {
	deps Deps
	val  *validator.Validator
}

// New creates a new automations handler.
func New(deps Deps, val *validator.Validator) *Handler {
	return &Handler{deps: deps, val: val}
}

// RecalculateWaffling refreshes every account's waffling score.
// POST /api/v1/automations/recalculate-waffling
func (h *Handler) RecalculateWaffling(c *gin.Context) {
	result, err := h.deps.Waffling.Run(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DetectAtRisk re-evaluates the at-risk flag of every active deal.
// POST /api/v1/automations/detect-at-risk
func (h *Handler) DetectAtRisk(c *gin.Context) {
	result, err := h.deps.AtRisk.Run(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DeadlineAlerts lists titles due within days_threshold.
// POST /api/v1/automations/deadline-alerts
func (h *Handler) DeadlineAlerts(c *gin.Context) {
	days := h.threshold(c, h.deps.DeadlineDays)
	result, err := h.deps.Deadlines.Run(c.Request.Context(), days)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// StaleContacts ranks accounts not contacted within days_threshold.
// POST /api/v1/automations/stale-contacts
func (h *Handler) StaleContacts(c *gin.Context) {
	days := h.threshold(c, h.deps.StaleDays)
	result, err := h.deps.Stale.Run(c.Request.Context(), days)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DailyDigest builds the daily roll-up.
// POST /api/v1/automations/daily-digest
func (h *Handler) DailyDigest(c *gin.Context) {
	result, err := h.deps.Digest.Run(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// RunAll runs every automation. Step failures are reported in the body, so
// the status is always 200.
// POST /api/v1/automations/run-all
func (h *Handler) RunAll(c *gin.Context) {
	httpkit.OK(c, h.deps.Orchestrator.RunAll(c.Request.Context(), events.TriggerHTTP))
}

// threshold never fails the request: unreadable input yields fallback.
func (h *Handler) threshold(c *gin.Context, fallback int) int {
	var body []byte
	if c.Request.Body != nil {
		body, _ = io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	}
	return transport.ResolveThreshold(h.val, body, c.Query("days_threshold"), fallback)
}
