// Package automations provides the lead scoring automations module.
package automations

import (
	"adsales_backend/internal/automations/domain"
	"adsales_backend/internal/automations/handler"
	"adsales_backend/internal/automations/ports"
	"adsales_backend/internal/automations/repository"
	"adsales_backend/internal/automations/service"
	"adsales_backend/internal/events"
	apphttp "adsales_backend/internal/http"
	"adsales_backend/platform/config"
	"adsales_backend/platform/logger"
	"adsales_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ModuleConfig is the configuration the automations module reads.
type ModuleConfig interface {
	config.AutomationConfig
	config.PhoneConfig
}

// Module is the automations module implementing http.Module.
type Module struct {
	handler      *handler.Handler
	services     *service.Services
	orchestrator *service.Orchestrator
}

// NewModule creates and initializes the automations module over a Postgres pool.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, cfg ModuleConfig, bus events.Bus, log *logger.Logger) *Module {
	return NewModuleWithStore(repository.New(pool), val, cfg, bus, log)
}

// NewModuleWithStore creates the module over any store implementation.
func NewModuleWithStore(store ports.Store, val *validator.Validator, cfg ModuleConfig, bus events.Bus, log *logger.Logger) *Module {
	svcs := service.NewServices(store, cfg.GetPhoneDefaultRegion(), log)
	orch := service.NewOrchestrator(svcs, cfg, bus, log)

	h := handler.New(handler.Deps{
		Waffling:     svcs.Waffling,
		AtRisk:       svcs.AtRisk,
		Deadlines:    svcs.Deadlines,
		Stale:        svcs.Stale,
		Digest:       svcs.Digest,
		Orchestrator: orch,
		DeadlineDays: orDefault(cfg.GetDeadlineDaysThreshold(), domain.DefaultDeadlineDays),
		StaleDays:    orDefault(cfg.GetStaleDaysThreshold(), domain.DefaultStaleDays),
	}, val)

	return &Module{
		handler:      h,
		services:     svcs,
		orchestrator: orch,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "automations"
}

// Services returns the individual use cases.
func (m *Module) Services() *service.Services {
	return m.services
}

// Orchestrator returns the run-all pipeline for the scheduler and CLI.
func (m *Module) Orchestrator() *service.Orchestrator {
	return m.orchestrator
}

// RegisterRoutes mounts automation routes behind the trigger guard.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Triggered.Group("/automations")
	group.POST("/recalculate-waffling", m.handler.RecalculateWaffling)
	group.POST("/detect-at-risk", m.handler.DetectAtRisk)
	group.POST("/deadline-alerts", m.handler.DeadlineAlerts)
	group.POST("/stale-contacts", m.handler.StaleContacts)
	group.POST("/daily-digest", m.handler.DailyDigest)
	group.POST("/run-all", m.handler.RunAll)
}

func orDefault(v, fallback int) int {
	if v < 1 {
		return fallback
	}
	return v
}
