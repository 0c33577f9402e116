// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"adsales_backend/internal/automations/transport"
	"adsales_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// Trigger identifies what started an automation run.
type Trigger string

const (
	TriggerHTTP      Trigger = "http"
	TriggerScheduler Trigger = "scheduler"
	TriggerCLI       Trigger = "cli"
)

// =============================================================================
// Automation Domain Events
// =============================================================================

// AutomationsCompleted is published after every run-all, including runs where
// some steps failed.
type AutomationsCompleted struct {
	BaseEvent
	RunID   uuid.UUID                `json:"runId"`
	Trigger Trigger                  `json:"trigger"`
	Report  transport.RunAllResponse `json:"report"`
}

func (e AutomationsCompleted) EventName() string { return "automations.run_all.completed" }
