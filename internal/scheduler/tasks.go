package scheduler

import (
	"encoding/json"

	"adsales_backend/internal/events"

	"github.com/hibiken/asynq"
)

// TaskRunAutomations runs every automation once.
const TaskRunAutomations = "automations.run_all"

// RunAutomationsPayload identifies who asked for a run.
type RunAutomationsPayload struct {
	Trigger     events.Trigger `json:"trigger"`
	RequestedBy string         `json:"requestedBy,omitempty"`
}

func NewRunAutomationsTask(payload RunAutomationsPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRunAutomations, data), nil
}

// ParseRunAutomationsPayload decodes a run payload. Periodic tasks carry an
// empty payload and default to the scheduler trigger.
func ParseRunAutomationsPayload(task *asynq.Task) (RunAutomationsPayload, error) {
	payload := RunAutomationsPayload{Trigger: events.TriggerScheduler}
	if len(task.Payload()) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return RunAutomationsPayload{}, err
	}
	if payload.Trigger == "" {
		payload.Trigger = events.TriggerScheduler
	}
	return payload, nil
}
