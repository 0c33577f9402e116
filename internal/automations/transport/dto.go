package transport

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout renders date-only columns (deadlines, contact dates).
const DateLayout = "2006-01-02"

// WafflingUpdate records one persisted score change.
type WafflingUpdate struct {
	ID       uuid.UUID `json:"id"`
	OldScore int       `json:"old_score"`
	NewScore int       `json:"new_score"`
}

// WafflingResponse reports a waffling recalculation.
type WafflingResponse struct {
	Success         bool             `json:"success"`
	AccountsChecked int              `json:"accounts_checked"`
	AccountsUpdated int              `json:"accounts_updated"`
	Updates         []WafflingUpdate `json:"updates"`
}

// AtRiskUpdate records one persisted at-risk flag change.
type AtRiskUpdate struct {
	ID       uuid.UUID `json:"id"`
	IsAtRisk bool      `json:"is_at_risk"`
	Reason   string    `json:"reason"`
}

// AtRiskResponse reports an at-risk detection pass.
type AtRiskResponse struct {
	Success      bool           `json:"success"`
	DealsChecked int            `json:"deals_checked"`
	DealsUpdated int            `json:"deals_updated"`
	Updates      []AtRiskUpdate `json:"updates"`
}

// DeadlineAlert describes a publication with an approaching deadline.
type DeadlineAlert struct {
	TitleID       uuid.UUID       `json:"title_id"`
	TitleName     string          `json:"title_name"`
	Region        string          `json:"region"`
	Deadline      string          `json:"deadline"`
	DaysRemaining int             `json:"days_remaining"`
	Urgency       string          `json:"urgency"`
	RevenueGoal   decimal.Decimal `json:"revenue_goal"`
	RevenueBooked decimal.Decimal `json:"revenue_booked"`
	RevenueGap    decimal.Decimal `json:"revenue_gap"`
	PagesGoal     int             `json:"pages_goal"`
	PagesSold     int             `json:"pages_sold"`
	PagesGap      int             `json:"pages_gap"`
	PercentToGoal int             `json:"percent_to_goal"`
}

// DeadlineAlertsResponse lists publications due within the threshold.
type DeadlineAlertsResponse struct {
	Success       bool            `json:"success"`
	ThresholdDays int             `json:"threshold_days"`
	AlertsCount   int             `json:"alerts_count"`
	Alerts        []DeadlineAlert `json:"alerts"`
}

// StaleContact is an account due a follow-up.
type StaleContact struct {
	AccountID         uuid.UUID       `json:"account_id"`
	CompanyName       string          `json:"company_name"`
	ContactName       *string         `json:"contact_name"`
	ContactEmail      *string         `json:"contact_email"`
	ContactPhone      *string         `json:"contact_phone"`
	City              *string         `json:"city"`
	LastContactDate   *string         `json:"last_contact_date"`
	DaysSinceContact  *int            `json:"days_since_contact"`
	WafflingScore     int             `json:"waffling_score"`
	DecisionCertainty *string         `json:"decision_certainty"`
	ActiveDealsCount  int             `json:"active_deals_count"`
	ActiveDealsValue  decimal.Decimal `json:"active_deals_value"`
	PriorityScore     int             `json:"priority_score"`
}

// StaleContactsResponse ranks stale accounts, most urgent first.
type StaleContactsResponse struct {
	Success            bool           `json:"success"`
	ThresholdDays      int            `json:"threshold_days"`
	StaleContactsCount int            `json:"stale_contacts_count"`
	StaleContacts      []StaleContact `json:"stale_contacts"`
}

// DigestMetrics are the digest's headline figures.
type DigestMetrics struct {
	TotalGoal        decimal.Decimal `json:"total_goal"`
	TotalBooked      decimal.Decimal `json:"total_booked"`
	ProgressPercent  float64         `json:"progress_percent"`
	PipelineValue    decimal.Decimal `json:"pipeline_value"`
	AtRiskValue      decimal.Decimal `json:"at_risk_value"`
	AtRiskDealsCount int             `json:"at_risk_deals_count"`
}

// UpcomingDeadline is a title due within the digest window.
type UpcomingDeadline struct {
	Name     string  `json:"name"`
	Deadline string  `json:"deadline"`
	Progress float64 `json:"progress"`
}

// Digest is the daily roll-up.
type Digest struct {
	GeneratedAt       time.Time          `json:"generated_at"`
	Metrics           DigestMetrics      `json:"metrics"`
	UpcomingDeadlines []UpcomingDeadline `json:"upcoming_deadlines"`
}

// DigestResponse wraps the daily digest.
type DigestResponse struct {
	Success bool   `json:"success"`
	Digest  Digest `json:"digest"`
}

// RunAllResults holds each step's report. A failed step leaves its slot nil.
type RunAllResults struct {
	Waffling      *WafflingResponse       `json:"waffling,omitempty"`
	AtRisk        *AtRiskResponse         `json:"at_risk,omitempty"`
	Deadlines     *DeadlineAlertsResponse `json:"deadlines,omitempty"`
	StaleContacts *StaleContactsResponse  `json:"stale_contacts,omitempty"`
	Digest        *DigestResponse         `json:"digest,omitempty"`
}

// RunAllSummary holds the headline counts. Failed steps count as zero.
type RunAllSummary struct {
	WafflingUpdated int `json:"waffling_updated"`
	AtRiskDetected  int `json:"at_risk_detected"`
	DeadlineAlerts  int `json:"deadline_alerts"`
	StaleContacts   int `json:"stale_contacts"`
}

// RunAllResponse is the combined report of one run-all.
type RunAllResponse struct {
	Success    bool          `json:"success"`
	DurationMS int64         `json:"duration_ms"`
	RanAt      time.Time     `json:"ran_at"`
	Results    RunAllResults `json:"results"`
	Errors     []string      `json:"errors,omitempty"`
	Summary    RunAllSummary `json:"summary"`
}
