// Package domain contains the CRM snapshot types the automations read and the
// thresholds each rule applies to them.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Thresholds are tuned per rule and deliberately kept separate.
const (
	// WafflingWriteDelta is the minimum score change worth persisting.
	WafflingWriteDelta = 5
	// StalledDealDays marks an active deal as stalled for waffling purposes.
	StalledDealDays = 7
	// AtRiskInactivityDays flags a deal at risk after this many idle days.
	AtRiskInactivityDays = 10
	// RecentEmailDays bounds the email engagement window.
	RecentEmailDays = 30
	// HighWafflingScore flags deals whose account scores above it.
	HighWafflingScore = 60
	// LowProbabilityCutoff flags prospects below this probability.
	LowProbabilityCutoff = 30
	// DefaultDeadlineDays is the deadline alert window.
	DefaultDeadlineDays = 7
	// DefaultStaleDays is the stale contact threshold.
	DefaultStaleDays = 5
	// DigestDeadlineDays is the digest's upcoming deadline window.
	DigestDeadlineDays = 7
	// MaxThresholdDays caps caller-supplied thresholds.
	MaxThresholdDays = 365

	MaxWafflingScore = 100
)

// Certainty is an account's buying confidence.
type Certainty string

const (
	CertaintyFirm     Certainty = "firm"
	CertaintyLeaning  Certainty = "leaning"
	CertaintyWaffling Certainty = "waffling"
	CertaintyAtRisk   Certainty = "at_risk"
)

// Stage is a deal's pipeline position.
type Stage string

const (
	StageProspect     Stage = "prospect"
	StagePitched      Stage = "pitched"
	StageNegotiating  Stage = "negotiating"
	StageVerbalYes    Stage = "verbal_yes"
	StageContractSent Stage = "contract_sent"
	StageSigned       Stage = "signed"
	StageLost         Stage = "lost"
)

// IsTerminal reports whether the stage closes the deal.
func (s Stage) IsTerminal() bool {
	return s == StageSigned || s == StageLost
}

// EmailStatus tracks an outbound email.
type EmailStatus string

const (
	EmailDraft   EmailStatus = "draft"
	EmailSent    EmailStatus = "sent"
	EmailOpened  EmailStatus = "opened"
	EmailReplied EmailStatus = "replied"
)

// Urgency tiers a publication deadline.
type Urgency string

const (
	UrgencyCritical Urgency = "critical"
	UrgencyHigh     Urgency = "high"
	UrgencyMedium   Urgency = "medium"
	UrgencyLow      Urgency = "low"
)

// UrgencyFor buckets days remaining into a tier.
func UrgencyFor(daysRemaining int) Urgency {
	switch {
	case daysRemaining <= 2:
		return UrgencyCritical
	case daysRemaining <= 4:
		return UrgencyHigh
	case daysRemaining <= 7:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

// Account is an advertiser.
type Account struct {
	ID                uuid.UUID
	CompanyName       string
	ContactName       *string
	ContactEmail      *string
	ContactPhone      *string
	City              *string
	DecisionCertainty *Certainty
	WafflingScore     int
	LastContactDate   *time.Time
}

// Deal is an ad-space proposal.
type Deal struct {
	ID               uuid.UUID
	AccountID        uuid.UUID
	TitleID          uuid.UUID
	Value            decimal.Decimal
	Stage            Stage
	Probability      *int
	IsAtRisk         bool
	LastActivityDate *time.Time
}

// IsActive reports whether the deal is still open.
func (d Deal) IsActive() bool {
	return !d.Stage.IsTerminal()
}

// DealWithAccount joins an active deal to its owning account. Account is nil
// when the account row is missing.
type DealWithAccount struct {
	Deal
	Account *Account
}

// Title is a publication with revenue and page goals.
type Title struct {
	ID            uuid.UUID
	Name          string
	Region        string
	RevenueGoal   decimal.Decimal
	RevenueBooked decimal.Decimal
	PagesGoal     int
	PagesSold     int
	Deadline      *time.Time
}

// EmailSentRecord is an email logged against an account.
type EmailSentRecord struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	DealID    *uuid.UUID
	Status    EmailStatus
	CreatedAt time.Time
}
