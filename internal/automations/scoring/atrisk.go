package scoring

import (
	"fmt"
	"strings"
	"time"

	"adsales_backend/internal/automations/domain"
	"adsales_backend/internal/automations/metrics"
)

const reasonSeparator = "; "

// RiskAssessment is the at-risk verdict for one deal. Reasons lists every
// rule that fired.
type RiskAssessment struct {
	AtRisk  bool
	Reasons []string
}

// Reason joins the fired rules for reporting.
func (r RiskAssessment) Reason() string {
	return strings.Join(r.Reasons, reasonSeparator)
}

// AssessDeal flags a deal at risk when any rule fires: long inactivity, a
// hesitant account, an account marked at risk, or a low probability prospect.
// Account rules are skipped when the account is missing.
func AssessDeal(deal domain.DealWithAccount, now time.Time) RiskAssessment {
	var reasons []string

	if days := metrics.DaysSince(deal.LastActivityDate, now); days != nil && *days > domain.AtRiskInactivityDays {
		reasons = append(reasons, fmt.Sprintf("No activity for %d days", *days))
	}

	if account := deal.Account; account != nil {
		if account.WafflingScore > domain.HighWafflingScore {
			reasons = append(reasons, fmt.Sprintf("High waffling score: %d%%", account.WafflingScore))
		}
		if account.DecisionCertainty != nil && *account.DecisionCertainty == domain.CertaintyAtRisk {
			reasons = append(reasons, "Account marked as at risk")
		}
	}

	probability := 0
	if deal.Probability != nil {
		probability = *deal.Probability
	}
	if probability < domain.LowProbabilityCutoff && deal.Stage == domain.StageProspect {
		reasons = append(reasons, "Low probability prospect")
	}

	return RiskAssessment{AtRisk: len(reasons) > 0, Reasons: reasons}
}
