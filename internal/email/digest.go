package email

import (
	"context"
	"fmt"

	"adsales_backend/internal/automations/transport"
	"adsales_backend/internal/events"
	"adsales_backend/platform/config"
	"adsales_backend/platform/logger"
)

// DigestNotifier mails the daily digest after every run-all.
type DigestNotifier struct {
	sender     Sender
	recipients []string
	log        *logger.Logger
}

// NewDigestNotifier creates a notifier for recipients.
func NewDigestNotifier(sender Sender, recipients []string, log *logger.Logger) *DigestNotifier {
	if log == nil {
		log = logger.Nop()
	}
	return &DigestNotifier{sender: sender, recipients: recipients, log: log}
}

// NewDigestNotifierFromConfig returns a notifier with an SMTP sender, or nil
// when digest email is disabled.
func NewDigestNotifierFromConfig(cfg config.DigestEmailConfig, log *logger.Logger) *DigestNotifier {
	if !cfg.IsDigestEmailEnabled() {
		return nil
	}
	sender := NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	)
	return NewDigestNotifier(sender, cfg.GetDigestRecipients(), log)
}

// Subscribe registers the notifier on bus.
func (n *DigestNotifier) Subscribe(bus events.Bus) {
	bus.Subscribe(events.AutomationsCompleted{}.EventName(), n)
}

// Handle implements events.Handler.
func (n *DigestNotifier) Handle(ctx context.Context, event events.Event) error {
	completed, ok := event.(events.AutomationsCompleted)
	if !ok {
		return fmt.Errorf("digest notifier: unexpected event %T", event)
	}

	log := n.log.With("runId", completed.RunID, "trigger", completed.Trigger)
	if completed.Report.Results.Digest == nil {
		log.Warn("digest email skipped, digest step failed")
		return nil
	}

	digest := BuildDigestEmail(completed.Report)
	var firstErr error
	for _, to := range n.recipients {
		if err := n.sender.SendDigestEmail(ctx, to, digest); err != nil {
			log.Error("digest email failed", "to", to, "error", err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		log.Info("digest email sent", "to", to)
	}
	return firstErr
}

// BuildDigestEmail shapes a run-all report for the digest template.
// The report must carry a digest result.
func BuildDigestEmail(report transport.RunAllResponse) DigestEmail {
	d := report.Results.Digest.Digest
	date := d.GeneratedAt.UTC().Format(transport.DateLayout)

	out := DigestEmail{
		baseEmailData: baseEmailData{
			Title:      "Daily sales digest",
			Heading:    "Daily sales digest",
			Subheading: date,
		},
		Date:             date,
		TotalGoal:        formatCurrency(d.Metrics.TotalGoal),
		TotalBooked:      formatCurrency(d.Metrics.TotalBooked),
		ProgressPercent:  formatPercent(d.Metrics.ProgressPercent),
		PipelineValue:    formatCurrency(d.Metrics.PipelineValue),
		AtRiskValue:      formatCurrency(d.Metrics.AtRiskValue),
		AtRiskDealsCount: d.Metrics.AtRiskDealsCount,
		WafflingUpdated:  report.Summary.WafflingUpdated,
		DeadlineAlerts:   report.Summary.DeadlineAlerts,
		StaleContacts:    report.Summary.StaleContacts,
		Errors:           report.Errors,
	}
	for _, u := range d.UpcomingDeadlines {
		out.Deadlines = append(out.Deadlines, DigestDeadline{
			Name:     u.Name,
			Deadline: u.Deadline,
			Progress: formatPercent(u.Progress),
		})
	}
	return out
}
