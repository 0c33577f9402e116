package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
}

// DigestDeadline is one upcoming deadline row of the digest email.
type DigestDeadline struct {
	Name     string
	Deadline string
	Progress string
}

// DigestEmail is the rendered content of the daily digest email.
type DigestEmail struct {
	baseEmailData
	Date             string
	TotalGoal        string
	TotalBooked      string
	ProgressPercent  string
	PipelineValue    string
	AtRiskValue      string
	AtRiskDealsCount int
	WafflingUpdated  int
	DeadlineAlerts   int
	StaleContacts    int
	Deadlines        []DigestDeadline
	Errors           []string
}

// Subject flags digests built from an incomplete run.
func (d DigestEmail) Subject() string {
	if len(d.Errors) > 0 {
		return fmt.Sprintf(subjectDigestPartialFmt, d.Date)
	}
	return fmt.Sprintf(subjectDigestFmt, d.Date)
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

func formatCurrency(amount decimal.Decimal) string {
	return "$" + amount.StringFixedBank(2)
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}
