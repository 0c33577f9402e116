package email

import "context"

// Sender delivers rendered automation emails.
type Sender interface {
	SendDigestEmail(ctx context.Context, toEmail string, digest DigestEmail) error
}

// NoopSender discards every email. Used when SMTP is not configured.
type NoopSender struct{}

func (NoopSender) SendDigestEmail(ctx context.Context, toEmail string, digest DigestEmail) error {
	return nil
}
