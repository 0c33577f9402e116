// Package reports wires the consumers of completed automation runs: the
// digest mailer and the report archive.
package reports

import (
	"context"
	"time"

	"adsales_backend/internal/adapters/storage"
	"adsales_backend/internal/email"
	"adsales_backend/internal/events"
	"adsales_backend/platform/config"
	"adsales_backend/platform/logger"
	"adsales_backend/platform/retry"
)

// Config is everything the report consumers read.
type Config interface {
	config.DigestEmailConfig
	config.ReportArchiveConfig
}

// Subscribe registers every configured consumer on bus. Consumers whose
// settings are missing are skipped with a log line.
func Subscribe(ctx context.Context, bus events.Bus, cfg Config, log *logger.Logger) error {
	if notifier := email.NewDigestNotifierFromConfig(cfg, log); notifier != nil {
		notifier.Subscribe(bus)
		log.Info("digest email enabled", "recipients", len(cfg.GetDigestRecipients()))
	} else {
		log.Info("digest email disabled")
	}

	if !cfg.IsMinIOEnabled() {
		log.Info("report archive disabled")
		return nil
	}

	storageSvc, err := storage.NewMinIOService(cfg)
	if err != nil {
		return err
	}
	bucket := cfg.GetMinioBucketAutomationReports()
	if err := retry.Do(ctx, log, "ensure reports bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		return err
	}

	storage.NewReportArchiver(storageSvc, bucket, log).Subscribe(bus)
	log.Info("report archive enabled", "bucket", bucket)
	return nil
}
