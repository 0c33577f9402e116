// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetRateLimitPerMinute() int
}

// TriggerConfig provides the shared secret automation callers must present.
type TriggerConfig interface {
	GetCronSecret() string
}

// SchedulerConfig provides settings for the asynq scheduler and worker.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetAutomationsSchedule() string
}

// AutomationConfig provides settings for the automation pipeline.
type AutomationConfig interface {
	GetStepTimeout() time.Duration
	GetRunParallel() bool
	GetDeadlineDaysThreshold() int
	GetStaleDaysThreshold() int
}

// DigestEmailConfig provides settings for mailing the daily digest.
type DigestEmailConfig interface {
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	GetDigestRecipients() []string
	IsDigestEmailEnabled() bool
}

// ReportArchiveConfig provides settings for MinIO S3-compatible report storage.
type ReportArchiveConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinioBucketAutomationReports() string
	IsMinIOEnabled() bool
}

// PhoneConfig provides the region used to interpret national phone numbers.
type PhoneConfig interface {
	GetPhoneDefaultRegion() string
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                          string
	HTTPAddr                     string
	DatabaseURL                  string
	MigrationsEnabled            bool
	CORSAllowAll                 bool
	CORSOrigins                  []string
	CORSAllowCreds               bool
	RateLimitPerMinute           int
	CronSecret                   string
	RedisURL                     string
	RedisTLSInsecure             bool
	AsynqQueueName               string
	AsynqConcurrency             int
	AutomationsSchedule          string
	StepTimeout                  time.Duration
	RunParallel                  bool
	DeadlineDaysThreshold        int
	StaleDaysThreshold           int
	SMTPHost                     string
	SMTPPort                     int
	SMTPUsername                 string
	SMTPPassword                 string
	EmailFromName                string
	EmailFromAddress             string
	DigestRecipients             []string
	MinIOEndpoint                string
	MinIOAccessKey               string
	MinIOSecretKey               string
	MinIOUseSSL                  bool
	MinioBucketAutomationReports string
	PhoneDefaultRegion           string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string        { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool      { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string   { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool    { return c.CORSAllowCreds }
func (c *Config) GetRateLimitPerMinute() int { return c.RateLimitPerMinute }

// TriggerConfig implementation
func (c *Config) GetCronSecret() string { return c.CronSecret }

// SchedulerConfig implementation
func (c *Config) GetRedisURL() string            { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool      { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string      { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int       { return c.AsynqConcurrency }
func (c *Config) GetAutomationsSchedule() string { return c.AutomationsSchedule }

// AutomationConfig implementation
func (c *Config) GetStepTimeout() time.Duration { return c.StepTimeout }
func (c *Config) GetRunParallel() bool          { return c.RunParallel }
func (c *Config) GetDeadlineDaysThreshold() int { return c.DeadlineDaysThreshold }
func (c *Config) GetStaleDaysThreshold() int    { return c.StaleDaysThreshold }

// DigestEmailConfig implementation
func (c *Config) GetSMTPHost() string           { return c.SMTPHost }
func (c *Config) GetSMTPPort() int              { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string       { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string       { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string      { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string   { return c.EmailFromAddress }
func (c *Config) GetDigestRecipients() []string { return c.DigestRecipients }
func (c *Config) IsDigestEmailEnabled() bool {
	return c.SMTPHost != "" && c.EmailFromAddress != "" && len(c.DigestRecipients) > 0
}

// ReportArchiveConfig implementation
func (c *Config) GetMinIOEndpoint() string  { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool      { return c.MinIOUseSSL }
func (c *Config) GetMinioBucketAutomationReports() string {
	return c.MinioBucketAutomationReports
}
func (c *Config) IsMinIOEnabled() bool { return c.MinIOEndpoint != "" }

// PhoneConfig implementation
func (c *Config) GetPhoneDefaultRegion() string { return c.PhoneDefaultRegion }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                          getEnv("APP_ENV", "development"),
		HTTPAddr:                     getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:                  getEnv("DATABASE_URL", ""),
		MigrationsEnabled:            strings.EqualFold(getEnv("MIGRATIONS_ENABLED", "false"), "true"),
		CORSAllowAll:                 corsAllowAll,
		CORSOrigins:                  corsOrigins,
		CORSAllowCreds:               strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		RateLimitPerMinute:           positiveInt(getEnv("RATE_LIMIT_PER_MINUTE", "30"), 30),
		CronSecret:                   getEnv("CRON_SECRET", ""),
		RedisURL:                     getEnv("REDIS_URL", ""),
		RedisTLSInsecure:             strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:               getEnv("ASYNQ_QUEUE", "automations"),
		AsynqConcurrency:             positiveInt(getEnv("ASYNQ_CONCURRENCY", "2"), 2),
		AutomationsSchedule:          getEnv("AUTOMATIONS_SCHEDULE", "0 6 * * *"),
		StepTimeout:                  mustDuration(getEnv("AUTOMATIONS_STEP_TIMEOUT", "60s")),
		RunParallel:                  strings.EqualFold(getEnv("AUTOMATIONS_PARALLEL", "false"), "true"),
		DeadlineDaysThreshold:        positiveInt(getEnv("DEADLINE_DAYS_THRESHOLD", "7"), 7),
		StaleDaysThreshold:           positiveInt(getEnv("STALE_DAYS_THRESHOLD", "5"), 5),
		SMTPHost:                     getEnv("SMTP_HOST", ""),
		SMTPPort:                     positiveInt(getEnv("SMTP_PORT", "587"), 587),
		SMTPUsername:                 getEnv("SMTP_USERNAME", ""),
		SMTPPassword:                 getEnv("SMTP_PASSWORD", ""),
		EmailFromName:                getEnv("EMAIL_FROM_NAME", "Ad Sales Automations"),
		EmailFromAddress:             getEnv("EMAIL_FROM_ADDRESS", ""),
		DigestRecipients:             splitCSV(getEnv("DIGEST_RECIPIENTS", "")),
		MinIOEndpoint:                getEnv("MINIO_ENDPOINT", ""),
		MinIOAccessKey:               getEnv("MINIO_ACCESS_KEY", ""),
		MinIOSecretKey:               getEnv("MINIO_SECRET_KEY", ""),
		MinIOUseSSL:                  strings.EqualFold(getEnv("MINIO_USE_SSL", "false"), "true"),
		MinioBucketAutomationReports: getEnv("MINIO_BUCKET_AUTOMATION_REPORTS", "automation-reports"),
		PhoneDefaultRegion:           strings.ToUpper(getEnv("PHONE_DEFAULT_REGION", "US")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.StepTimeout <= 0 {
		return nil, fmt.Errorf("AUTOMATIONS_STEP_TIMEOUT must be a positive duration")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if cfg.SMTPHost != "" && cfg.EmailFromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when SMTP_HOST is set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func positiveInt(value string, fallback int) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || result <= 0 {
		return fallback
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
