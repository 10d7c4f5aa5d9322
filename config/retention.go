package config

import "strconv"

// RetentionConfig holds the scheduled retention sweep configuration
type RetentionConfig struct {
	// Enabled turns the cron driven sweep on
	Enabled bool
	// CronSpec is the robfig/cron schedule expression
	CronSpec string
	// DefaultRetainedDays applies to accounts without their own policy
	DefaultRetainedDays uint
}

// GetRetentionConfig returns retention sweep configuration from environment
// variables
func GetRetentionConfig() *RetentionConfig {
	days, err := strconv.ParseUint(getEnv("RETENTION_DEFAULT_DAYS", "90"), 10, 32)
	if err != nil {
		days = 90
	}
	return &RetentionConfig{
		Enabled:             getEnv("RETENTION_SWEEP_ENABLED", "false") == "true",
		CronSpec:            getEnv("RETENTION_CRON", "0 3 * * *"),
		DefaultRetainedDays: uint(days),
	}
}
