package config

import "time"

// ReaperConfig controls the background sweep over unanswered booking requests.
type ReaperConfig struct {
	Enabled   bool          `env:"ENABLED"    envDefault:"true"`
	Interval  time.Duration `env:"INTERVAL"   envDefault:"15m"`
	BatchSize int           `env:"BATCH_SIZE" envDefault:"500"`
}

// Sanitize applies guardrails to reaper configuration values.
func (c *ReaperConfig) Sanitize() {
	if c.Interval <= 0 {
		c.Interval = 15 * time.Minute
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 500
	}
}
