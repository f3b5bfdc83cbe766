// internal/workers/matching/score-partnership-pair/config.go
package scorepartnershippair

import "time"

type Config struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

func DefaultConfig() *Config {
	return &Config{Timeout: 10 * time.Second}
}
