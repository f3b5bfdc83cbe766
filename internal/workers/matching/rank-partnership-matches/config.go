// internal/workers/matching/rank-partnership-matches/config.go
package rankpartnershipmatches

import "time"

type Config struct {
	Timeout time.Duration `mapstructure:"timeout"`
	// MaxResults caps the returned list when the job sets no limit.
	MaxResults int `mapstructure:"max_results"`
}

func DefaultConfig() *Config {
	return &Config{Timeout: 30 * time.Second, MaxResults: 100}
}
