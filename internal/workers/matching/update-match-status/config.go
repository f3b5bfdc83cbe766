// internal/workers/matching/update-match-status/config.go
package updatematchstatus

import "time"

type Config struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

func DefaultConfig() *Config {
	return &Config{Timeout: 10 * time.Second}
}
