// internal/workers/auth/verify-session/config.go
package verifysession

import "time"

type Config struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

func DefaultConfig() *Config {
	return &Config{Timeout: 5 * time.Second}
}
