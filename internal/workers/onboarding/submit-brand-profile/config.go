// internal/workers/onboarding/submit-brand-profile/config.go
package submitbrandprofile

import "time"

type Config struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

func DefaultConfig() *Config {
	return &Config{Timeout: 15 * time.Second}
}
