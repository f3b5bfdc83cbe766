// internal/workers/onboarding/submit-provider-application/config.go
package submitproviderapplication

import "time"

type Config struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

func DefaultConfig() *Config {
	return &Config{Timeout: 15 * time.Second}
}
