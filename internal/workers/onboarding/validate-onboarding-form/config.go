// internal/workers/onboarding/validate-onboarding-form/config.go
package validateonboardingform

import "time"

type Config struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

func DefaultConfig() *Config {
	return &Config{Timeout: 5 * time.Second}
}
