// internal/workers/admin/toggle-provider-certification/config.go
package toggleprovidercertification

import "time"

type Config struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

func DefaultConfig() *Config {
	return &Config{Timeout: 10 * time.Second}
}
