// internal/workers/dashboard/build-dashboard/config.go
package builddashboard

import "time"

type Config struct {
	Timeout           time.Duration `mapstructure:"timeout"`
	MatchLimit        int           `mapstructure:"match_limit"`
	NotificationLimit int           `mapstructure:"notification_limit"`
	AdminActionsLimit int           `mapstructure:"admin_actions_limit"`
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:           20 * time.Second,
		MatchLimit:        10,
		NotificationLimit: 20,
		AdminActionsLimit: 10,
	}
}
