// internal/workers/communication/send-notification/config.go
package sendnotification

import "time"

type Config struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	EmailEnabled bool          `mapstructure:"email_enabled"`
	SMSEnabled   bool          `mapstructure:"sms_enabled"`
	// DefaultTTL expires in-app notifications when the job sets no expiry.
	DefaultTTL time.Duration `mapstructure:"default_ttl"`
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:      15 * time.Second,
		EmailEnabled: true,
		SMSEnabled:   true,
		DefaultTTL:   30 * 24 * time.Hour,
	}
}
