// internal/workers/directory/index-directory-entry/config.go
package indexdirectoryentry

import "time"

type Config struct {
	Timeout time.Duration `mapstructure:"timeout"`
	Index   string        `mapstructure:"index"`
	// Refresh is passed through to Elasticsearch, e.g. "wait_for".
	Refresh string `mapstructure:"refresh"`
}

func DefaultConfig() *Config {
	return &Config{Timeout: 10 * time.Second, Index: "directory"}
}
