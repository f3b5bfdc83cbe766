// internal/workers/directory/search-directory/config.go
package searchdirectory

import "time"

type Config struct {
	Timeout time.Duration `mapstructure:"timeout"`
	Index   string        `mapstructure:"index"`
}

func DefaultConfig() *Config {
	return &Config{Timeout: 10 * time.Second, Index: "directory"}
}
