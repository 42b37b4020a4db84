// internal/workers/data-access/search-programs/config.go
package searchprograms

import "time"

type Config struct {
	Timeout      time.Duration
	DefaultIndex string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:      30 * time.Second,
		DefaultIndex: "programs",
	}
}
