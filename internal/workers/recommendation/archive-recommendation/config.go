// internal/workers/recommendation/archive-recommendation/config.go
package archiverecommendation

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
