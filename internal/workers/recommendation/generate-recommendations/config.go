// internal/workers/recommendation/generate-recommendations/config.go
package generaterecommendations

import "time"

type Config struct {
	Timeout    time.Duration
	MaxResults int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:    60 * time.Second,
		MaxResults: 10,
	}
}
