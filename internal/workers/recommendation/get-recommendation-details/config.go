// internal/workers/recommendation/get-recommendation-details/config.go
package getrecommendationdetails

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
	}
}
