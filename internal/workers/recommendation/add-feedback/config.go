// internal/workers/recommendation/add-feedback/config.go
package addfeedback

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
