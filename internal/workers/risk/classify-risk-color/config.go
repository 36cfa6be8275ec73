// internal/workers/risk/classify-risk-color/config.go
package classifyriskcolor

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
