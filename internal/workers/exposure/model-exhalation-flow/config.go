// internal/workers/exposure/model-exhalation-flow/config.go
package modelexhalationflow

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
