// internal/workers/exposure/resolve-environment/config.go
package resolveenvironment

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
