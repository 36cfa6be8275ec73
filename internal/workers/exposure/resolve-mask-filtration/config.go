// internal/workers/exposure/resolve-mask-filtration/config.go
package resolvemaskfiltration

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
