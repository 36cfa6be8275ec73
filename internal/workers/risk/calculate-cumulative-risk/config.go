// internal/workers/risk/calculate-cumulative-risk/config.go
package calculatecumulativerisk

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
