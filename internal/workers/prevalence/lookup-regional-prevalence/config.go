// internal/workers/prevalence/lookup-regional-prevalence/config.go
package lookupregionalprevalence

import "time"

type Config struct {
	Timeout  time.Duration
	MaxWeeks int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  10 * time.Second,
		MaxWeeks: 520,
	}
}
