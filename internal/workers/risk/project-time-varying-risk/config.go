// internal/workers/risk/project-time-varying-risk/config.go
package projecttimevaryingrisk

import "time"

type Config struct {
	Timeout time.Duration
	// DefaultPrevalence is sent when the job carries no usable base_prevalence.
	DefaultPrevalence float64
	MaxExposures      int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:           15 * time.Second,
		DefaultPrevalence: 0.01,
		MaxExposures:      3650,
	}
}
