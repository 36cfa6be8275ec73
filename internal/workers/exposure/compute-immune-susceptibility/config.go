// internal/workers/exposure/compute-immune-susceptibility/config.go
package computeimmunesusceptibility

import "time"

type Config struct {
	Timeout time.Duration
	// MaxSequence caps the per-exposure susceptibility sequence.
	MaxSequence int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     5 * time.Second,
		MaxSequence: 3650,
	}
}
