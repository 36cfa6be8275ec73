// internal/workers/exposure/assemble-exposure-parameters/config.go
package assembleexposureparameters

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
