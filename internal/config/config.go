// Package config holds the server configuration, populated from flags
// and YOURTURN_-prefixed environment variables.
package config

import (
	"fmt"
	"net"
	"strconv"
)

type Config struct {
	Bind         string
	Port         int
	DatabaseURL  string
	WinningScore int
	TimerSpeed   float64
	Verbose      bool
}

func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}
	if c.WinningScore < 1 {
		return fmt.Errorf("invalid winning score (must be at least 1): %d", c.WinningScore)
	}
	if c.TimerSpeed <= 0 {
		return fmt.Errorf("invalid timer speed (must be positive): %v", c.TimerSpeed)
	}
	return nil
}

func (c *Config) Addr() string {
	return net.JoinHostPort(c.Bind, strconv.Itoa(c.Port))
}
