package core

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	ServiceName string `koanf:"service_name" mapstructure:"service_name"`

	// Production disables the activation hook-count guard.
	Production       bool `koanf:"production" mapstructure:"production"`
	LegacySort       bool `koanf:"legacy_sort" mapstructure:"legacy_sort"`
	HandlerTimeoutMS int  `koanf:"handler_timeout_ms" mapstructure:"handler_timeout_ms"`
	ToggleTimeoutMS  int  `koanf:"toggle_timeout_ms" mapstructure:"toggle_timeout_ms"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName: "wearables",
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if c.HandlerTimeoutMS < 0 {
		return fmt.Errorf("core: handler_timeout_ms must be >= 0")
	}
	if c.ToggleTimeoutMS < 0 {
		return fmt.Errorf("core: toggle_timeout_ms must be >= 0")
	}
	return nil
}

func (c Config) HandlerTimeout() time.Duration {
	return time.Duration(c.HandlerTimeoutMS) * time.Millisecond
}

func (c Config) ToggleTimeout() time.Duration {
	return time.Duration(c.ToggleTimeoutMS) * time.Millisecond
}
