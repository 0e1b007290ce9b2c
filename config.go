package kernos

import (
	"fmt"

	"github.com/viant/kernos/service/kernel"
	"github.com/viant/kernos/service/timer"
)

// Config is a serialisable representation of the engine configuration.  It
// can be populated from YAML (see service/meta) or built in code; zero-value
// nested fields inherit their package defaults.
type Config struct {
	Kernel kernel.Config `json:"kernel" yaml:"kernel"`
	Timer  timer.Config  `json:"timer" yaml:"timer"`
}

// DefaultConfig returns a Config populated with the package defaults.
func DefaultConfig() Config {
	return Config{
		Kernel: kernel.DefaultConfig(),
		Timer:  timer.DefaultConfig(),
	}
}

// Validate returns an error describing invalid settings, or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Kernel.MaxProcesses < 0 {
		return fmt.Errorf("kernel.maxProcesses must not be negative")
	}
	if c.Timer.Interval < 0 {
		return fmt.Errorf("timer.interval must not be negative")
	}
	return nil
}
