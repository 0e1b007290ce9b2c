package kernel

import "github.com/viant/kernos/service/scheduler"

// Config represents kernel configuration.  The zero value is not usable;
// start from DefaultConfig.
type Config struct {
	// MaxProcesses bounds the process table.  Pids double as table indexes,
	// so valid pids are 1..MaxProcesses-1.
	MaxProcesses int `json:"maxProcesses" yaml:"maxProcesses"`

	// StackSize is the default stack mapping for new processes and for
	// threads created with stackSize 0.
	StackSize uint64 `json:"stackSize" yaml:"stackSize"`

	// Scheduler configures the ready-queue policy.
	Scheduler scheduler.Config `json:"scheduler" yaml:"scheduler"`
}

// DefaultConfig returns the default kernel configuration.
func DefaultConfig() Config {
	return Config{
		MaxProcesses: 1024,
		StackSize:    64 * 1024,
		Scheduler:    scheduler.DefaultConfig(),
	}
}

func (c *Config) normalize() {
	defaults := DefaultConfig()
	if c.MaxProcesses <= int(initPIDSlots) {
		c.MaxProcesses = defaults.MaxProcesses
	}
	if c.StackSize == 0 {
		c.StackSize = defaults.StackSize
	}
	if c.Scheduler.TimeSlice <= 0 {
		c.Scheduler.TimeSlice = defaults.Scheduler.TimeSlice
	}
}

// initPIDSlots is the number of reserved low slots (0 unused, 1 init).
const initPIDSlots = 2
