package scheduler

import "time"

// Config represents scheduler configuration.
type Config struct {
	// TimeSlice is how long a process may run before the tick path considers
	// preempting it.
	TimeSlice time.Duration `json:"timeSlice" yaml:"timeSlice"`

	// Preemptive enables time-slice preemption on tick.  When false a
	// process runs until it yields, blocks or exits.
	Preemptive bool `json:"preemptive" yaml:"preemptive"`

	// AgingInterval is the number of ticks between aging passes.  Zero
	// disables aging.
	AgingInterval int `json:"agingInterval" yaml:"agingInterval"`

	// AgingThreshold is the minimum time a process must have waited in a
	// ready tier before a pass boosts it.
	AgingThreshold time.Duration `json:"agingThreshold" yaml:"agingThreshold"`

	// AgingMaxBoost caps the boost in tiers; a boost never lifts a process
	// past tier 0.
	AgingMaxBoost int `json:"agingMaxBoost" yaml:"agingMaxBoost"`
}

// DefaultConfig returns the default scheduler configuration: 10ms slices,
// preemptive, aging disabled.
func DefaultConfig() Config {
	return Config{
		TimeSlice:      10 * time.Millisecond,
		Preemptive:     true,
		AgingInterval:  0,
		AgingThreshold: 100 * time.Millisecond,
		AgingMaxBoost:  5,
	}
}
