package kernel

import "github.com/viant/kernos/model/proc"

// Stats aggregates kernel counters.
type Stats struct {
	Created         uint64 `json:"created"` // total processes ever created
	Active          int    `json:"active"`  // live (created/ready/running/blocked)
	Ready           int    `json:"ready"`
	Blocked         int    `json:"blocked"`
	Zombies         int    `json:"zombies"`
	ContextSwitches uint64 `json:"contextSwitches"`
	Preemptions     uint64 `json:"preemptions"`
	Ticks           uint64 `json:"ticks"`
}

// Stats returns a consistent snapshot of the counters.
func (s *Service) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Stats{
		Created:         s.created,
		Active:          s.live,
		Ready:           s.sched.ReadyCount(),
		Blocked:         s.sched.BlockedCount(),
		Zombies:         len(s.sched.Zombies()),
		ContextSwitches: s.sched.Switches(),
		Preemptions:     s.sched.Preemptions(),
		Ticks:           s.sched.Ticks(),
	}
}

// Zombies returns the pids currently awaiting a reap, in exit order.
func (s *Service) Zombies() []proc.PID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched.Zombies()
}
