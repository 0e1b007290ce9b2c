package proc

// State identifies where a process or thread is in its lifecycle.
type State string

const (
	// StateCreated marks a freshly initialized record not yet enqueued.
	StateCreated State = "created"
	// StateReady marks a process linked into exactly one ready tier.
	StateReady State = "ready"
	// StateRunning marks the single dispatched process.
	StateRunning State = "running"
	// StateBlocked marks a process suspended until an external event.
	StateBlocked State = "blocked"
	// StateZombie marks a terminated process whose exit status has not been
	// collected by its parent yet.
	StateZombie State = "zombie"
	// StateTerminated marks a reaped process; its table slot is free.
	StateTerminated State = "terminated"
)

// Live reports whether the state belongs to a process that still owns
// resources.
func (s State) Live() bool {
	switch s {
	case StateCreated, StateReady, StateRunning, StateBlocked:
		return true
	}
	return false
}
