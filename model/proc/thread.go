package proc

// TID identifies a thread within its owning process.  Thread ids are scoped
// to the process and start at 1 for the main thread.
type TID int32

// Thread describes one thread of a process.  The owning process is referenced
// by id only and must be resolved through the table at time of use; a thread
// never caches a process pointer across mutations.
type Thread struct {
	ID       TID     `json:"id"`
	Process  PID     `json:"process"`
	State    State   `json:"state"`
	Priority int     `json:"priority"`
	Stack    *Region `json:"stack"`
	CPUTime  int64   `json:"cpuTime"` // accumulated, microseconds

	// Context holds the host-managed execution context.  The kernel core
	// never interprets it; register save/restore happens outside the
	// scheduler's critical section.
	Context any `json:"-"`

	Entry uint64   `json:"entry"`
	Args  []string `json:"args,omitempty"`
}
