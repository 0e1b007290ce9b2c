package proc

// PID identifies a process.  A pid doubles as the process table slot index,
// so lookups are constant time.  Pid 0 is never assigned; pid 1 is the
// permanent init process.
type PID int32

const (
	// NoPID is the zero pid, used for empty linkage.
	NoPID PID = 0
	// InitPID is the permanent init process; it can never be terminated and
	// adopts orphaned children.
	InitPID PID = 1
)

// Priority bounds.  0 is the highest priority, 39 the lowest; values outside
// the range are clamped rather than rejected.
const (
	MinPriority = 0
	MaxPriority = 39
	// Tiers is the number of ready tiers the scheduler maintains.
	Tiers = MaxPriority + 1
)

// ClampPriority forces a priority into [MinPriority, MaxPriority].
func ClampPriority(priority int) int {
	if priority < MinPriority {
		return MinPriority
	}
	if priority > MaxPriority {
		return MaxPriority
	}
	return priority
}

// Process is one process table record.  All fields are guarded by the kernel
// mutex; records are never shared outside it, callers get Snapshot copies.
//
// Linkage into ready tiers is intrusive and index-based: Next/Prev store pids
// rather than pointers, so a stale link can never dangle past a table
// mutation.
type Process struct {
	ID       PID    `json:"id"`
	ParentID PID    `json:"parentId"`
	Name     string `json:"name"`
	State    State  `json:"state"`

	Priority int `json:"priority"` // base priority, 0 highest
	Nice     int `json:"nice"`
	Boost    int `json:"boost"` // aging boost, in tiers

	CreatedAt    int64 `json:"createdAt"`    // microseconds, monotonic
	DispatchedAt int64 `json:"dispatchedAt"` // last dispatch
	ReadySince   int64 `json:"readySince"`   // last enqueue, drives aging
	CPUTime      int64 `json:"cpuTime"`      // accumulated, microseconds

	ExitStatus  int    `json:"exitStatus"`
	BlockReason string `json:"blockReason,omitempty"` // diagnostics only

	Threads     []*Thread `json:"threads"`
	Regions     []*Region `json:"regions"`
	Descriptors []uint64  `json:"descriptors"` // opaque filesystem slots
	Children    []PID     `json:"children"`

	// Scheduler linkage.  Tier is the ready tier the process is linked into,
	// or -1 when unlinked.  Next/Prev are pids within the same tier.
	Tier int `json:"-"`
	Next PID `json:"-"`
	Prev PID `json:"-"`

	nextTID TID
}

// New creates a process record in CREATED state.  The main thread and stack
// are attached by the registry, not here.
func New(id, parent PID, name string, priority int) *Process {
	priority = ClampPriority(priority)
	return &Process{
		ID:       id,
		ParentID: parent,
		Name:     name,
		State:    StateCreated,
		Priority: priority,
		Nice:     priority - 20,
		Tier:     -1,
		nextTID:  1,
	}
}

// EffectivePriority folds the aging boost into the base priority, bounded so
// a boost can never lift a process past tier 0.
func (p *Process) EffectivePriority() int {
	return ClampPriority(p.Priority - p.Boost)
}

// NewThread appends a thread with the next process-scoped id.  The thread
// inherits the process priority unless override is in [0,39].
func (p *Process) NewThread(entry uint64, args []string, stack *Region, override int) *Thread {
	priority := p.Priority
	if override >= MinPriority && override <= MaxPriority {
		priority = override
	}
	t := &Thread{
		ID:       p.nextTID,
		Process:  p.ID,
		State:    StateReady,
		Priority: priority,
		Stack:    stack,
		Entry:    entry,
		Args:     args,
	}
	p.nextTID++
	p.Threads = append(p.Threads, t)
	return t
}

// MainThread returns thread id 1 or nil.
func (p *Process) MainThread() *Thread {
	for _, t := range p.Threads {
		if t.ID == 1 {
			return t
		}
	}
	return nil
}

// AddChild records a child pid.
func (p *Process) AddChild(pid PID) {
	p.Children = append(p.Children, pid)
}

// RemoveChild drops a child pid, preserving order.
func (p *Process) RemoveChild(pid PID) {
	for i, c := range p.Children {
		if c == pid {
			p.Children = append(p.Children[:i], p.Children[i+1:]...)
			return
		}
	}
}

// AddRegion appends a mapped region.
func (p *Process) AddRegion(r *Region) {
	p.Regions = append(p.Regions, r)
}

// TakeRegion unlinks and returns the region exactly matching addr and size,
// or nil.  Partial unmapping is not supported.
func (p *Process) TakeRegion(addr, size uint64) *Region {
	for i, r := range p.Regions {
		if r.Addr == addr && r.Size == size {
			p.Regions = append(p.Regions[:i], p.Regions[i+1:]...)
			return r
		}
	}
	return nil
}

// MappedBytes sums the sizes of all currently mapped regions.
func (p *Process) MappedBytes() uint64 {
	var total uint64
	for _, r := range p.Regions {
		total += r.Size
	}
	return total
}
