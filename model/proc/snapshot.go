package proc

// Snapshot is a read-only copy of a process record, safe to hand to callers
// outside the kernel mutex.  Slices are deep-copied; ids stay ids.
type Snapshot struct {
	ID           PID            `json:"id"`
	ParentID     PID            `json:"parentId"`
	Name         string         `json:"name"`
	State        State          `json:"state"`
	Priority     int            `json:"priority"`
	Nice         int            `json:"nice"`
	Boost        int            `json:"boost"`
	CreatedAt    int64          `json:"createdAt"`
	DispatchedAt int64          `json:"dispatchedAt"`
	CPUTime      int64          `json:"cpuTime"`
	ExitStatus   int            `json:"exitStatus"`
	BlockReason  string         `json:"blockReason,omitempty"`
	Threads      []ThreadInfo   `json:"threads"`
	Regions      []Region       `json:"regions"`
	Children     []PID          `json:"children"`
	Descriptors  int            `json:"descriptors"`
}

// ThreadInfo is the per-thread slice of a Snapshot.
type ThreadInfo struct {
	ID       TID   `json:"id"`
	State    State `json:"state"`
	Priority int   `json:"priority"`
	CPUTime  int64 `json:"cpuTime"`
}

// Snapshot copies the record.  Must be called with the kernel mutex held.
func (p *Process) Snapshot() *Snapshot {
	s := &Snapshot{
		ID:           p.ID,
		ParentID:     p.ParentID,
		Name:         p.Name,
		State:        p.State,
		Priority:     p.Priority,
		Nice:         p.Nice,
		Boost:        p.Boost,
		CreatedAt:    p.CreatedAt,
		DispatchedAt: p.DispatchedAt,
		CPUTime:      p.CPUTime,
		ExitStatus:   p.ExitStatus,
		BlockReason:  p.BlockReason,
		Descriptors:  len(p.Descriptors),
	}
	if len(p.Threads) > 0 {
		s.Threads = make([]ThreadInfo, len(p.Threads))
		for i, t := range p.Threads {
			s.Threads[i] = ThreadInfo{ID: t.ID, State: t.State, Priority: t.Priority, CPUTime: t.CPUTime}
		}
	}
	if len(p.Regions) > 0 {
		s.Regions = make([]Region, len(p.Regions))
		for i, r := range p.Regions {
			s.Regions[i] = *r
		}
	}
	if len(p.Children) > 0 {
		s.Children = append([]PID(nil), p.Children...)
	}
	return s
}
