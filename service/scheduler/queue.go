// Package scheduler implements the 40-tier ready-queue structure and its
// dispatch, preemption and aging policy.  The structure is not self-locking:
// every method must be called with the owning kernel's mutex held.  Linkage
// is intrusive and index-based: processes store tier and neighbor pids, so
// unlinking is constant time and no pointer can dangle.
package scheduler

import (
	"fmt"
	"math/bits"

	"github.com/viant/kernos/model/proc"
	"github.com/viant/kernos/model/types"
)

// Resolver resolves a pid to its live table record.  Implemented by the
// kernel's process table.
type Resolver interface {
	Resolve(pid proc.PID) *proc.Process
}

// Queue holds the ready tiers, the blocked set, the zombie list and the
// current running process handle.
type Queue struct {
	config Config
	table  Resolver

	head   [proc.Tiers]proc.PID
	tail   [proc.Tiers]proc.PID
	bitmap uint64 // bit n set when tier n is non-empty
	ready  int

	current proc.PID
	blocked map[proc.PID]string
	zombies []proc.PID

	switches    uint64
	preemptions uint64
	ticks       uint64
}

// New creates an empty queue over the given table.
func New(table Resolver, config Config) *Queue {
	return &Queue{
		config:  config,
		table:   table,
		blocked: make(map[proc.PID]string),
	}
}

// AddReady clamps the process's effective priority into a tier and appends it
// at the tail, marking it READY.  A process that is already linked, blocked
// or dead is a state conflict.
func (q *Queue) AddReady(p *proc.Process, now int64) error {
	if p.Tier >= 0 {
		return fmt.Errorf("%w: pid %d already linked to tier %d", types.ErrStateConflict, p.ID, p.Tier)
	}
	if _, ok := q.blocked[p.ID]; ok {
		return fmt.Errorf("%w: pid %d is blocked", types.ErrStateConflict, p.ID)
	}
	if !p.State.Live() {
		return fmt.Errorf("%w: pid %d is %s", types.ErrStateConflict, p.ID, p.State)
	}

	tier := p.EffectivePriority()
	p.Tier = tier
	p.Next = proc.NoPID
	p.Prev = q.tail[tier]
	if q.tail[tier] != proc.NoPID {
		q.table.Resolve(q.tail[tier]).Next = p.ID
	} else {
		q.head[tier] = p.ID
	}
	q.tail[tier] = p.ID
	q.bitmap |= 1 << uint(tier)
	q.ready++

	p.State = proc.StateReady
	p.ReadySince = now
	p.BlockReason = ""
	return nil
}

// RemoveReady unlinks the process from its tier in constant time.
func (q *Queue) RemoveReady(p *proc.Process) error {
	if p.Tier < 0 {
		return fmt.Errorf("%w: pid %d not in a ready tier", types.ErrStateConflict, p.ID)
	}
	tier := p.Tier
	if p.Prev != proc.NoPID {
		q.table.Resolve(p.Prev).Next = p.Next
	} else {
		q.head[tier] = p.Next
	}
	if p.Next != proc.NoPID {
		q.table.Resolve(p.Next).Prev = p.Prev
	} else {
		q.tail[tier] = p.Prev
	}
	if q.head[tier] == proc.NoPID {
		q.bitmap &^= 1 << uint(tier)
	}
	p.Tier, p.Next, p.Prev = -1, proc.NoPID, proc.NoPID
	q.ready--
	return nil
}

// Dispatch selects the head of the lowest-numbered non-empty tier, marks it
// RUNNING and makes it current.  With no ready process it leaves current
// empty and returns nil without touching the context-switch counter.
func (q *Queue) Dispatch(now int64) *proc.Process {
	if q.bitmap == 0 {
		q.current = proc.NoPID
		return nil
	}
	tier := bits.TrailingZeros64(q.bitmap)
	p := q.table.Resolve(q.head[tier])
	if p == nil {
		// linked pid missing from the table; leave the queue idle, the
		// caller reports the inconsistency
		q.current = proc.NoPID
		return nil
	}
	if err := q.RemoveReady(p); err != nil {
		// head of a non-empty tier must be linked
		q.current = proc.NoPID
		return nil
	}
	p.State = proc.StateRunning
	p.DispatchedAt = now
	p.Boost = 0
	q.current = p.ID
	q.switches++
	return p
}

// Current resolves the running process, or nil.
func (q *Queue) Current() *proc.Process {
	if q.current == proc.NoPID {
		return nil
	}
	return q.table.Resolve(q.current)
}

// ClearCurrent drops the running handle without requeueing, accumulating the
// elapsed CPU time.  Used when the current process blocks or exits.
func (q *Queue) ClearCurrent(now int64) *proc.Process {
	p := q.Current()
	if p == nil {
		return nil
	}
	p.CPUTime += now - p.DispatchedAt
	if t := p.MainThread(); t != nil {
		t.CPUTime += now - p.DispatchedAt
	}
	q.current = proc.NoPID
	return p
}

// Preempt requeues the current process at the tail of its own tier, yielding
// round-robin behavior within the tier, and clears current.
func (q *Queue) Preempt(now int64) error {
	p := q.ClearCurrent(now)
	if p == nil {
		return types.ErrNoCurrent
	}
	q.preemptions++
	return q.AddReady(p, now)
}

// Block moves the current process into the blocked set, recording the reason
// for diagnostics only.
func (q *Queue) Block(reason string, now int64) error {
	p := q.ClearCurrent(now)
	if p == nil {
		return types.ErrNoCurrent
	}
	p.State = proc.StateBlocked
	p.BlockReason = reason
	q.blocked[p.ID] = reason
	return nil
}

// Unblock re-adds a blocked process to its ready tier.
func (q *Queue) Unblock(p *proc.Process, now int64) error {
	if _, ok := q.blocked[p.ID]; !ok || p.State != proc.StateBlocked {
		return fmt.Errorf("%w: pid %d is not blocked", types.ErrStateConflict, p.ID)
	}
	delete(q.blocked, p.ID)
	return q.AddReady(p, now)
}

// Drop removes the process from whichever scheduler structure holds it:
// ready tier, blocked set or the current handle.  Zombie-list membership is
// managed separately by termination.
func (q *Queue) Drop(p *proc.Process, now int64) error {
	if q.current == p.ID {
		q.ClearCurrent(now)
		return nil
	}
	if p.Tier >= 0 {
		return q.RemoveReady(p)
	}
	delete(q.blocked, p.ID)
	return nil
}

// AddZombie appends a pid to the zombie list.
func (q *Queue) AddZombie(pid proc.PID) {
	q.zombies = append(q.zombies, pid)
}

// RemoveZombie unlinks a reaped pid from the zombie list.
func (q *Queue) RemoveZombie(pid proc.PID) {
	for i, z := range q.zombies {
		if z == pid {
			q.zombies = append(q.zombies[:i], q.zombies[i+1:]...)
			return
		}
	}
}

// Zombies returns a copy of the zombie list.
func (q *Queue) Zombies() []proc.PID {
	return append([]proc.PID(nil), q.zombies...)
}

// BlockedCount returns the size of the blocked set.
func (q *Queue) BlockedCount() int { return len(q.blocked) }

// ReadyCount returns the number of processes linked into ready tiers.
func (q *Queue) ReadyCount() int { return q.ready }

// Switches returns the context-switch counter.
func (q *Queue) Switches() uint64 { return q.switches }

// Preemptions returns how many times a running process was requeued.
func (q *Queue) Preemptions() uint64 { return q.preemptions }

// Ticks returns how many timer ticks the queue has seen.
func (q *Queue) Ticks() uint64 { return q.ticks }

// Tick runs one scheduling interval: an optional aging pass, then the
// time-slice preemption check.  It reports whether a context switch happened.
// Preemption is skipped when no other process is ready, since requeueing and
// immediately redispatching the same process has no effect.
func (q *Queue) Tick(now int64) (bool, error) {
	q.ticks++

	if q.config.AgingInterval > 0 && q.ticks%uint64(q.config.AgingInterval) == 0 {
		if err := q.age(now); err != nil {
			return false, err
		}
	}

	if !q.config.Preemptive || q.current == proc.NoPID || q.ready == 0 {
		return false, nil
	}
	p := q.Current()
	if p == nil {
		return false, fmt.Errorf("%w: current pid %d not in table", types.ErrStateConflict, q.current)
	}
	if now-p.DispatchedAt < q.config.TimeSlice.Microseconds() {
		return false, nil
	}
	if err := q.Preempt(now); err != nil {
		return false, err
	}
	// the preempted process was just requeued, so a failed dispatch means a
	// tier head no longer resolves
	if q.Dispatch(now) == nil {
		return false, fmt.Errorf("%w: ready tier head not in table", types.ErrStateConflict)
	}
	return true, nil
}

// age boosts ready processes that have waited at least AgingThreshold, one
// tier per pass, bounded by AgingMaxBoost and tier 0.
func (q *Queue) age(now int64) error {
	threshold := q.config.AgingThreshold.Microseconds()
	for tier := 1; tier < proc.Tiers; tier++ {
		pid := q.head[tier]
		for pid != proc.NoPID {
			p := q.table.Resolve(pid)
			if p == nil {
				return fmt.Errorf("%w: pid %d linked but not in table", types.ErrStateConflict, pid)
			}
			next := p.Next
			if p.Boost < q.config.AgingMaxBoost && now-p.ReadySince >= threshold && p.EffectivePriority() > 0 {
				readySince := p.ReadySince
				if err := q.RemoveReady(p); err != nil {
					return err
				}
				p.Boost++
				if err := q.AddReady(p, readySince); err != nil {
					return err
				}
			}
			pid = next
		}
	}
	return nil
}
