package kernel

import (
	"context"
	"fmt"

	"github.com/viant/kernos/model/proc"
	"github.com/viant/kernos/model/types"
	"github.com/viant/kernos/service/event"
	"github.com/viant/kernos/tracing"
)

// CreateProcess reserves a pid and a stack mapping, registers the record as
// a child of the current process (init when idle) and enqueues it READY.
// On any failure every partial allocation is released before returning; a
// partially constructed process is never visible in the table.
func (s *Service) CreateProcess(ctx context.Context, name string, entry uint64, args []string, priority int) (proc.PID, error) {
	_, span := tracing.Start(ctx, "kernel.createProcess", map[string]string{"name": name})
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	pid := s.allocPID()
	if pid == proc.NoPID {
		span.Error("process table full")
		return proc.NoPID, fmt.Errorf("%w: process table full", types.ErrResourceExhausted)
	}
	addr, err := s.alloc.Map(s.config.StackSize, proc.PermRW)
	if err != nil {
		span.Error(err.Error())
		return proc.NoPID, fmt.Errorf("%w: stack mapping: %v", types.ErrResourceExhausted, err)
	}

	now := s.clock.Now()
	p := proc.New(pid, proc.InitPID, name, priority)
	p.CreatedAt = now
	stack := &proc.Region{Addr: addr, Size: s.config.StackSize, Perm: proc.PermRW}
	p.AddRegion(stack)
	p.NewThread(entry, args, stack, -1)

	parent := s.sched.Current()
	if parent == nil {
		parent = s.table[proc.InitPID]
	}
	p.ParentID = parent.ID
	parent.AddChild(pid)

	s.table[pid] = p
	if err := s.sched.AddReady(p, now); err != nil {
		// roll back: nothing of this call may stay visible
		s.table[pid] = nil
		parent.RemoveChild(pid)
		if uerr := s.alloc.Unmap(addr, s.config.StackSize); uerr != nil {
			s.logger.Warn().Err(uerr).Int32("pid", int32(pid)).Msg("rollback unmap failed")
		}
		span.Error(err.Error())
		return proc.NoPID, err
	}
	s.exits[pid] = make(chan struct{})
	s.created++
	s.live++

	s.logger.Debug().Int32("pid", int32(pid)).Str("name", name).Int("priority", p.Priority).Msg("process created")
	s.publish(event.Event{Kind: event.KindCreated, PID: pid, ParentID: parent.ID})
	return pid, nil
}

// Get returns a read-only snapshot, or nil when the pid is unknown.
func (s *Service) Get(pid proc.PID) *proc.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.lookup(pid)
	if p == nil {
		return nil
	}
	return p.Snapshot()
}

// List produces up to max snapshots in pid order, skipping free slots.  Each
// call rescans the table, so the sequence is restartable by construction.
func (s *Service) List(max int) []*proc.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*proc.Snapshot
	for pid := proc.InitPID; int(pid) < len(s.table); pid++ {
		if max >= 0 && len(out) >= max {
			break
		}
		if p := s.table[pid]; p != nil {
			out = append(out, p.Snapshot())
		}
	}
	return out
}

// SetPriority clamps and applies a new base priority.  A READY process is
// relinked into its new tier at the tail.
func (s *Service) SetPriority(pid proc.PID, priority int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.lookup(pid)
	if p == nil {
		return fmt.Errorf("%w: pid %d", types.ErrNotFound, pid)
	}
	priority = proc.ClampPriority(priority)
	if p.Priority == priority {
		return nil
	}
	if p.State == proc.StateReady {
		readySince := p.ReadySince
		if err := s.sched.RemoveReady(p); err != nil {
			return err
		}
		p.Priority = priority
		return s.sched.AddReady(p, readySince)
	}
	p.Priority = priority
	return nil
}

// GetPriority returns the base priority.
func (s *Service) GetPriority(pid proc.PID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.lookup(pid)
	if p == nil {
		return 0, fmt.Errorf("%w: pid %d", types.ErrNotFound, pid)
	}
	return p.Priority, nil
}

// SetNice adjusts the nice value and folds it into the base priority the
// same clamped way SetPriority does (priority = 20 + nice).
func (s *Service) SetNice(pid proc.PID, nice int) error {
	if err := s.SetPriority(pid, 20+nice); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p := s.lookup(pid); p != nil {
		p.Nice = nice
	}
	return nil
}
