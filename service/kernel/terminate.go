package kernel

import (
	"context"
	"fmt"

	"github.com/viant/kernos/model/proc"
	"github.com/viant/kernos/model/types"
	"github.com/viant/kernos/service/event"
	"github.com/viant/kernos/tracing"
)

// Terminate marks a process ZOMBIE, releases every owned resource and
// reparents its children to init.  Terminating a zombie again is an
// idempotent no-op reported as ErrAlreadyTerminated.  When the target was
// the running process the scheduler dispatches a successor before returning.
func (s *Service) Terminate(ctx context.Context, pid proc.PID, exitStatus int) error {
	_, span := tracing.Start(ctx, "kernel.terminate", map[string]string{"pid": fmt.Sprint(pid)})
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.lookup(pid)
	if p == nil {
		return fmt.Errorf("%w: pid %d", types.ErrNotFound, pid)
	}
	if pid == proc.InitPID {
		span.Error("init is protected")
		return types.ErrProtected
	}
	if !p.State.Live() {
		return types.ErrAlreadyTerminated
	}

	now := s.clock.Now()
	wasCurrent := s.sched.Current() == p
	if err := s.sched.Drop(p, now); err != nil {
		span.Error(err.Error())
		return err
	}

	// Thread stacks first so each region is released exactly once.
	for _, t := range p.Threads {
		t.State = proc.StateTerminated
		if t.Stack == nil {
			continue
		}
		if r := p.TakeRegion(t.Stack.Addr, t.Stack.Size); r != nil {
			s.unmap(pid, r)
		}
		t.Stack = nil
	}
	p.Threads = nil

	for _, r := range p.Regions {
		s.unmap(pid, r)
	}
	p.Regions = nil

	if s.closer != nil && len(p.Descriptors) > 0 {
		s.closer.CloseAll(pid, p.Descriptors)
	}
	p.Descriptors = nil

	for _, cid := range p.Children {
		child := s.lookup(cid)
		if child == nil {
			continue
		}
		child.ParentID = proc.InitPID
		s.table[proc.InitPID].AddChild(cid)
	}
	p.Children = nil

	p.State = proc.StateZombie
	p.ExitStatus = exitStatus
	s.sched.AddZombie(pid)
	s.live--
	if done, ok := s.exits[pid]; ok {
		close(done)
	}

	s.logger.Debug().Int32("pid", int32(pid)).Int("status", exitStatus).Msg("process exited")
	s.publish(event.Event{Kind: event.KindExited, PID: pid, ParentID: p.ParentID, ExitStatus: exitStatus})

	if wasCurrent {
		s.schedule(now)
	}
	return nil
}

func (s *Service) unmap(pid proc.PID, r *proc.Region) {
	if err := s.alloc.Unmap(r.Addr, r.Size); err != nil {
		s.logger.Warn().Err(err).Int32("pid", int32(pid)).Uint64("addr", r.Addr).Msg("region unmap failed")
	}
}

// Wait blocks until the process becomes a zombie, then reaps it and returns
// its exit status.  When several goroutines wait on the same pid the exit
// status is delivered to the first to reap; the rest observe ErrNotFound.
func (s *Service) Wait(ctx context.Context, pid proc.PID) (int, error) {
	s.mu.Lock()
	p := s.lookup(pid)
	if p == nil {
		s.mu.Unlock()
		return 0, fmt.Errorf("%w: pid %d", types.ErrNotFound, pid)
	}
	if pid == proc.InitPID {
		s.mu.Unlock()
		return 0, types.ErrProtected
	}
	if p.State == proc.StateZombie {
		defer s.mu.Unlock()
		return s.reap(p)
	}
	done := s.exits[pid]
	s.mu.Unlock()

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-done:
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p = s.lookup(pid)
	if p == nil || p.State != proc.StateZombie {
		return 0, fmt.Errorf("%w: pid %d already reaped", types.ErrNotFound, pid)
	}
	return s.reap(p)
}

// Poll is the non-blocking variant of Wait: it reaps and returns the exit
// status when the process is already a zombie, and reports false otherwise.
func (s *Service) Poll(pid proc.PID) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.lookup(pid)
	if p == nil || p.State != proc.StateZombie {
		return 0, false
	}
	status, err := s.reap(p)
	if err != nil {
		return 0, false
	}
	return status, true
}

// reap frees a zombie's table slot.  Caller holds the mutex.
func (s *Service) reap(p *proc.Process) (int, error) {
	status := p.ExitStatus
	s.sched.RemoveZombie(p.ID)
	if parent := s.lookup(p.ParentID); parent != nil {
		parent.RemoveChild(p.ID)
	}
	p.State = proc.StateTerminated
	s.table[p.ID] = nil
	delete(s.exits, p.ID)

	s.logger.Debug().Int32("pid", int32(p.ID)).Int("status", status).Msg("process reaped")
	s.publish(event.Event{Kind: event.KindReaped, PID: p.ID, ExitStatus: status})
	return status, nil
}
