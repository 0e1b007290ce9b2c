package kernel

import (
	"fmt"

	"github.com/viant/kernos/model/proc"
	"github.com/viant/kernos/model/types"
	"github.com/viant/kernos/service/event"
)

// Current returns a snapshot of the running process, or nil when idle.
func (s *Service) Current() *proc.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.sched.Current()
	if p == nil {
		return nil
	}
	return p.Snapshot()
}

// Schedule dispatches the head of the lowest non-empty ready tier when no
// process is running.  It returns the pid of the running process after the
// call (NoPID when the ready set was empty).
func (s *Service) Schedule() proc.PID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p := s.sched.Current(); p != nil {
		return p.ID
	}
	return s.schedule(s.clock.Now())
}

// schedule dispatches under the mutex and publishes the transition.
func (s *Service) schedule(now int64) proc.PID {
	p := s.sched.Dispatch(now)
	if p == nil {
		return proc.NoPID
	}
	s.logger.Debug().Int32("pid", int32(p.ID)).Int("tier", p.Tier).Msg("dispatched")
	s.publish(event.Event{Kind: event.KindDispatched, PID: p.ID})
	return p.ID
}

// Yield treats the running process exactly like a preemption: requeued at
// the tail of its tier, then a new dispatch.  With nothing running it just
// attempts a dispatch.
func (s *Service) Yield() proc.PID {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	if p := s.sched.Current(); p != nil {
		if err := s.sched.Preempt(now); err != nil {
			s.logger.Warn().Err(err).Msg("yield failed")
			return p.ID
		}
		s.publish(event.Event{Kind: event.KindPreempted, PID: p.ID})
	}
	return s.schedule(now)
}

// BlockCurrent suspends the running process with a diagnostic reason and
// dispatches a successor.
func (s *Service) BlockCurrent(reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	p := s.sched.Current()
	if p == nil {
		return types.ErrNoCurrent
	}
	if err := s.sched.Block(reason, now); err != nil {
		return err
	}
	s.logger.Debug().Int32("pid", int32(p.ID)).Str("reason", reason).Msg("blocked")
	s.publish(event.Event{Kind: event.KindBlocked, PID: p.ID, Detail: reason})
	s.schedule(now)
	return nil
}

// Unblock re-adds a blocked process to its ready tier.
func (s *Service) Unblock(pid proc.PID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.lookup(pid)
	if p == nil {
		return fmt.Errorf("%w: pid %d", types.ErrNotFound, pid)
	}
	if err := s.sched.Unblock(p, s.clock.Now()); err != nil {
		return err
	}
	s.publish(event.Event{Kind: event.KindUnblocked, PID: pid})
	return nil
}

// Tick runs one scheduling interval.  It never surfaces errors: an internal
// inconsistency is logged and the cycle skipped, leaving state untouched for
// the next tick.
func (s *Service) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()

	var prev proc.PID
	if p := s.sched.Current(); p != nil {
		prev = p.ID
	}
	switched, err := s.sched.Tick(now)
	if err != nil {
		s.logger.Warn().Err(err).Msg("tick skipped")
		return
	}
	if !switched {
		return
	}
	if prev != proc.NoPID {
		s.publish(event.Event{Kind: event.KindPreempted, PID: prev})
	}
	if p := s.sched.Current(); p != nil {
		s.logger.Debug().Int32("pid", int32(p.ID)).Msg("dispatched")
		s.publish(event.Event{Kind: event.KindDispatched, PID: p.ID})
	}
}
