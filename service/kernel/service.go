// Package kernel implements the process table, lifecycle operations and the
// glue around the ready-queue scheduler.  Every mutating operation on the
// table, the ready tiers and the zombie list runs under one coarse mutex;
// each such operation is short and bounded by the fixed process limit, so
// finer locking buys nothing (see DESIGN.md).
package kernel

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/viant/kernos/model/proc"
	"github.com/viant/kernos/model/types"
	"github.com/viant/kernos/service/allocator"
	amemory "github.com/viant/kernos/service/allocator/memory"
	"github.com/viant/kernos/service/clock"
	"github.com/viant/kernos/service/event"
	"github.com/viant/kernos/service/scheduler"
)

// DescriptorCloser is the filesystem collaborator invoked once per process
// at termination.  The kernel never interprets descriptor slots.
type DescriptorCloser interface {
	CloseAll(pid proc.PID, slots []uint64)
}

// Service is the kernel core.
type Service struct {
	mu     sync.Mutex
	config Config

	table   []*proc.Process
	nextPID proc.PID // allocation scan hint

	sched  *scheduler.Queue
	alloc  allocator.Service
	clock  clock.Clock
	closer DescriptorCloser
	events *event.Service
	logger zerolog.Logger

	exits map[proc.PID]chan struct{}

	created uint64
	live    int
}

// Option customizes the kernel service.
type Option func(*Service)

// WithAllocator sets the address-space collaborator.
func WithAllocator(svc allocator.Service) Option {
	return func(s *Service) { s.alloc = svc }
}

// WithClock sets the time source.
func WithClock(c clock.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithLogger sets the structured logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithDescriptorCloser sets the filesystem collaborator.
func WithDescriptorCloser(closer DescriptorCloser) Option {
	return func(s *Service) { s.closer = closer }
}

// WithEventService sets the lifecycle event sink.
func WithEventService(events *event.Service) Option {
	return func(s *Service) { s.events = events }
}

// New creates a kernel with the permanent init process (pid 1) registered
// and ready.
func New(config Config, options ...Option) (*Service, error) {
	config.normalize()
	ret := &Service{
		config: config,
		table:  make([]*proc.Process, config.MaxProcesses),
		exits:  make(map[proc.PID]chan struct{}),
		logger: zerolog.New(os.Stderr).Level(zerolog.WarnLevel),
	}
	for _, option := range options {
		option(ret)
	}
	if ret.alloc == nil {
		ret.alloc = amemory.New(amemory.DefaultConfig())
	}
	if ret.clock == nil {
		ret.clock = clock.NewSystem()
	}
	ret.sched = scheduler.New(ret, config.Scheduler)
	ret.nextPID = initPIDSlots

	if err := ret.bootInit(); err != nil {
		return nil, err
	}
	return ret, nil
}

// bootInit installs the init process into slot 1.
func (s *Service) bootInit() error {
	now := s.clock.Now()
	addr, err := s.alloc.Map(s.config.StackSize, proc.PermRW)
	if err != nil {
		return fmt.Errorf("%w: init stack: %v", types.ErrResourceExhausted, err)
	}
	p := proc.New(proc.InitPID, proc.NoPID, "init", proc.MaxPriority)
	p.CreatedAt = now
	stack := &proc.Region{Addr: addr, Size: s.config.StackSize, Perm: proc.PermRW}
	p.AddRegion(stack)
	p.NewThread(0, nil, stack, -1)

	s.table[proc.InitPID] = p
	s.exits[proc.InitPID] = make(chan struct{})
	s.created++
	s.live++
	if err := s.sched.AddReady(p, now); err != nil {
		return err
	}
	return nil
}

// Resolve implements scheduler.Resolver.  Callers hold the kernel mutex.
func (s *Service) Resolve(pid proc.PID) *proc.Process {
	if pid <= proc.NoPID || int(pid) >= len(s.table) {
		return nil
	}
	return s.table[pid]
}

// allocPID scans for a free slot starting at the hint and wrapping once.
func (s *Service) allocPID() proc.PID {
	max := proc.PID(len(s.table))
	pid := s.nextPID
	for i := proc.PID(0); i < max-initPIDSlots; i++ {
		if pid >= max || pid < initPIDSlots {
			pid = initPIDSlots
		}
		if s.table[pid] == nil {
			s.nextPID = pid + 1
			return pid
		}
		pid++
	}
	return proc.NoPID
}

// lookup returns the live record or nil.
func (s *Service) lookup(pid proc.PID) *proc.Process {
	return s.Resolve(pid)
}

// noWaitCtx backs event publication from under the mutex; the queue never
// blocks on it.
var noWaitCtx = context.Background()

func (s *Service) publish(evt event.Event) {
	if s.events == nil {
		return
	}
	evt.At = s.clock.Now()
	if err := s.events.Publish(noWaitCtx, evt); err != nil {
		s.logger.Debug().Err(err).Str("kind", string(evt.Kind)).Msg("event dropped")
	}
}
