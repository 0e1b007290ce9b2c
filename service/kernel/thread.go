package kernel

import (
	"context"
	"fmt"

	"github.com/viant/kernos/model/proc"
	"github.com/viant/kernos/model/types"
)

// CreateThread reserves a stack mapping and appends a thread to the owning
// process.  Secondary threads are cooperatively scheduled within their
// process; the process with its main thread stays the unit of dispatch.
func (s *Service) CreateThread(ctx context.Context, pid proc.PID, entry uint64, args []string, stackSize uint64) (proc.TID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.lookup(pid)
	if p == nil {
		return 0, fmt.Errorf("%w: pid %d", types.ErrNotFound, pid)
	}
	if !p.State.Live() {
		return 0, fmt.Errorf("%w: pid %d", types.ErrAlreadyTerminated, pid)
	}
	if stackSize == 0 {
		stackSize = s.config.StackSize
	}
	addr, err := s.alloc.Map(stackSize, proc.PermRW)
	if err != nil {
		return 0, fmt.Errorf("%w: thread stack: %v", types.ErrResourceExhausted, err)
	}
	stack := &proc.Region{Addr: addr, Size: stackSize, Perm: proc.PermRW}
	p.AddRegion(stack)
	t := p.NewThread(entry, args, stack, -1)

	s.logger.Debug().Int32("pid", int32(pid)).Int32("tid", int32(t.ID)).Msg("thread created")
	return t.ID, nil
}
