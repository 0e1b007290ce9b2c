package kernel

import (
	"fmt"

	"github.com/viant/kernos/model/proc"
	"github.com/viant/kernos/model/types"
)

// AllocRegion maps an anonymous range for the process and records it in the
// region list.
func (s *Service) AllocRegion(pid proc.PID, size uint64, perm proc.Perm) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.lookup(pid)
	if p == nil {
		return 0, fmt.Errorf("%w: pid %d", types.ErrNotFound, pid)
	}
	if !p.State.Live() {
		return 0, fmt.Errorf("%w: pid %d", types.ErrAlreadyTerminated, pid)
	}
	addr, err := s.alloc.Map(size, perm)
	if err != nil {
		return 0, fmt.Errorf("%w: region: %v", types.ErrResourceExhausted, err)
	}
	p.AddRegion(&proc.Region{Addr: addr, Size: size, Perm: perm})
	return addr, nil
}

// AttachDescriptor records an opaque descriptor slot for the process.  The
// kernel never interprets slots; it only hands them back to the descriptor
// closer at termination.
func (s *Service) AttachDescriptor(pid proc.PID, slot uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.lookup(pid)
	if p == nil {
		return fmt.Errorf("%w: pid %d", types.ErrNotFound, pid)
	}
	if !p.State.Live() {
		return fmt.Errorf("%w: pid %d", types.ErrAlreadyTerminated, pid)
	}
	p.Descriptors = append(p.Descriptors, slot)
	return nil
}

// FreeRegion releases the region matching addr and size exactly.  Partial
// unmapping is not supported.
func (s *Service) FreeRegion(pid proc.PID, addr, size uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.lookup(pid)
	if p == nil {
		return fmt.Errorf("%w: pid %d", types.ErrNotFound, pid)
	}
	r := p.TakeRegion(addr, size)
	if r == nil {
		return fmt.Errorf("%w: no region addr=%#x size=%d", types.ErrNotFound, addr, size)
	}
	if err := s.alloc.Unmap(r.Addr, r.Size); err != nil {
		p.AddRegion(r) // still mapped, keep the list truthful
		return err
	}
	return nil
}
