// Package memory implements a simulated, thread-safe address-space allocator.
// Addresses are taken from a private bump region and sizes are rounded up to
// whole pages; the host never dereferences them.
package memory

import (
	"fmt"
	"sync"

	"github.com/viant/kernos/model/proc"
	"github.com/viant/kernos/service/allocator"
)

const (
	pageSize = 4096
	baseAddr = 0x1000_0000
)

// Config bounds the allocator.
type Config struct {
	// Limit is the total number of bytes that may be mapped at once.
	// Zero means unbounded.
	Limit uint64
}

// DefaultConfig returns an unbounded allocator configuration.
func DefaultConfig() Config {
	return Config{}
}

type mapping struct {
	size uint64
	perm proc.Perm
}

// Service is an in-memory allocator.  All methods are safe for concurrent
// use.
type Service struct {
	config   Config
	mux      sync.Mutex
	next     uint64
	mapped   uint64
	unmapped uint64 // total unmap calls, for tests and stats
	ranges   map[uint64]mapping
}

var _ allocator.Service = (*Service)(nil)

// New creates an allocator with the supplied configuration.
func New(config Config) *Service {
	return &Service{
		config: config,
		next:   baseAddr,
		ranges: make(map[uint64]mapping),
	}
}

func (s *Service) Map(size uint64, perm proc.Perm) (uint64, error) {
	if size == 0 {
		return 0, fmt.Errorf("%w: zero-sized mapping", allocator.ErrExhausted)
	}
	size = roundUp(size)

	s.mux.Lock()
	defer s.mux.Unlock()

	if s.config.Limit > 0 && s.mapped+size > s.config.Limit {
		return 0, allocator.ErrExhausted
	}
	addr := s.next
	s.next += size
	s.mapped += size
	s.ranges[addr] = mapping{size: size, perm: perm}
	return addr, nil
}

func (s *Service) Unmap(addr, size uint64) error {
	size = roundUp(size)

	s.mux.Lock()
	defer s.mux.Unlock()

	m, ok := s.ranges[addr]
	if !ok || m.size != size {
		return fmt.Errorf("%w: addr=%#x size=%d", allocator.ErrNoMapping, addr, size)
	}
	delete(s.ranges, addr)
	s.mapped -= size
	s.unmapped++
	return nil
}

// MappedBytes returns the number of bytes currently mapped.
func (s *Service) MappedBytes() uint64 {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.mapped
}

// UnmapCalls returns how many Unmap calls have succeeded.
func (s *Service) UnmapCalls() uint64 {
	s.mux.Lock()
	defer s.mux.Unlock()
	return s.unmapped
}

func roundUp(size uint64) uint64 {
	return (size + pageSize - 1) &^ (pageSize - 1)
}
