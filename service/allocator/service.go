// Package allocator defines the address-space collaborator the kernel uses
// for thread stacks and heap regions.  The kernel never touches mappings
// directly; it only asks for ranges and hands them back.
package allocator

import (
	"errors"

	"github.com/viant/kernos/model/proc"
)

var (
	// ErrExhausted is returned when no further address range can be mapped.
	ErrExhausted = errors.New("allocator: address space exhausted")

	// ErrNoMapping is returned by Unmap when no mapping matches the given
	// address and size exactly.
	ErrNoMapping = errors.New("allocator: no such mapping")
)

// Service maps and unmaps anonymous address ranges.
type Service interface {
	// Map reserves an anonymous range of at least size bytes with the given
	// permissions and returns its base address.
	Map(size uint64, perm proc.Perm) (uint64, error)

	// Unmap releases a previously mapped range.  Address and size must match
	// a prior Map exactly; partial unmapping is not supported.
	Unmap(addr, size uint64) error
}
