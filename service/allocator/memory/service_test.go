package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/viant/kernos/model/proc"
	"github.com/viant/kernos/service/allocator"
)

func TestMapUnmap(t *testing.T) {
	svc := New(DefaultConfig())

	addr, err := svc.Map(100, proc.PermRW)
	assert.NoError(t, err)
	assert.NotZero(t, addr)
	assert.Equal(t, uint64(4096), svc.MappedBytes()) // page rounded

	// size must match the rounded mapping
	assert.ErrorIs(t, svc.Unmap(addr, 8192), allocator.ErrNoMapping)
	assert.NoError(t, svc.Unmap(addr, 4096))
	assert.Zero(t, svc.MappedBytes())
	assert.Equal(t, uint64(1), svc.UnmapCalls())

	// released exactly once
	assert.ErrorIs(t, svc.Unmap(addr, 4096), allocator.ErrNoMapping)
}

func TestLimit(t *testing.T) {
	svc := New(Config{Limit: 8192})

	_, err := svc.Map(4096, proc.PermRW)
	assert.NoError(t, err)
	_, err = svc.Map(4096, proc.PermRW)
	assert.NoError(t, err)

	_, err = svc.Map(1, proc.PermRW)
	assert.ErrorIs(t, err, allocator.ErrExhausted)
}

func TestDistinctAddresses(t *testing.T) {
	svc := New(DefaultConfig())
	a, _ := svc.Map(4096, proc.PermRW)
	b, _ := svc.Map(4096, proc.PermRW)
	assert.NotEqual(t, a, b)
}
