package kernel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/kernos/model/proc"
	"github.com/viant/kernos/model/types"
	amemory "github.com/viant/kernos/service/allocator/memory"
	"github.com/viant/kernos/service/clock"
)

func newTestKernel(t *testing.T, mutate func(*Config)) (*Service, *clock.Manual, *amemory.Service) {
	t.Helper()
	config := DefaultConfig()
	if mutate != nil {
		mutate(&config)
	}
	manual := clock.NewManual(0)
	alloc := amemory.New(amemory.DefaultConfig())
	svc, err := New(config, WithClock(manual), WithAllocator(alloc))
	require.NoError(t, err)
	return svc, manual, alloc
}

func TestBootInit(t *testing.T) {
	svc, _, _ := newTestKernel(t, nil)

	init := svc.Get(proc.InitPID)
	require.NotNil(t, init)
	assert.Equal(t, proc.StateReady, init.State)
	assert.Equal(t, proc.MaxPriority, init.Priority)
	assert.Len(t, init.Threads, 1)

	stats := svc.Stats()
	assert.Equal(t, uint64(1), stats.Created)
	assert.Equal(t, 1, stats.Active)
}

func TestCreateProcess(t *testing.T) {
	svc, _, alloc := newTestKernel(t, nil)
	ctx := context.Background()

	pid, err := svc.CreateProcess(ctx, "worker", 0x4000, []string{"-v"}, 120)
	require.NoError(t, err)
	assert.Greater(t, pid, proc.InitPID)

	snap := svc.Get(pid)
	require.NotNil(t, snap)
	assert.Equal(t, "worker", snap.Name)
	assert.Equal(t, proc.StateReady, snap.State)
	assert.Equal(t, proc.InitPID, snap.ParentID)
	assert.Equal(t, 39, snap.Priority) // clamped
	require.Len(t, snap.Threads, 1)    // main thread
	assert.Equal(t, proc.TID(1), snap.Threads[0].ID)
	require.Len(t, snap.Regions, 1) // the stack
	assert.NotZero(t, alloc.MappedBytes())

	init := svc.Get(proc.InitPID)
	assert.Contains(t, init.Children, pid)
}

func TestCreateProcessStackExhaustion(t *testing.T) {
	config := DefaultConfig()
	manual := clock.NewManual(0)
	// room for the init stack only
	alloc := amemory.New(amemory.Config{Limit: config.StackSize})
	svc, err := New(config, WithClock(manual), WithAllocator(alloc))
	require.NoError(t, err)

	mappedBefore := alloc.MappedBytes()
	_, err = svc.CreateProcess(context.Background(), "worker", 0, nil, 5)
	assert.ErrorIs(t, err, types.ErrResourceExhausted)

	// nothing partially constructed may stay visible
	assert.Equal(t, mappedBefore, alloc.MappedBytes())
	assert.NotContains(t, svc.Get(proc.InitPID).Children, proc.PID(2))
	assert.Equal(t, uint64(1), svc.Stats().Created)
}

func TestPIDExhaustion(t *testing.T) {
	svc, _, _ := newTestKernel(t, func(c *Config) { c.MaxProcesses = 4 })
	ctx := context.Background()

	// slots 2 and 3 are free
	_, err := svc.CreateProcess(ctx, "a", 0, nil, 5)
	require.NoError(t, err)
	_, err = svc.CreateProcess(ctx, "b", 0, nil, 5)
	require.NoError(t, err)

	_, err = svc.CreateProcess(ctx, "c", 0, nil, 5)
	assert.ErrorIs(t, err, types.ErrResourceExhausted)
}

func TestPIDReuseAfterReap(t *testing.T) {
	svc, _, _ := newTestKernel(t, func(c *Config) { c.MaxProcesses = 3 })
	ctx := context.Background()

	pid, err := svc.CreateProcess(ctx, "a", 0, nil, 5)
	require.NoError(t, err)
	require.NoError(t, svc.Terminate(ctx, pid, 0))
	_, ok := svc.Poll(pid)
	require.True(t, ok)

	again, err := svc.CreateProcess(ctx, "b", 0, nil, 5)
	require.NoError(t, err)
	assert.Equal(t, pid, again)
}

func TestList(t *testing.T) {
	svc, _, _ := newTestKernel(t, nil)
	ctx := context.Background()
	for _, name := range []string{"a", "b", "c"} {
		_, err := svc.CreateProcess(ctx, name, 0, nil, 5)
		require.NoError(t, err)
	}

	all := svc.List(-1)
	assert.Len(t, all, 4) // init + 3

	capped := svc.List(2)
	assert.Len(t, capped, 2)

	// restartable: a second scan yields the same head
	assert.Equal(t, all[0].ID, svc.List(1)[0].ID)
}

func TestListSkipsFreedSlots(t *testing.T) {
	svc, _, _ := newTestKernel(t, nil)
	ctx := context.Background()
	a, _ := svc.CreateProcess(ctx, "a", 0, nil, 5)
	b, _ := svc.CreateProcess(ctx, "b", 0, nil, 5)

	require.NoError(t, svc.Terminate(ctx, a, 0))
	_, ok := svc.Poll(a)
	require.True(t, ok)

	var pids []proc.PID
	for _, snap := range svc.List(-1) {
		pids = append(pids, snap.ID)
	}
	assert.NotContains(t, pids, a)
	assert.Contains(t, pids, b)
}

func TestGetUnknown(t *testing.T) {
	svc, _, _ := newTestKernel(t, nil)
	assert.Nil(t, svc.Get(999))
	assert.Nil(t, svc.Get(0))
	assert.Nil(t, svc.Get(-3))
}

func TestSetPriority(t *testing.T) {
	svc, _, _ := newTestKernel(t, nil)
	ctx := context.Background()

	_, err := svc.CreateProcess(ctx, "a", 0, nil, 10)
	require.NoError(t, err)
	b, err := svc.CreateProcess(ctx, "b", 0, nil, 10)
	require.NoError(t, err)

	// clamped, never rejected
	require.NoError(t, svc.SetPriority(b, -100))
	priority, err := svc.GetPriority(b)
	require.NoError(t, err)
	assert.Equal(t, 0, priority)

	// b moved to a higher tier and dispatches first
	assert.Equal(t, b, svc.Schedule())

	assert.ErrorIs(t, svc.SetPriority(999, 5), types.ErrNotFound)
}

func TestSetNice(t *testing.T) {
	svc, _, _ := newTestKernel(t, nil)
	ctx := context.Background()
	pid, _ := svc.CreateProcess(ctx, "a", 0, nil, 10)

	require.NoError(t, svc.SetNice(pid, 5))
	priority, err := svc.GetPriority(pid)
	require.NoError(t, err)
	assert.Equal(t, 25, priority)
	assert.Equal(t, 5, svc.Get(pid).Nice)
}

func TestAttachDescriptor(t *testing.T) {
	svc, _, _ := newTestKernel(t, nil)
	ctx := context.Background()
	pid, _ := svc.CreateProcess(ctx, "a", 0, nil, 10)

	require.NoError(t, svc.AttachDescriptor(pid, 7))
	require.NoError(t, svc.AttachDescriptor(pid, 9))
	assert.Equal(t, 2, svc.Get(pid).Descriptors)
	assert.ErrorIs(t, svc.AttachDescriptor(999, 1), types.ErrNotFound)
}
