package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/kernos/model/proc"
	"github.com/viant/kernos/model/types"
)

type fakeTable map[proc.PID]*proc.Process

func (t fakeTable) Resolve(pid proc.PID) *proc.Process { return t[pid] }

func (t fakeTable) add(id proc.PID, priority int) *proc.Process {
	p := proc.New(id, proc.InitPID, "p", priority)
	t[id] = p
	return p
}

func TestDispatchOrder(t *testing.T) {
	table := fakeTable{}
	q := New(table, DefaultConfig())

	// creation order: prio 5, prio 5, prio 3
	a := table.add(2, 5)
	b := table.add(3, 5)
	c := table.add(4, 3)
	for _, p := range []*proc.Process{a, b, c} {
		require.NoError(t, q.AddReady(p, 0))
		assert.Equal(t, proc.StateReady, p.State)
	}

	// lowest tier first, then FIFO within tier
	assert.Same(t, c, q.Dispatch(1))
	q.ClearCurrent(1)
	assert.Same(t, a, q.Dispatch(2))
	q.ClearCurrent(2)
	assert.Same(t, b, q.Dispatch(3))
	assert.Equal(t, uint64(3), q.Switches())
}

func TestDispatchEmpty(t *testing.T) {
	q := New(fakeTable{}, DefaultConfig())
	assert.Nil(t, q.Dispatch(0))
	assert.Nil(t, q.Current())
	assert.Zero(t, q.Switches())
}

func TestRoundRobinWithinTier(t *testing.T) {
	table := fakeTable{}
	q := New(table, DefaultConfig())
	a := table.add(2, 7)
	b := table.add(3, 7)
	require.NoError(t, q.AddReady(a, 0))
	require.NoError(t, q.AddReady(b, 0))

	assert.Same(t, a, q.Dispatch(0))
	require.NoError(t, q.Preempt(10))
	// a went to the tail of tier 7
	assert.Same(t, b, q.Dispatch(10))
	require.NoError(t, q.Preempt(20))
	assert.Same(t, a, q.Dispatch(20))
}

func TestRemoveReadyMiddle(t *testing.T) {
	table := fakeTable{}
	q := New(table, DefaultConfig())
	a := table.add(2, 7)
	b := table.add(3, 7)
	c := table.add(4, 7)
	for _, p := range []*proc.Process{a, b, c} {
		require.NoError(t, q.AddReady(p, 0))
	}

	require.NoError(t, q.RemoveReady(b))
	assert.Equal(t, -1, b.Tier)
	assert.Equal(t, 2, q.ReadyCount())

	assert.Same(t, a, q.Dispatch(0))
	q.ClearCurrent(0)
	assert.Same(t, c, q.Dispatch(0))
}

func TestAddReadyConflicts(t *testing.T) {
	table := fakeTable{}
	q := New(table, DefaultConfig())
	a := table.add(2, 7)
	require.NoError(t, q.AddReady(a, 0))

	// double-link is a state conflict
	assert.ErrorIs(t, q.AddReady(a, 0), types.ErrStateConflict)

	z := table.add(3, 7)
	z.State = proc.StateZombie
	assert.ErrorIs(t, q.AddReady(z, 0), types.ErrStateConflict)
}

func TestBlockUnblock(t *testing.T) {
	table := fakeTable{}
	q := New(table, DefaultConfig())
	a := table.add(2, 7)
	require.NoError(t, q.AddReady(a, 0))
	q.Dispatch(100)

	require.NoError(t, q.Block("io: disk", 250))
	assert.Equal(t, proc.StateBlocked, a.State)
	assert.Equal(t, "io: disk", a.BlockReason)
	assert.Equal(t, int64(150), a.CPUTime)
	assert.Nil(t, q.Current())
	assert.Equal(t, 1, q.BlockedCount())

	// blocked process cannot be enqueued
	assert.ErrorIs(t, q.AddReady(a, 300), types.ErrStateConflict)

	require.NoError(t, q.Unblock(a, 300))
	assert.Equal(t, proc.StateReady, a.State)
	assert.Empty(t, a.BlockReason)
	assert.Zero(t, q.BlockedCount())

	// unblocking a ready process is a state conflict
	assert.ErrorIs(t, q.Unblock(a, 300), types.ErrStateConflict)
}

func TestBlockWithoutCurrent(t *testing.T) {
	q := New(fakeTable{}, DefaultConfig())
	assert.ErrorIs(t, q.Block("x", 0), types.ErrNoCurrent)
	assert.ErrorIs(t, q.Preempt(0), types.ErrNoCurrent)
}

func TestTickPreempts(t *testing.T) {
	table := fakeTable{}
	config := DefaultConfig() // 10ms slice
	q := New(table, config)
	a := table.add(2, 7)
	b := table.add(3, 7)
	require.NoError(t, q.AddReady(a, 0))
	require.NoError(t, q.AddReady(b, 0))

	assert.Same(t, a, q.Dispatch(0))
	before := q.Switches()

	// 5ms in: slice not expired
	switched, err := q.Tick(5_000)
	require.NoError(t, err)
	assert.False(t, switched)
	assert.Same(t, a, q.Current())

	// 15ms in: a requeued, b dispatched, counter +1
	switched, err = q.Tick(15_000)
	require.NoError(t, err)
	assert.True(t, switched)
	assert.Same(t, b, q.Current())
	assert.Equal(t, proc.StateReady, a.State)
	assert.Equal(t, before+1, q.Switches())
}

func TestTickNonPreemptive(t *testing.T) {
	table := fakeTable{}
	config := DefaultConfig()
	config.Preemptive = false
	q := New(table, config)
	a := table.add(2, 7)
	b := table.add(3, 7)
	require.NoError(t, q.AddReady(a, 0))
	require.NoError(t, q.AddReady(b, 0))
	q.Dispatch(0)

	switched, err := q.Tick(50_000)
	require.NoError(t, err)
	assert.False(t, switched)
	assert.Same(t, a, q.Current())
}

func TestTickNoOtherReady(t *testing.T) {
	table := fakeTable{}
	q := New(table, DefaultConfig())
	a := table.add(2, 7)
	require.NoError(t, q.AddReady(a, 0))
	q.Dispatch(0)

	// slice long expired but a is alone - keep it running
	switched, err := q.Tick(100_000)
	require.NoError(t, err)
	assert.False(t, switched)
	assert.Same(t, a, q.Current())
}

func TestTickCurrentNotInTable(t *testing.T) {
	table := fakeTable{}
	q := New(table, DefaultConfig())
	a := table.add(2, 7)
	b := table.add(3, 7)
	require.NoError(t, q.AddReady(a, 0))
	require.NoError(t, q.AddReady(b, 0))
	require.Same(t, a, q.Dispatch(0))

	// current pid no longer resolves
	delete(table, a.ID)

	switched, err := q.Tick(15_000)
	assert.False(t, switched)
	assert.ErrorIs(t, err, types.ErrStateConflict)
}

func TestTickReadyHeadNotInTable(t *testing.T) {
	table := fakeTable{}
	q := New(table, DefaultConfig())
	a := table.add(2, 7)
	b := table.add(3, 7)
	require.NoError(t, q.AddReady(a, 0))
	require.NoError(t, q.AddReady(b, 0))
	require.Same(t, a, q.Dispatch(0))

	// b heads tier 7 but is gone from the table
	delete(table, b.ID)

	switched, err := q.Tick(15_000)
	assert.False(t, switched)
	assert.ErrorIs(t, err, types.ErrStateConflict)
	assert.Nil(t, q.Current())
}

func TestAging(t *testing.T) {
	table := fakeTable{}
	config := DefaultConfig()
	config.AgingInterval = 1
	config.AgingThreshold = 20 * time.Millisecond
	config.AgingMaxBoost = 2
	q := New(table, config)

	low := table.add(2, 30)
	high := table.add(3, 5)
	require.NoError(t, q.AddReady(low, 0))
	require.NoError(t, q.AddReady(high, 0))

	// below threshold: untouched
	_, err := q.Tick(10_000)
	require.NoError(t, err)
	assert.Zero(t, low.Boost)

	_, err = q.Tick(25_000)
	require.NoError(t, err)
	assert.Equal(t, 1, low.Boost)
	assert.Equal(t, 29, low.Tier)
	assert.Equal(t, 1, high.Boost)

	// bounded by AgingMaxBoost
	for _, now := range []int64{50_000, 80_000, 120_000} {
		_, err = q.Tick(now)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, low.Boost)
	assert.Equal(t, 28, low.Tier)

	// boost resets on dispatch
	assert.Same(t, high, q.Dispatch(130_000))
	assert.Zero(t, high.Boost)
}

func TestZombieList(t *testing.T) {
	q := New(fakeTable{}, DefaultConfig())
	q.AddZombie(4)
	q.AddZombie(7)
	q.RemoveZombie(4)
	assert.Equal(t, []proc.PID{7}, q.Zombies())
	q.RemoveZombie(42) // absent pid is a no-op
	assert.Equal(t, []proc.PID{7}, q.Zombies())
}

func TestDrop(t *testing.T) {
	table := fakeTable{}
	q := New(table, DefaultConfig())
	a := table.add(2, 7)
	b := table.add(3, 7)
	require.NoError(t, q.AddReady(a, 0))
	require.NoError(t, q.AddReady(b, 0))
	q.Dispatch(0)

	// a is current
	require.NoError(t, q.Drop(a, 100))
	assert.Nil(t, q.Current())

	// b is ready
	require.NoError(t, q.Drop(b, 100))
	assert.Zero(t, q.ReadyCount())
}
