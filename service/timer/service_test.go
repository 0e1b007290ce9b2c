package timer

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingTicker struct {
	ticks atomic.Int64
}

func (c *countingTicker) Tick() { c.ticks.Add(1) }

func TestStartTicks(t *testing.T) {
	counter := &countingTicker{}
	svc := New(counter, Config{Interval: time.Millisecond})

	done := make(chan error, 1)
	go func() { done <- svc.Start(context.Background()) }()

	assert.Eventually(t, func() bool { return counter.ticks.Load() >= 3 }, time.Second, time.Millisecond)
	svc.Shutdown()
	assert.NoError(t, <-done)
}

func TestStartHonorsContext(t *testing.T) {
	counter := &countingTicker{}
	svc := New(counter, DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, svc.Start(ctx), context.Canceled)
}
