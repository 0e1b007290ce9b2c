// Package timer drives the kernel's periodic scheduling interval so hosts
// do not have to hand-roll the tick loop.
package timer

import (
	"context"
	"time"
)

// Ticker is the kernel surface the driver needs.
type Ticker interface {
	Tick()
}

// Config represents timer driver configuration.
type Config struct {
	// Interval between ticks; should normally match the scheduler's time
	// slice.
	Interval time.Duration `json:"interval" yaml:"interval"`
}

// DefaultConfig returns the default driver configuration.
func DefaultConfig() Config {
	return Config{Interval: 10 * time.Millisecond}
}

// Service invokes Tick once per interval until stopped.
type Service struct {
	config     Config
	kernel     Ticker
	shutdownCh chan struct{}
}

// New creates a timer driver.
func New(kernel Ticker, config Config) *Service {
	if config.Interval <= 0 {
		config.Interval = DefaultConfig().Interval
	}
	return &Service{
		config:     config,
		kernel:     kernel,
		shutdownCh: make(chan struct{}),
	}
}

// Start begins the tick loop; it returns when the context is cancelled or
// Shutdown is called.
func (s *Service) Start(ctx context.Context) error {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.shutdownCh:
			return nil
		case <-ticker.C:
			s.kernel.Tick()
		}
	}
}

// Shutdown stops the loop.
func (s *Service) Shutdown() {
	close(s.shutdownCh)
}
