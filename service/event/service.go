// Package event publishes process lifecycle transitions to a message queue
// so host code can observe the kernel without polling snapshots.
package event

import (
	"context"

	"github.com/viant/kernos/internal/idgen"
	"github.com/viant/kernos/service/messaging"
	"github.com/viant/kernos/service/messaging/memory"
)

// Service fans lifecycle events into a queue.  Publish is best effort: the
// kernel never blocks on a slow consumer, a full queue drops the event.
type Service struct {
	queue messaging.Queue[Event]
}

// Option customizes the service.
type Option func(*Service)

// WithQueue overrides the default in-memory queue.
func WithQueue(queue messaging.Queue[Event]) Option {
	return func(s *Service) { s.queue = queue }
}

// New creates an event service.
func New(opts ...Option) *Service {
	ret := &Service{}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.queue == nil {
		ret.queue = memory.NewQueue[Event](memory.DefaultConfig())
	}
	return ret
}

// Publish assigns the event an id and enqueues it.
func (s *Service) Publish(ctx context.Context, evt Event) error {
	evt.ID = idgen.New()
	return s.queue.Publish(ctx, &evt)
}

// Consume retrieves and acknowledges the next event.
func (s *Service) Consume(ctx context.Context) (*Event, error) {
	msg, err := s.queue.Consume(ctx)
	if err != nil {
		return nil, err
	}
	if err = msg.Ack(); err != nil {
		return nil, err
	}
	return msg.T(), nil
}

// Listener invokes a handler for every published event until its context is
// cancelled.
type Listener struct {
	service *Service
	handler func(*Event)
	cancel  context.CancelFunc
}

// NewListener creates a stopped listener.
func NewListener(service *Service, handler func(*Event)) *Listener {
	return &Listener{service: service, handler: handler}
}

// Start begins consuming in a background goroutine.
func (l *Listener) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	go func() {
		for {
			evt, err := l.service.Consume(ctx)
			if err != nil {
				return
			}
			l.handler(evt)
		}
	}()
}

// Stop cancels the consuming goroutine.
func (l *Listener) Stop() {
	if l.cancel != nil {
		l.cancel()
	}
}
