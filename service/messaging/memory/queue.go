// Package memory provides the in-memory queue used for kernel lifecycle
// events.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/viant/kernos/internal/idgen"
	"github.com/viant/kernos/service/messaging"
)

// Config for the memory queue implementation.
type Config struct {
	// MaxRetries bounds redelivery after Nack; beyond it the message is
	// dropped.
	MaxRetries int
	// QueueBuffer is the channel capacity; Publish fails fast when full.
	QueueBuffer int
}

// DefaultConfig returns a standard configuration for the memory queue.
func DefaultConfig() Config {
	return Config{
		MaxRetries:  3,
		QueueBuffer: 256,
	}
}

// Message implements messaging.Message for the in-memory queue.
type Message[T any] struct {
	id         string
	payload    T
	queue      *Queue[T]
	retryCount int
	createdAt  time.Time

	mu        sync.Mutex
	processed bool
}

// T returns the message payload.
func (m *Message[T]) T() *T {
	return &m.payload
}

// ID returns the unique message identifier.
func (m *Message[T]) ID() string { return m.id }

// Ack acknowledges the message as processed successfully.
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message %s already processed", m.id)
	}
	m.processed = true
	return nil
}

// Nack marks processing failed and requeues the message while it has retries
// left.
func (m *Message[T]) Nack(err error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message %s already processed", m.id)
	}
	m.processed = true

	if m.retryCount >= m.queue.config.MaxRetries {
		return nil
	}
	retry := &Message[T]{
		id:         m.id,
		payload:    m.payload,
		queue:      m.queue,
		retryCount: m.retryCount + 1,
		createdAt:  time.Now(),
	}
	select {
	case m.queue.messages <- retry:
	default:
		return fmt.Errorf("queue full, message %s dropped", m.id)
	}
	return nil
}

// Queue implements an in-memory messaging.Queue.
type Queue[T any] struct {
	config   Config
	messages chan *Message[T]
}

var _ messaging.Queue[int] = (*Queue[int])(nil)

// NewQueue creates a new in-memory queue.
func NewQueue[T any](config Config) *Queue[T] {
	if config.QueueBuffer <= 0 {
		config.QueueBuffer = DefaultConfig().QueueBuffer
	}
	return &Queue[T]{
		config:   config,
		messages: make(chan *Message[T], config.QueueBuffer),
	}
}

// ErrQueueFull is returned by Publish when the buffer has no room; callers
// that must not block (the kernel publishes under its mutex) drop the
// message instead.
var ErrQueueFull = errors.New("memory queue full")

// Publish adds a new item to the queue without blocking.
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := &Message[T]{
		id:        idgen.New(),
		payload:   *t,
		queue:     q,
		createdAt: time.Now(),
	}
	select {
	case q.messages <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Consume retrieves a single item from the queue.
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	select {
	case msg := <-q.messages:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Len returns the number of buffered messages.
func (q *Queue[T]) Len() int { return len(q.messages) }
