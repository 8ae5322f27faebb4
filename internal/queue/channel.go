package queue

import (
	"context"
	"errors"
	"sync"
)

// ErrQueueFull indicates the in-process queue has no free capacity.
var ErrQueueFull = errors.New("enrichment queue is full")

// ErrQueueClosed indicates the queue no longer accepts messages.
var ErrQueueClosed = errors.New("enrichment queue is closed")

// Channel is a bounded in-process queue. It is the default backend: the API
// process enqueues here and an in-process worker pool drains it. Send never
// blocks request handlers; a full buffer is reported to the caller instead.
type Channel struct {
	ch        chan Message
	done      chan struct{}
	closeOnce sync.Once
}

// NewChannel constructs a Channel with the given buffer capacity.
func NewChannel(buffer int) *Channel {
	if buffer <= 0 {
		buffer = 1
	}
	return &Channel{
		ch:   make(chan Message, buffer),
		done: make(chan struct{}),
	}
}

// Send enqueues a message without blocking. Returns ErrQueueFull when the
// buffer is at capacity and ErrQueueClosed after Close.
func (c *Channel) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-c.done:
		return ErrQueueClosed
	default:
	}
	select {
	case c.ch <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Receive returns the channel consumers read from. The channel itself is
// never closed; consumers combine it with Done to drain on shutdown.
func (c *Channel) Receive() <-chan Message {
	return c.ch
}

// Done is closed once the queue stops accepting messages.
func (c *Channel) Done() <-chan struct{} {
	return c.done
}

// Close stops accepting new messages. Buffered messages stay readable so
// consumers can drain before exiting. Safe to call more than once.
func (c *Channel) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

var _ Client = (*Channel)(nil)
