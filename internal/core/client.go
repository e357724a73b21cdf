package core

import "sync"

// DefaultClientBuffer is the outbound event queue size of a client.
const DefaultClientBuffer = 32

// Client is one realtime session as seen by the core layer.
type Client struct {
	ID     string
	Events chan *Event

	// rooms is guarded by the owning Hub's mutex.
	rooms map[string]struct{}

	done      chan struct{}
	closeOnce sync.Once
	reason    string
}

// NewClient constructs a client with an initialized event queue.
func NewClient(id string, buffer int) *Client {
	if buffer <= 0 {
		buffer = DefaultClientBuffer
	}
	return &Client{
		ID:     id,
		Events: make(chan *Event, buffer),
		rooms:  make(map[string]struct{}),
		done:   make(chan struct{}),
	}
}

// Done is closed once the session has been terminated by the hub.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// CloseReason reports why the session was terminated. Valid after Done is closed.
func (c *Client) CloseReason() string {
	return c.reason
}

// Close terminates the session. Subsequent calls are no-ops.
func (c *Client) Close(reason string) {
	c.closeOnce.Do(func() {
		c.reason = reason
		close(c.done)
	})
}

// deliver queues an event without blocking. It returns false when the client
// has been closed or its queue is full.
func (c *Client) deliver(ev *Event) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.Events <- ev:
		return true
	default:
		return false
	}
}
