// Package events carries permission-denied errors from store mutators to
// whoever wants them prominent. The bus is constructed in main and injected
// through the gin context, so there is no ambient global; mutators also
// return the typed error to their caller, the bus is observability only.
package events

import (
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Operation is the store write that was denied.
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
	OpRead   Operation = "read"
)

// PermissionError is a write or read rejected by server-side authorization.
// Path is the document path the operation targeted, Payload the attempted
// document (nil for delete/read).
type PermissionError struct {
	Path      string    `json:"path"`
	Operation Operation `json:"operation"`
	Payload   any       `json:"payload,omitempty"`
	Cause     error     `json:"-"`
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: %s on %s", e.Operation, e.Path)
}

func (e *PermissionError) Unwrap() error {
	return e.Cause
}

// Event is one published permission failure.
type Event struct {
	UserID string
	Err    *PermissionError
	At     time.Time
}

// Bus fans permission events out to registered listeners. Publish never
// blocks: a slow listener drops events rather than stalling a request.
type Bus struct {
	mu        sync.RWMutex
	listeners []chan Event
	closed    bool
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a listener and returns its channel plus a cancel
// function that unregisters and closes it.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 16)

	b.mu.Lock()
	b.listeners = append(b.listeners, ch)
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, l := range b.listeners {
			if l == ch {
				b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
				close(ch)
				return
			}
		}
	}
	return ch, cancel
}

// Publish delivers the event to every current listener without blocking.
func (b *Bus) Publish(userID string, perr *PermissionError) {
	ev := Event{UserID: userID, Err: perr, At: time.Now()}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.listeners {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Close unregisters and closes every listener.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.listeners {
		close(ch)
	}
	b.listeners = nil
}

const contextKey = "permission_bus"

// Middleware injects the bus into the request context.
func Middleware(bus *Bus) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(contextKey, bus)
		c.Next()
	}
}

// FromContext extracts the bus injected by Middleware. Returns nil when no
// bus was injected (tests exercising handlers directly).
func FromContext(c *gin.Context) *Bus {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil
	}
	bus, _ := v.(*Bus)
	return bus
}
