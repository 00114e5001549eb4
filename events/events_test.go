package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversExactlyOneEvent(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ch, cancel := bus.Subscribe()
	defer cancel()

	perr := &PermissionError{
		Path:      "users/u1/expenses/e1",
		Operation: OpDelete,
	}
	bus.Publish("u1", perr)

	select {
	case ev := <-ch:
		assert.Equal(t, "u1", ev.UserID)
		assert.Equal(t, OpDelete, ev.Err.Operation)
		assert.Equal(t, "users/u1/expenses/e1", ev.Err.Path)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}

	select {
	case ev, ok := <-ch:
		if ok {
			t.Fatalf("unexpected second event: %+v", ev)
		}
	default:
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	_, cancel := bus.Subscribe()
	defer cancel()

	// Nobody drains the listener; publishing past the buffer must not hang.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			bus.Publish("u1", &PermissionError{Path: "p", Operation: OpCreate})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a full listener")
	}
}

func TestCancelUnsubscribes(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ch, cancel := bus.Subscribe()
	cancel()

	_, ok := <-ch
	require.False(t, ok, "channel should be closed after cancel")

	// Publishing after cancel must not panic.
	bus.Publish("u1", &PermissionError{Path: "p", Operation: OpUpdate})
}

func TestPermissionErrorMessage(t *testing.T) {
	perr := &PermissionError{Path: "users/u1", Operation: OpUpdate}
	assert.Equal(t, "permission denied: update on users/u1", perr.Error())
}
