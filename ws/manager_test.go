package ws

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T, m *Manager, userID string) *Client {
	t.Helper()
	client := &Client{
		UserID:  userID,
		Send:    make(chan any, sendBuffer),
		manager: m,
	}
	m.register <- client
	return client
}

func waitForUsers(t *testing.T, m *Manager, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if m.ConnectedUsers() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d connected users, have %d", want, m.ConnectedUsers())
}

func TestPublishReachesAllUserConnections(t *testing.T) {
	m := NewManager()
	go m.Run()

	first := connect(t, m, "user-1")
	second := connect(t, m, "user-1")
	other := connect(t, m, "user-2")
	waitForUsers(t, m, 2)

	m.Publish("user-1", "hello")

	for _, c := range []*Client{first, second} {
		select {
		case msg := <-c.Send:
			env, ok := msg.(Envelope)
			require.True(t, ok)
			assert.Equal(t, "notification", env.Type)
			assert.Equal(t, "hello", env.Data)
		case <-time.After(time.Second):
			t.Fatal("connection did not receive the event")
		}
	}

	select {
	case <-other.Send:
		t.Fatal("event leaked to another user")
	default:
	}
}

func TestPublishToOfflineUserIsNoop(t *testing.T) {
	m := NewManager()
	go m.Run()

	assert.NotPanics(t, func() {
		m.Publish("nobody", "hello")
	})
}

func TestUnregisterRemovesConnection(t *testing.T) {
	m := NewManager()
	go m.Run()

	client := connect(t, m, "user-1")
	waitForUsers(t, m, 1)

	m.unregister <- client
	waitForUsers(t, m, 0)

	m.Publish("user-1", "hello")
	// The send channel was closed on unregister.
	_, open := <-client.Send
	assert.False(t, open)
}
