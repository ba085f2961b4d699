package websocket

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watchdog/pkg/contracts/events"
)

// mockConnection is an in-memory Connection for hub and client tests
type mockConnection struct {
	mu      sync.Mutex
	written [][]byte
	reads   chan readResult
	closed  bool
}

type readResult struct {
	messageType int
	data        []byte
	err         error
}

func newMockConnection() *mockConnection {
	return &mockConnection{reads: make(chan readResult, 8)}
}

func (m *mockConnection) WriteMessage(messageType int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return errors.New("connection closed")
	}
	m.written = append(m.written, append([]byte(nil), data...))
	return nil
}

func (m *mockConnection) ReadMessage() (int, []byte, error) {
	r, ok := <-m.reads
	if !ok {
		return 0, nil, errors.New("connection closed")
	}
	return r.messageType, r.data, r.err
}

func (m *mockConnection) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockConnection) SetReadDeadline(t time.Time) error  { return nil }
func (m *mockConnection) SetWriteDeadline(t time.Time) error { return nil }
func (m *mockConnection) SetReadLimit(limit int64)           {}
func (m *mockConnection) SetPongHandler(h func(string) error) {}
func (m *mockConnection) RemoteAddr() string                 { return "127.0.0.1:12345" }

func (m *mockConnection) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *mockConnection) writtenMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.written))
	copy(out, m.written)
	return out
}

func TestNewHub(t *testing.T) {
	hub := NewHub(nil)

	assert.NotNil(t, hub.clients)
	assert.NotNil(t, hub.broadcast)
	assert.Equal(t, 0, hub.GetClientCount())
}

func TestHub_RegisterAndUnregister(t *testing.T) {
	hub := NewHub(nil)
	hub.Start()
	defer hub.Stop()

	client := NewClientWithConnection(hub, newMockConnection(), nil)
	hub.Register(client)

	require.Eventually(t, func() bool {
		return hub.GetClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	// Registration queues a welcome message for the client
	select {
	case msg := <-client.send:
		var envelope map[string]interface{}
		require.NoError(t, json.Unmarshal(msg, &envelope))
		assert.Equal(t, TypeConnection, envelope["type"])
	case <-time.After(time.Second):
		t.Fatal("no welcome message received")
	}

	hub.Unregister(client)
	require.Eventually(t, func() bool {
		return hub.GetClientCount() == 0
	}, time.Second, 10*time.Millisecond)

	// The hub closes the send channel of unregistered clients
	_, open := <-client.send
	assert.False(t, open)
}

func TestHub_BroadcastUploadEvent(t *testing.T) {
	hub := NewHub(nil)
	hub.Start()
	defer hub.Stop()

	client := NewClientWithConnection(hub, newMockConnection(), nil)
	hub.Register(client)
	require.Eventually(t, func() bool {
		return hub.GetClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	<-client.send // drain the welcome message

	hub.BroadcastUploadEvent(events.UploadEvent{
		Stage:    events.StageReady,
		UploadID: "abc-123",
		RowCount: 42,
	})

	select {
	case msg := <-client.send:
		var envelope struct {
			Type string             `json:"type"`
			Data events.UploadEvent `json:"data"`
		}
		require.NoError(t, json.Unmarshal(msg, &envelope))
		assert.Equal(t, TypeUpload, envelope.Type)
		assert.Equal(t, events.StageReady, envelope.Data.Stage)
		assert.Equal(t, "abc-123", envelope.Data.UploadID)
		assert.Equal(t, 42, envelope.Data.RowCount)
	case <-time.After(time.Second):
		t.Fatal("no upload event received")
	}
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	hub := NewHub(nil)
	hub.Start()
	defer hub.Stop()

	clients := make([]*Client, 3)
	for i := range clients {
		clients[i] = NewClientWithConnection(hub, newMockConnection(), nil)
		hub.Register(clients[i])
	}
	require.Eventually(t, func() bool {
		return hub.GetClientCount() == 3
	}, time.Second, 10*time.Millisecond)

	for _, c := range clients {
		<-c.send // welcome
	}

	hub.Broadcast([]byte(`{"type":"upload"}`))

	for _, c := range clients {
		select {
		case msg := <-c.send:
			assert.JSONEq(t, `{"type":"upload"}`, string(msg))
		case <-time.After(time.Second):
			t.Fatal("client missed broadcast")
		}
	}
}

func TestHub_StopClosesClients(t *testing.T) {
	hub := NewHub(nil)
	hub.Start()

	client := NewClientWithConnection(hub, newMockConnection(), nil)
	hub.Register(client)
	require.Eventually(t, func() bool {
		return hub.GetClientCount() == 1
	}, time.Second, 10*time.Millisecond)

	hub.Stop()

	require.Eventually(t, func() bool {
		return hub.GetClientCount() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestHub_StartIsIdempotent(t *testing.T) {
	hub := NewHub(nil)
	hub.Start()
	hub.Start()
	hub.Stop()
	hub.Stop()
}

func TestHub_BroadcastAfterStopDoesNotBlock(t *testing.T) {
	hub := NewHub(nil)
	hub.Start()
	hub.Stop()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Broadcast([]byte("msg"))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked after stop")
	}
}
