package chathub_test

import (
	"sync"
	"testing"
	"time"

	"pairgo/backend/internal/chathub"
	"pairgo/backend/internal/config"
	"pairgo/backend/internal/models"
)

// MockClient is a test double for the chathub.Client interface: an
// in-memory connection handle with a buffered inbox.
type MockClient struct {
	userID    string
	send      chan models.ServerEvent
	closeOnce sync.Once
}

func newMockClient(id string) *MockClient {
	return &MockClient{
		userID: id,
		send:   make(chan models.ServerEvent, 32), // buffered to prevent blocking in tests
	}
}

func (c *MockClient) GetUserID() string                         { return c.userID }
func (c *MockClient) GetSendChannel() chan<- models.ServerEvent { return c.send }
func (c *MockClient) Run()                                      {}

func (c *MockClient) Close() {
	c.closeOnce.Do(func() { close(c.send) })
}

// IsClosed reports whether the hub released this handle.
func (c *MockClient) IsClosed() bool {
	select {
	case _, ok := <-c.send:
		return !ok
	default:
		return false
	}
}

// testConfig returns a hub configuration with millisecond timing so the
// grace and queue-wait behaviour is observable in tests.
func testConfig() config.Config {
	return config.Config{
		GraceWindow:     150 * time.Millisecond,
		QueueWaitNotify: 60 * time.Millisecond,
		SessionIdleTTL:  150 * time.Millisecond,
		RateLimitCount:  5,
		RateLimitWindow: 250 * time.Millisecond,
		MaxMessageLen:   200,
		ReaperInterval:  time.Hour,
	}
}

func newTestHub(t *testing.T, cfg config.Config) *chathub.ManagerService {
	t.Helper()
	hub := chathub.NewManagerService(cfg)
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

// connect registers a fresh mock handle for the identity and waits for the
// hub to process it.
func connect(t *testing.T, hub *chathub.ManagerService, userID string) *MockClient {
	t.Helper()
	c := newMockClient(userID)
	hub.RegisterCh <- c
	hub.Stats() // barrier: registration handled
	return c
}

// push injects an inbound event and waits for the hub to process it.
func push(t *testing.T, hub *chathub.ManagerService, ev models.ClientEvent) {
	t.Helper()
	hub.IncomingCh <- ev
	hub.Stats()
}

// waitFor reads events until one of the wanted type arrives, skipping
// others, and fails the test on timeout.
func waitFor(t *testing.T, c *MockClient, eventType string) models.ServerEvent {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev, ok := <-c.send:
			if !ok {
				t.Fatalf("%s: channel closed while waiting for %q", c.userID, eventType)
			}
			if ev.Type == eventType {
				return ev
			}
		case <-deadline:
			t.Fatalf("%s: timed out waiting for %q", c.userID, eventType)
		}
	}
}

// expectNone asserts the client receives no event of the given type within
// the window.
func expectNone(t *testing.T, c *MockClient, eventType string, window time.Duration) {
	t.Helper()
	deadline := time.After(window)
	for {
		select {
		case ev, ok := <-c.send:
			if ok && ev.Type == eventType {
				t.Fatalf("%s: unexpected %q event: %+v", c.userID, eventType, ev)
			}
			if !ok {
				return
			}
		case <-deadline:
			return
		}
	}
}

func drain(c *MockClient) {
	for {
		select {
		case <-c.send:
		default:
			return
		}
	}
}
