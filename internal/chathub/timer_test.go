package chathub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pairgo/backend/internal/config"
	"pairgo/backend/internal/models"
)

// stubClient is a minimal in-package connection handle for driving the hub
// handlers synchronously, without the Run loop.
type stubClient struct {
	id     string
	send   chan models.ServerEvent
	closed bool
}

func newStubClient(id string) *stubClient {
	return &stubClient{id: id, send: make(chan models.ServerEvent, 16)}
}

func (c *stubClient) GetUserID() string                         { return c.id }
func (c *stubClient) GetSendChannel() chan<- models.ServerEvent { return c.send }
func (c *stubClient) Run()                                      {}

func (c *stubClient) Close() {
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// quietConfig uses hour-scale timers so only manually injected timer events
// have any effect during the test.
func quietConfig() config.Config {
	return config.Config{
		GraceWindow:     time.Hour,
		QueueWaitNotify: time.Hour,
		SessionIdleTTL:  time.Hour,
		RateLimitCount:  5,
		RateLimitWindow: time.Second,
		MaxMessageLen:   200,
		ReaperInterval:  time.Hour,
	}
}

// pairStubs registers two stubs and pairs them through the real handlers.
func pairStubs(t *testing.T, m *ManagerService, a, b *stubClient) *Room {
	t.Helper()
	m.handleRegister(a)
	m.handleRegister(b)
	m.handleStartChat(a.id)
	m.handleStartChat(b.id)

	sess := m.sessions[a.id]
	require.NotEmpty(t, sess.RoomID, "pairing must bind a room")
	room := m.rooms[sess.RoomID]
	require.NotNil(t, room)
	require.Equal(t, room.ID, m.sessions[b.id].RoomID)
	return room
}

func TestIdleTimerRetiresSession(t *testing.T) {
	m := NewManagerService(quietConfig())
	c := newStubClient("user_a")

	m.handleRegister(c)
	m.handleUnregister(c)

	sess, ok := m.sessions["user_a"]
	require.True(t, ok, "session survives the disconnect itself")

	m.handleTimer(timerEvent{Kind: timerIdle, UserID: "user_a", Gen: sess.Generation})
	_, ok = m.sessions["user_a"]
	assert.False(t, ok, "idle fire on the current generation retires the session")
}

func TestStaleIdleTimerIsNoOp(t *testing.T) {
	m := NewManagerService(quietConfig())
	c1 := newStubClient("user_a")

	m.handleRegister(c1)
	m.handleUnregister(c1)
	staleGen := m.sessions["user_a"].Generation

	// The user comes back; the rebind bumps the generation.
	m.handleRegister(newStubClient("user_a"))

	m.handleTimer(timerEvent{Kind: timerIdle, UserID: "user_a", Gen: staleGen})
	_, ok := m.sessions["user_a"]
	assert.True(t, ok, "a timer tagged with a stale generation must not act")
}

func TestGraceTimerClosesDegradedRoom(t *testing.T) {
	m := NewManagerService(quietConfig())
	a, b := newStubClient("user_a"), newStubClient("user_b")
	room := pairStubs(t, m, a, b)

	m.handleUnregister(b)
	assert.Equal(t, RoomDegraded, room.State)

	m.handleTimer(timerEvent{Kind: timerGrace, UserID: "user_b", Gen: m.sessions["user_b"].Generation})

	assert.Empty(t, m.rooms)
	assert.Empty(t, m.sessions["user_a"].RoomID)
	assert.Empty(t, m.sessions["user_b"].RoomID)
}

func TestGraceTimerStaleAfterReconnect(t *testing.T) {
	m := NewManagerService(quietConfig())
	a, b := newStubClient("user_a"), newStubClient("user_b")
	room := pairStubs(t, m, a, b)

	m.handleUnregister(b)
	staleGen := m.sessions["user_b"].Generation

	m.handleRegister(newStubClient("user_b"))
	assert.Equal(t, RoomActive, room.State)

	m.handleTimer(timerEvent{Kind: timerGrace, UserID: "user_b", Gen: staleGen})
	assert.Len(t, m.rooms, 1, "the reconnect invalidated the grace timer")
	assert.Equal(t, room.ID, m.sessions["user_b"].RoomID)
}

func TestGraceTimerStaleAfterExplicitEnd(t *testing.T) {
	m := NewManagerService(quietConfig())
	a, b := newStubClient("user_a"), newStubClient("user_b")
	pairStubs(t, m, a, b)

	m.handleUnregister(b)
	staleGen := m.sessions["user_b"].Generation

	// The present member ends the chat before the grace window runs out.
	m.handleEndChat("user_a")
	require.Empty(t, m.rooms)

	m.handleTimer(timerEvent{Kind: timerGrace, UserID: "user_b", Gen: staleGen})
	assert.Empty(t, m.sessions["user_b"].RoomID)
}

func TestIdleTimerSparesRoomOwners(t *testing.T) {
	m := NewManagerService(quietConfig())
	a, b := newStubClient("user_a"), newStubClient("user_b")
	room := pairStubs(t, m, a, b)

	// Even a fire with the live generation must not retire a session that
	// is bound to a room.
	m.handleTimer(timerEvent{Kind: timerIdle, UserID: "user_a", Gen: m.sessions["user_a"].Generation})
	assert.Contains(t, m.sessions, "user_a")
	assert.Equal(t, room.ID, m.sessions["user_a"].RoomID)
}

func TestQueueWaitTimerOnlyWhileQueued(t *testing.T) {
	m := NewManagerService(quietConfig())
	a := newStubClient("user_a")

	m.handleRegister(a)
	m.handleStartChat("user_a")
	<-a.send // waiting notification
	gen := m.sessions["user_a"].Generation

	m.handleTimer(timerEvent{Kind: timerQueueWait, UserID: "user_a", Gen: gen})
	ev := <-a.send
	assert.Equal(t, models.EventQueueTimeout, ev.Type)
	assert.Equal(t, 1, ev.WaitingCount)

	// Once dequeued, even a generation-matching fire stays silent.
	m.queue.Remove("user_a")
	m.handleTimer(timerEvent{Kind: timerQueueWait, UserID: "user_a", Gen: gen})
	assert.Empty(t, a.send)
}

func TestSweepPrunesDeadState(t *testing.T) {
	m := NewManagerService(quietConfig())

	// A queue entry with no live handle and a long-idle rate window.
	m.queue.Enqueue("ghost")
	m.limiter.Allow("ghost", time.Now().Add(-time.Hour))

	// A connected, queued user must survive the sweep.
	m.handleRegister(newStubClient("user_a"))
	m.handleStartChat("user_a")

	m.sweep()

	assert.False(t, m.queue.Contains("ghost"))
	assert.True(t, m.queue.Contains("user_a"))
	assert.Equal(t, 0, m.limiter.TrackedCount())
}

func TestSessionInvariantsAfterPairing(t *testing.T) {
	m := NewManagerService(quietConfig())
	a, b := newStubClient("user_a"), newStubClient("user_b")
	room := pairStubs(t, m, a, b)

	// Every identity with a bound room is a member of it, and neither
	// member is still queued.
	for _, id := range []string{"user_a", "user_b"} {
		assert.True(t, room.Has(id))
		assert.False(t, m.queue.Contains(id))
	}
	assert.NotEqual(t, room.Members[0], room.Members[1])
	assert.Equal(t, "user_b", room.Other("user_a"))
	assert.Equal(t, "", room.Other("stranger"))
}
