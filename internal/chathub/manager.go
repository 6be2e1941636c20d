// Package chathub contains the core of the pairing service: the connection
// registry, the matchmaking queue, the session and room tables, the
// reconnection grace handling and the message relay.
//
// Everything in here runs inside one hub goroutine (ManagerService.Run).
// Connection pumps, HTTP handlers and fired timers communicate with it
// exclusively through channels, so at most one handler mutates shared state
// at a time. That single-writer discipline is what makes the registry,
// queue, session and room structures safe without locks.
package chathub

import (
	"log"
	"time"

	"github.com/google/uuid"

	"pairgo/backend/internal/config"
	"pairgo/backend/internal/models"
)

// timerKind discriminates the scheduled callbacks the hub arms.
type timerKind int

const (
	// timerGrace closes a degraded room when a disconnected member fails to
	// come back in time.
	timerGrace timerKind = iota
	// timerIdle retires a session that stayed roomless and disconnected.
	timerIdle
	// timerQueueWait re-notifies a user that they are still queued.
	timerQueueWait
)

// timerEvent is a fired timer delivered into the hub loop. Gen is the
// session generation captured at schedule time; the handler no-ops when it
// no longer matches, which is the only cancellation mechanism timers have.
type timerEvent struct {
	Kind   timerKind
	UserID string
	Gen    uint64
}

// Stats is the health snapshot reported by the liveness endpoint.
type Stats struct {
	Connected   int `json:"connected"`
	QueueLen    int `json:"queue_len"`
	ActiveRooms int `json:"active_rooms"`
}

// ManagerService owns the queue, the session table and the room table.
// All other components go through its channels; none of these structures
// is reachable from outside the package.
type ManagerService struct {
	cfg config.Config

	registry *Registry
	queue    *Queue
	sessions map[string]*Session
	rooms    map[string]*Room
	limiter  *RateLimiter

	// Channels; the hub goroutine is the only consumer.
	IncomingCh   chan models.ClientEvent
	RegisterCh   chan Client
	UnregisterCh chan Client
	StatsCh      chan chan Stats

	timerCh chan timerEvent
	stopCh  chan struct{}
}

// NewManagerService builds a hub with the given configuration. Run must be
// started on its own goroutine before clients are registered.
func NewManagerService(cfg config.Config) *ManagerService {
	return &ManagerService{
		cfg:          cfg,
		registry:     NewRegistry(),
		queue:        NewQueue(),
		sessions:     make(map[string]*Session),
		rooms:        make(map[string]*Room),
		limiter:      NewRateLimiter(cfg.RateLimitCount, cfg.RateLimitWindow),
		IncomingCh:   make(chan models.ClientEvent),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		StatsCh:      make(chan chan Stats),
		timerCh:      make(chan timerEvent, 64),
		stopCh:       make(chan struct{}),
	}
}

// Run is the hub's main loop and serialization domain.
func (m *ManagerService) Run() {
	log.Println("Hub started.")

	reaper := time.NewTicker(m.cfg.ReaperInterval)
	defer reaper.Stop()

	for {
		select {
		case client := <-m.RegisterCh:
			m.handleRegister(client)
		case client := <-m.UnregisterCh:
			m.handleUnregister(client)
		case ev := <-m.IncomingCh:
			m.handleEvent(ev)
		case te := <-m.timerCh:
			m.handleTimer(te)
		case <-reaper.C:
			m.sweep()
		case reply := <-m.StatsCh:
			reply <- m.stats()
		case <-m.stopCh:
			return
		}
	}
}

// Stop terminates the hub loop. Pending timers still fire but their events
// are discarded.
func (m *ManagerService) Stop() {
	close(m.stopCh)
}

// Stats asks the running hub for a snapshot.
func (m *ManagerService) Stats() Stats {
	reply := make(chan Stats, 1)
	select {
	case m.StatsCh <- reply:
		return <-reply
	case <-m.stopCh:
		return Stats{}
	}
}

func (m *ManagerService) stats() Stats {
	return Stats{
		Connected:   m.registry.Count(),
		QueueLen:    m.queue.Len(),
		ActiveRooms: len(m.rooms),
	}
}

// scheduleTimer arms a one-shot timer that posts back into the hub loop.
// The generation captured here is what makes a later fire verifiable.
func (m *ManagerService) scheduleTimer(kind timerKind, userID string, gen uint64, d time.Duration) {
	time.AfterFunc(d, func() {
		select {
		case m.timerCh <- timerEvent{Kind: kind, UserID: userID, Gen: gen}:
		case <-m.stopCh:
		}
	})
}

// handleRegister binds a new connection handle, superseding any previous
// one, and restores room membership for a returning identity.
func (m *ManagerService) handleRegister(client Client) {
	userID := client.GetUserID()

	if old := m.registry.Bind(client); old != nil {
		// The previous handle is inert from this point on.
		old.Close()
	}

	sess, ok := m.sessions[userID]
	if !ok {
		sess = NewSession(userID)
		m.sessions[userID] = sess
		log.Printf("Session created for %s", userID)
	}
	// Rebinding invalidates any grace or idle timer armed for the old
	// handle.
	sess.Bump()

	if sess.RoomID == "" {
		return
	}

	room, exists := m.rooms[sess.RoomID]
	if !exists || room.State == RoomClosed {
		// The conversation ended while they were away.
		sess.RoomID = ""
		m.send(userID, models.ServerEvent{Type: models.EventChatEnded, Msg: msgConversationEnded})
		return
	}

	wasDegraded := room.State == RoomDegraded
	if wasDegraded && m.registry.IsLive(room.Other(userID)) {
		room.State = RoomActive
	}

	m.send(userID, models.ServerEvent{Type: models.EventConnectionRecovered, RoomID: room.ID})
	if wasDegraded {
		m.send(room.Other(userID), models.PartnerStatusEvent(models.StatusOnline, msgPartnerOnline))
	}
	log.Printf("Client %s rejoined room %s (%s)", userID, room.ID, room.State)
}

// handleUnregister processes a transport-level disconnect. Disconnects of
// superseded handles are ignored entirely; the identity already has a newer
// connection.
func (m *ManagerService) handleUnregister(client Client) {
	userID := client.GetUserID()
	if !m.registry.Unbind(userID, client) {
		return
	}
	client.Close()
	m.handleDrop(userID)
}

// handleDrop runs the disconnect consequences for an identity whose current
// handle just went away: degrade its room or start its idle countdown.
func (m *ManagerService) handleDrop(userID string) {
	sess, ok := m.sessions[userID]
	if !ok {
		return
	}

	m.queue.Remove(userID)

	if sess.RoomID != "" {
		room, exists := m.rooms[sess.RoomID]
		if exists && room.State != RoomClosed {
			room.State = RoomDegraded
			m.send(room.Other(userID), models.PartnerStatusEvent(models.StatusOffline, msgPartnerOffline))
			// Note: no generation bump here. The grace timer must stay
			// valid until the member reconnects or the room is torn down.
			m.scheduleTimer(timerGrace, userID, sess.Generation, m.cfg.GraceWindow)
			log.Printf("Room %s degraded, %s has %s to reconnect", room.ID, userID, m.cfg.GraceWindow)
			return
		}
		sess.RoomID = ""
	}

	m.scheduleTimer(timerIdle, userID, sess.Generation, m.cfg.SessionIdleTTL)
}

// handleTimer re-validates everything a fired timer depends on before
// acting. A mismatched generation means the world moved on; the fire is a
// no-op.
func (m *ManagerService) handleTimer(te timerEvent) {
	sess, ok := m.sessions[te.UserID]
	if !ok || sess.Generation != te.Gen {
		return
	}

	switch te.Kind {
	case timerGrace:
		if sess.RoomID == "" {
			return
		}
		room, exists := m.rooms[sess.RoomID]
		if !exists || room.State != RoomDegraded {
			return
		}
		log.Printf("Grace window expired for %s, closing room %s", te.UserID, room.ID)
		m.closeRoom(room)
		m.send(room.Other(te.UserID), models.ServerEvent{Type: models.EventPartnerLeft, Msg: msgPartnerLeft})

	case timerIdle:
		if sess.RoomID != "" || m.queue.Contains(te.UserID) || m.registry.IsLive(te.UserID) {
			return
		}
		delete(m.sessions, te.UserID)
		m.limiter.Forget(te.UserID)
		log.Printf("Idle session %s retired", te.UserID)

	case timerQueueWait:
		if !m.queue.Contains(te.UserID) {
			return
		}
		m.send(te.UserID, models.ServerEvent{
			Type:         models.EventQueueTimeout,
			Msg:          msgStillWaiting,
			WaitingCount: m.queue.Len(),
		})
	}
}

// handleStartChat runs the pairing operation for the requesting identity.
func (m *ManagerService) handleStartChat(userID string) {
	sess, ok := m.sessions[userID]
	if !ok {
		// Defensive: events only arrive from registered clients, but a
		// racing idle retirement could have removed the session.
		sess = NewSession(userID)
		m.sessions[userID] = sess
	}

	// A repeated start_chat while queued would create duplicate entries;
	// reject it. A start_chat while in a room instead abandons the room.
	if m.queue.Contains(userID) {
		m.send(userID, models.ErrorEvent(models.CodeAlreadyQueued, msgAlreadyQueued))
		return
	}

	if sess.RoomID != "" {
		if room, exists := m.rooms[sess.RoomID]; exists {
			m.closeRoom(room)
			m.send(room.Other(userID), models.ServerEvent{Type: models.EventPartnerLeft, Msg: msgPartnerLeft})
		} else {
			sess.RoomID = ""
		}
	}

	partner := m.queue.DequeueNextValid(userID, func(candidate string) bool {
		cand, ok := m.sessions[candidate]
		return ok && cand.RoomID == "" && m.registry.IsLive(candidate)
	})

	if partner == "" {
		m.queue.Enqueue(userID)
		m.send(userID, models.ServerEvent{Type: models.EventWaiting, Msg: msgWaiting})
		m.scheduleTimer(timerQueueWait, userID, sess.Generation, m.cfg.QueueWaitNotify)
		log.Printf("Client %s queued for pairing (queue length %d)", userID, m.queue.Len())
		return
	}

	m.createRoom(userID, partner)
}

// createRoom pairs the two identities into a fresh room and notifies both.
func (m *ManagerService) createRoom(a, b string) {
	room := &Room{
		ID:        uuid.New().String(),
		Members:   [2]string{a, b},
		State:     RoomActive,
		CreatedAt: time.Now(),
	}
	m.rooms[room.ID] = room

	sessA, sessB := m.sessions[a], m.sessions[b]
	sessA.RoomID = room.ID
	sessB.RoomID = room.ID
	// Cancels any pending queue-wait reminder for either side.
	sessA.Bump()
	sessB.Bump()

	matched := models.ServerEvent{
		Type:   models.EventMatched,
		RoomID: room.ID,
		Msg:    msgMatched,
		Topics: sampleTopics(),
	}
	m.send(a, matched)
	m.send(b, matched)

	log.Printf("Matched %s and %s in room %s", a, b, room.ID)
}

// closeRoom is the single place a room is torn down. It clears both
// members' room references, bumps their generations (invalidating grace
// timers), removes the room and starts idle countdowns for members with no
// live connection. Notifications are the caller's responsibility since they
// differ per path.
func (m *ManagerService) closeRoom(room *Room) {
	room.State = RoomClosed
	delete(m.rooms, room.ID)

	for _, member := range room.Members {
		sess, ok := m.sessions[member]
		if !ok || sess.RoomID != room.ID {
			continue
		}
		sess.RoomID = ""
		sess.Bump()
		if !m.registry.IsLive(member) {
			m.scheduleTimer(timerIdle, member, sess.Generation, m.cfg.SessionIdleTTL)
		}
	}
}

// sweep is the periodic housekeeping pass: stale queue entries, expired
// rate windows. Sessions owning a live room are never touched here.
func (m *ManagerService) sweep() {
	droppedEntries := m.queue.Prune(func(userID string) bool {
		return m.registry.IsLive(userID)
	})
	droppedWindows := m.limiter.Sweep(time.Now(), 10*m.cfg.RateLimitWindow)

	s := m.stats()
	log.Printf("Sweep: %d connected, %d queued, %d rooms (pruned %d queue entries, %d rate windows)",
		s.Connected, s.QueueLen, s.ActiveRooms, droppedEntries, droppedWindows)
}

// send delivers an event to the identity's current connection handle, if
// any. A client whose buffer is full is evicted rather than allowed to
// stall the hub.
func (m *ManagerService) send(userID string, ev models.ServerEvent) {
	client, ok := m.registry.Get(userID)
	if !ok {
		return
	}
	select {
	case client.GetSendChannel() <- ev:
	default:
		log.Printf("Client %s send buffer full, evicting", userID)
		m.registry.Unbind(userID, client)
		client.Close()
		m.handleDrop(userID)
	}
}
