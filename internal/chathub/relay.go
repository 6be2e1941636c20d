package chathub

import (
	"log"
	"time"

	"pairgo/backend/internal/models"
)

// forwarded maps payload-free inbound events to the partner-facing
// notification they become.
var forwarded = map[string]string{
	models.EventTyping:     models.EventPartnerTyping,
	models.EventStopTyping: models.EventPartnerStopTyping,
	models.EventMsgRead:    models.EventPartnerRead,
}

// handleEvent validates and dispatches one inbound frame. Nothing a caller
// sends can be fatal; at worst they get an error event back.
func (m *ManagerService) handleEvent(ev models.ClientEvent) {
	if err := ev.Validate(); err != nil {
		log.Printf("Invalid event from %s: %v", ev.SenderID, err)
		m.send(ev.SenderID, models.ErrorEvent(models.CodeInvalidPayload, msgInvalidPayload))
		return
	}

	switch ev.Type {
	case models.EventStartChat:
		m.handleStartChat(ev.SenderID)
	case models.EventSendMsg:
		m.handleSendMsg(ev)
	case models.EventTyping, models.EventStopTyping, models.EventMsgRead:
		m.handleForward(ev)
	case models.EventEndChat:
		m.handleEndChat(ev.SenderID)
	}
}

// handleSendMsg relays a chat message to the sender's partner: content
// policy first, then the rate cap, then room membership. Oversized content
// is rejected, never truncated, and a rejected send records nothing in the
// rate window.
func (m *ManagerService) handleSendMsg(ev models.ClientEvent) {
	if ev.Msg == "" || len(ev.Msg) > m.cfg.MaxMessageLen {
		m.send(ev.SenderID, models.ErrorEvent(models.CodeInvalidPayload, msgMessageTooLong))
		return
	}

	if !m.limiter.Allow(ev.SenderID, time.Now()) {
		m.send(ev.SenderID, models.ErrorEvent(models.CodeRateLimited, msgRateLimited))
		return
	}

	room, errEv := m.callerRoom(ev.SenderID, ev.RoomID)
	if room == nil {
		m.send(ev.SenderID, errEv)
		return
	}

	m.send(room.Other(ev.SenderID), models.ServerEvent{
		Type:      models.EventReceiveMsg,
		Msg:       ev.Msg,
		Timestamp: time.Now().UnixMilli(),
	})
}

// handleForward relays typing / stop_typing / msg_read through the same
// room lookup as messages, without rate limiting or content checks.
func (m *ManagerService) handleForward(ev models.ClientEvent) {
	room, errEv := m.callerRoom(ev.SenderID, ev.RoomID)
	if room == nil {
		m.send(ev.SenderID, errEv)
		return
	}
	m.send(room.Other(ev.SenderID), models.ServerEvent{Type: forwarded[ev.Type]})
}

// handleEndChat explicitly closes the caller's room, bypassing any grace
// period. Ending an already-ended conversation is NotInRoom and changes
// nothing.
func (m *ManagerService) handleEndChat(userID string) {
	sess, ok := m.sessions[userID]
	if !ok || sess.RoomID == "" {
		m.send(userID, models.ErrorEvent(models.CodeNotInRoom, msgNotInRoom))
		return
	}

	room, exists := m.rooms[sess.RoomID]
	if !exists {
		sess.RoomID = ""
		m.send(userID, models.ErrorEvent(models.CodeNotInRoom, msgNotInRoom))
		return
	}

	other := room.Other(userID)
	m.closeRoom(room)
	m.send(userID, models.ServerEvent{Type: models.EventChatEnded, Msg: msgChatEnded})
	m.send(other, models.ServerEvent{Type: models.EventPartnerLeft, Msg: msgPartnerLeft})
	log.Printf("Client %s ended room %s", userID, room.ID)
}

// callerRoom resolves the caller's bound room, checking any room id the
// frame carried against it. On failure it returns nil and the error event
// owed to the caller.
func (m *ManagerService) callerRoom(userID, claimedRoomID string) (*Room, models.ServerEvent) {
	sess, ok := m.sessions[userID]
	if !ok || sess.RoomID == "" {
		return nil, models.ErrorEvent(models.CodeNotInRoom, msgNotInRoom)
	}
	if claimedRoomID != "" && claimedRoomID != sess.RoomID {
		return nil, models.ErrorEvent(models.CodeRoomMismatch, msgRoomMismatch)
	}
	room, exists := m.rooms[sess.RoomID]
	if !exists || room.State == RoomClosed {
		return nil, models.ErrorEvent(models.CodeNotInRoom, msgNotInRoom)
	}
	return room, models.ServerEvent{}
}
