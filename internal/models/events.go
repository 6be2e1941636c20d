// Package models defines the wire-level events exchanged with clients over
// the realtime transport, plus the validation applied to inbound frames
// before any state mutation happens.
package models

// Inbound event types accepted from a connected client.
const (
	EventStartChat  = "start_chat"
	EventSendMsg    = "send_msg"
	EventTyping     = "typing"
	EventStopTyping = "stop_typing"
	EventMsgRead    = "msg_read"
	EventEndChat    = "end_chat"
)

// Outbound event types sent to clients.
const (
	EventMatched             = "matched"
	EventWaiting             = "waiting"
	EventQueueTimeout        = "queue_timeout"
	EventReceiveMsg          = "receive_msg"
	EventPartnerTyping       = "partner_typing"
	EventPartnerStopTyping   = "partner_stop_typing"
	EventPartnerRead         = "partner_read"
	EventPartnerLeft         = "partner_left"
	EventPartnerStatus       = "partner_status"
	EventConnectionRecovered = "connection_recovered"
	EventChatEnded           = "chat_ended"
	EventError               = "error"
)

// Partner presence values carried by partner_status events.
const (
	StatusOnline       = "online"
	StatusOffline      = "offline"
	StatusReconnecting = "reconnecting"
)

// Error codes carried by error events. Errors are reported only to the
// offending caller and never terminate anything.
const (
	CodeInvalidPayload = "invalid_payload"
	CodeRateLimited    = "rate_limited"
	CodeNotInRoom      = "not_in_room"
	CodeRoomMismatch   = "room_mismatch"
	CodeAlreadyQueued  = "already_queued"
	CodeAlreadyInRoom  = "already_in_room"
)

// ClientEvent is one inbound frame. SenderID is never taken from the wire;
// the connection's read pump stamps it from the authenticated identity.
type ClientEvent struct {
	SenderID string `json:"-"`
	Type     string `json:"type" validate:"required,oneof=start_chat send_msg typing stop_typing msg_read end_chat"`
	RoomID   string `json:"room_id,omitempty" validate:"omitempty,uuid4"`
	Msg      string `json:"msg,omitempty"`
}

// ServerEvent is one outbound frame. Only the fields relevant to the event
// type are populated; the rest are omitted from the JSON encoding.
type ServerEvent struct {
	Type         string   `json:"type"`
	RoomID       string   `json:"room_id,omitempty"`
	Msg          string   `json:"msg,omitempty"`
	Code         string   `json:"code,omitempty"`
	Status       string   `json:"status,omitempty"`
	Topics       []string `json:"topics,omitempty"`
	WaitingCount int      `json:"waiting_count,omitempty"`
	Timestamp    int64    `json:"timestamp,omitempty"`
}

// ErrorEvent builds the typed error notification for the offending caller.
func ErrorEvent(code, msg string) ServerEvent {
	return ServerEvent{Type: EventError, Code: code, Msg: msg}
}

// PartnerStatusEvent builds a soft presence notification for the peer.
func PartnerStatusEvent(status, msg string) ServerEvent {
	return ServerEvent{Type: EventPartnerStatus, Status: status, Msg: msg}
}
