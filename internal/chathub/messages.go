package chathub

// Canned user-facing copy for lifecycle notifications. Kept in one place so
// the wording can change without touching handler logic.
const (
	msgWaiting           = "Looking for a partner, hang tight..."
	msgStillWaiting      = "Still looking for a partner. You are in the queue."
	msgMatched           = "Partner found! Say hello."
	msgPartnerLeft       = "Your partner left the conversation."
	msgChatEnded         = "You ended the conversation."
	msgConversationEnded = "Your previous conversation has ended."
	msgPartnerOffline    = "Your partner went offline, waiting for them to reconnect."
	msgPartnerOnline     = "Your partner is back online."
	msgMessageTooLong    = "Message is empty or exceeds the allowed length."
	msgRateLimited       = "You are sending messages too quickly."
	msgNotInRoom         = "You are not in a conversation."
	msgRoomMismatch      = "That room is not your current conversation."
	msgAlreadyQueued     = "You are already in the queue."
	msgInvalidPayload    = "Malformed event payload."
)
