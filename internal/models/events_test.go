package models_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"pairgo/backend/internal/models"
)

func TestValidateAcceptsKnownEventTypes(t *testing.T) {
	for _, eventType := range []string{
		models.EventStartChat,
		models.EventSendMsg,
		models.EventTyping,
		models.EventStopTyping,
		models.EventMsgRead,
		models.EventEndChat,
	} {
		ev := models.ClientEvent{Type: eventType}
		assert.NoError(t, ev.Validate(), "type %q", eventType)
	}
}

func TestValidateRejectsUnknownType(t *testing.T) {
	ev := models.ClientEvent{Type: "drop_tables"}
	assert.Error(t, ev.Validate())
}

func TestValidateRejectsMissingType(t *testing.T) {
	ev := models.ClientEvent{Msg: "hello"}
	assert.Error(t, ev.Validate())
}

func TestValidateRoomID(t *testing.T) {
	ev := models.ClientEvent{Type: models.EventSendMsg, RoomID: uuid.New().String(), Msg: "hi"}
	assert.NoError(t, ev.Validate())

	ev.RoomID = "not-a-room-id"
	assert.Error(t, ev.Validate())
}
