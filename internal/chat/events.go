package chat

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Inbound event names, as sent by clients after the handshake.
const (
	EventJoinChat    = "join-chat"
	EventLeaveChat   = "leave-chat"
	EventSendMessage = "send-message"
	EventTyping      = "typing"
	EventStopTyping  = "stop-typing"
)

// Outbound event names pushed to the other members of a room.
const (
	EventUserJoined     = "user-joined"
	EventNewMessage     = "new-message"
	EventUserTyping     = "user-typing"
	EventUserStopTyping = "user-stop-typing"
	EventSystem         = "system"
)

// Envelope is the wire frame for both directions: a tag plus an
// event-specific payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func marshalEnvelope(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}

// roomRef is the payload of join-chat, leave-chat, typing and
// stop-typing.
type roomRef struct {
	RoomID uuid.UUID `json:"roomId"`
}

// sendMessageData carries an already-persisted message. The HTTP
// write path is authoritative; the gateway only fans the stored fact
// out to the rest of the room.
type sendMessageData struct {
	RoomID  uuid.UUID       `json:"roomId"`
	Message json.RawMessage `json:"message"`
}

// userRef identifies the acting user in user-joined and user-typing
// notifications.
type userRef struct {
	UserID uuid.UUID `json:"userId"`
	Name   string    `json:"name,omitempty"`
}
