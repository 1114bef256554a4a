package chat

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

// newMockClient builds a client without a live websocket connection.
// Tests drive the hub's handler directly, so no pumps run.
func newMockClient(hub *Hub, name string) *Client {
	c := &Client{
		hub:    hub,
		conn:   nil,
		UserID: uuid.New(),
		Name:   name,
		send:   make(chan []byte, 16),
		joined: make(map[uuid.UUID]bool),
	}
	hub.clients[c] = true
	return c
}

func event(t *testing.T, name string, data any) inboundEvent {
	t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal event data: %v", err)
	}
	return inboundEvent{envelope: Envelope{Event: name, Data: raw}}
}

func dispatch(h *Hub, c *Client, in inboundEvent) {
	in.client = c
	for _, b := range h.handle(in) {
		h.deliver(b)
	}
}

func received(t *testing.T, c *Client) *Envelope {
	t.Helper()
	select {
	case raw := <-c.send:
		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("received frame is not an envelope: %v", err)
		}
		return &env
	default:
		return nil
	}
}

func TestJoinRegistersAndNotifiesOthers(t *testing.T) {
	hub := NewHub()
	roomID := uuid.New()

	alice := newMockClient(hub, "Alice")
	bob := newMockClient(hub, "Bob")

	dispatch(hub, alice, event(t, EventJoinChat, roomRef{RoomID: roomID}))
	if env := received(t, alice); env != nil {
		t.Errorf("first joiner should not receive a broadcast, got %s", env.Event)
	}

	dispatch(hub, bob, event(t, EventJoinChat, roomRef{RoomID: roomID}))

	env := received(t, alice)
	if env == nil || env.Event != EventUserJoined {
		t.Fatalf("expected user-joined at Alice, got %v", env)
	}
	var who userRef
	if err := json.Unmarshal(env.Data, &who); err != nil {
		t.Fatal(err)
	}
	if who.UserID != bob.UserID || who.Name != "Bob" {
		t.Errorf("user-joined should carry the joiner, got %+v", who)
	}

	if env := received(t, bob); env != nil {
		t.Errorf("joiner must not receive its own user-joined, got %s", env.Event)
	}

	if len(hub.rooms[roomID]) != 2 {
		t.Errorf("expected 2 attending connections, got %d", len(hub.rooms[roomID]))
	}
}

func TestSendMessageExcludesSender(t *testing.T) {
	hub := NewHub()
	roomID := uuid.New()

	alice := newMockClient(hub, "Alice")
	bob := newMockClient(hub, "Bob")
	dispatch(hub, alice, event(t, EventJoinChat, roomRef{RoomID: roomID}))
	dispatch(hub, bob, event(t, EventJoinChat, roomRef{RoomID: roomID}))
	received(t, alice) // drain Bob's join notification

	stored := json.RawMessage(`{"id":"m1","originalText":"Hello"}`)
	dispatch(hub, alice, event(t, EventSendMessage, sendMessageData{RoomID: roomID, Message: stored}))

	env := received(t, bob)
	if env == nil || env.Event != EventNewMessage {
		t.Fatalf("expected new-message at Bob, got %v", env)
	}
	if string(env.Data) != string(stored) {
		t.Errorf("broadcast must carry the stored message verbatim, got %s", env.Data)
	}

	if env := received(t, alice); env != nil {
		t.Errorf("sender must never re-receive its own broadcast, got %s", env.Event)
	}
}

func TestSendMessageRequiresMembership(t *testing.T) {
	hub := NewHub()
	roomID := uuid.New()

	alice := newMockClient(hub, "Alice")
	bob := newMockClient(hub, "Bob")
	dispatch(hub, bob, event(t, EventJoinChat, roomRef{RoomID: roomID}))

	// Alice never joined the room on this connection.
	dispatch(hub, alice, event(t, EventSendMessage, sendMessageData{
		RoomID:  roomID,
		Message: json.RawMessage(`{"originalText":"sneaky"}`),
	}))

	if env := received(t, bob); env != nil {
		t.Errorf("events for rooms the connection never joined must be dropped, got %s", env.Event)
	}
}

func TestTypingEvents(t *testing.T) {
	hub := NewHub()
	roomID := uuid.New()

	alice := newMockClient(hub, "Alice")
	bob := newMockClient(hub, "Bob")
	dispatch(hub, alice, event(t, EventJoinChat, roomRef{RoomID: roomID}))
	dispatch(hub, bob, event(t, EventJoinChat, roomRef{RoomID: roomID}))
	received(t, alice)

	dispatch(hub, alice, event(t, EventTyping, roomRef{RoomID: roomID}))
	env := received(t, bob)
	if env == nil || env.Event != EventUserTyping {
		t.Fatalf("expected user-typing at Bob, got %v", env)
	}
	var who userRef
	json.Unmarshal(env.Data, &who)
	if who.Name != "Alice" {
		t.Errorf("typing should carry the typist's name, got %+v", who)
	}

	dispatch(hub, alice, event(t, EventStopTyping, roomRef{RoomID: roomID}))
	env = received(t, bob)
	if env == nil || env.Event != EventUserStopTyping {
		t.Fatalf("expected user-stop-typing at Bob, got %v", env)
	}
	if env := received(t, alice); env != nil {
		t.Errorf("typist must not receive their own typing events, got %s", env.Event)
	}
}

func TestLeaveIsSilent(t *testing.T) {
	hub := NewHub()
	roomID := uuid.New()

	alice := newMockClient(hub, "Alice")
	bob := newMockClient(hub, "Bob")
	dispatch(hub, alice, event(t, EventJoinChat, roomRef{RoomID: roomID}))
	dispatch(hub, bob, event(t, EventJoinChat, roomRef{RoomID: roomID}))
	received(t, alice)

	dispatch(hub, bob, event(t, EventLeaveChat, roomRef{RoomID: roomID}))

	if env := received(t, alice); env != nil {
		t.Errorf("explicit leave must not broadcast, got %s", env.Event)
	}
	if hub.rooms[roomID][bob] {
		t.Error("leaver should be deregistered from the room")
	}
}

func TestDisconnectDeregistersFromAllRooms(t *testing.T) {
	hub := NewHub()
	room1 := uuid.New()
	room2 := uuid.New()

	alice := newMockClient(hub, "Alice")
	bob := newMockClient(hub, "Bob")
	dispatch(hub, alice, event(t, EventJoinChat, roomRef{RoomID: room1}))
	dispatch(hub, alice, event(t, EventJoinChat, roomRef{RoomID: room2}))
	dispatch(hub, bob, event(t, EventJoinChat, roomRef{RoomID: room1}))
	received(t, alice)

	hub.cleanupClient(alice)

	if hub.rooms[room1][alice] || hub.rooms[room2][alice] {
		t.Error("disconnect must remove the connection from every joined room")
	}
	// No user-left event exists; peers are not notified.
	if env := received(t, bob); env != nil {
		t.Errorf("disconnect must not broadcast, got %s", env.Event)
	}
	if _, ok := <-alice.send; ok {
		t.Error("send channel should be closed after cleanup")
	}
}

func TestJoinTwiceIsNoop(t *testing.T) {
	hub := NewHub()
	roomID := uuid.New()

	alice := newMockClient(hub, "Alice")
	bob := newMockClient(hub, "Bob")
	dispatch(hub, alice, event(t, EventJoinChat, roomRef{RoomID: roomID}))
	dispatch(hub, bob, event(t, EventJoinChat, roomRef{RoomID: roomID}))
	received(t, alice)

	dispatch(hub, bob, event(t, EventJoinChat, roomRef{RoomID: roomID}))

	if env := received(t, alice); env != nil {
		t.Errorf("re-joining an attended room must not re-broadcast, got %s", env.Event)
	}
	if len(hub.rooms[roomID]) != 2 {
		t.Errorf("expected 2 attending connections, got %d", len(hub.rooms[roomID]))
	}
}

func TestUnknownEventDropped(t *testing.T) {
	hub := NewHub()
	alice := newMockClient(hub, "Alice")

	dispatch(hub, alice, event(t, "self-destruct", roomRef{}))

	if env := received(t, alice); env != nil {
		t.Errorf("unknown events must be dropped, got %s", env.Event)
	}
}
