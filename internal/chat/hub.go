package chat

import (
	"encoding/json"
	"log"
	"strings"

	"github.com/google/uuid"
)

// Hub is the connection gateway's dispatch loop. It owns the
// ephemeral membership table (which live connections are attending
// which room) and is the only goroutine that mutates it, so no event
// handler ever races on the room maps. Construct one at process start
// and hand it to the ws handler; there is no package-level instance.
type Hub struct {
	// rooms maps room id -> set of connections currently attending.
	// Distinct from the durable participant set in the room registry.
	rooms   map[uuid.UUID]map[*Client]bool
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	inbound    chan inboundEvent
	Quit       chan struct{}
}

// inboundEvent is one decoded client frame tagged with the connection
// it arrived on.
type inboundEvent struct {
	client   *Client
	envelope Envelope
}

// broadcast is the output of an event handler: a payload for every
// attending connection of a room except the originator.
type broadcast struct {
	roomID  uuid.UUID
	exclude *Client
	payload []byte
}

func NewHub() *Hub {
	log.Println("[HUB] Initializing new Hub instance...")
	return &Hub{
		rooms:      make(map[uuid.UUID]map[*Client]bool),
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inboundEvent, 256),
		Quit:       make(chan struct{}),
	}
}

// Register binds an authenticated connection to the hub.
func (h *Hub) Register(c *Client) {
	h.register <- c
}

// Unregister tears the connection down and removes it from every room
// it had joined.
func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

func (h *Hub) Run() {
	log.Println("[HUB] Main loop started. Listening for events...")
	for {
		select {
		case <-h.Quit:
			log.Println("[HUB] Quit signal received. Shutting down all client connections...")
			for client := range h.clients {
				h.cleanupClient(client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			log.Printf("[HUB] Registered connection for %s. Total active: %d", client.Name, len(h.clients))

		case client := <-h.unregister:
			h.cleanupClient(client)

		case in := <-h.inbound:
			for _, b := range h.handle(in) {
				h.deliver(b)
			}
		}
	}
}

// handle pattern-matches one inbound event and returns the broadcasts
// it produces. Events referencing rooms the connection never joined
// are dropped.
func (h *Hub) handle(in inboundEvent) []broadcast {
	c := in.client

	switch in.envelope.Event {
	case EventJoinChat:
		var ref roomRef
		if err := json.Unmarshal(in.envelope.Data, &ref); err != nil || ref.RoomID == uuid.Nil {
			return nil
		}
		return h.joinRoom(c, ref.RoomID)

	case EventLeaveChat:
		var ref roomRef
		if err := json.Unmarshal(in.envelope.Data, &ref); err != nil {
			return nil
		}
		h.leaveRoom(c, ref.RoomID)
		// No broadcast on explicit leave.
		return nil

	case EventSendMessage:
		var data sendMessageData
		if err := json.Unmarshal(in.envelope.Data, &data); err != nil {
			return nil
		}
		if !h.inRoom(c, data.RoomID) || len(strings.TrimSpace(string(data.Message))) == 0 {
			return nil
		}
		payload, err := json.Marshal(Envelope{Event: EventNewMessage, Data: data.Message})
		if err != nil {
			return nil
		}
		// Sender keeps its locally composed copy; it never re-receives
		// its own message.
		return []broadcast{{roomID: data.RoomID, exclude: c, payload: payload}}

	case EventTyping:
		return h.presenceEvent(c, in.envelope.Data, EventUserTyping, true)

	case EventStopTyping:
		return h.presenceEvent(c, in.envelope.Data, EventUserStopTyping, false)

	default:
		log.Printf("[HUB] Dropping unknown event %q from %s", in.envelope.Event, c.Name)
		return nil
	}
}

func (h *Hub) joinRoom(c *Client, roomID uuid.UUID) []broadcast {
	members, ok := h.rooms[roomID]
	if !ok {
		members = make(map[*Client]bool)
		h.rooms[roomID] = members
	}
	if members[c] {
		return nil
	}
	members[c] = true
	c.joined[roomID] = true
	log.Printf("[HUB] %s joined room %s (attending: %d)", c.Name, roomID, len(members))

	payload, err := marshalEnvelope(EventUserJoined, userRef{UserID: c.UserID, Name: c.Name})
	if err != nil {
		return nil
	}
	return []broadcast{{roomID: roomID, exclude: c, payload: payload}}
}

func (h *Hub) leaveRoom(c *Client, roomID uuid.UUID) {
	if members, ok := h.rooms[roomID]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
	delete(c.joined, roomID)
}

func (h *Hub) inRoom(c *Client, roomID uuid.UUID) bool {
	return c.joined[roomID]
}

// presenceEvent handles the stateless typing notifications. Typing
// carries the user's name; stop-typing only the id.
func (h *Hub) presenceEvent(c *Client, data json.RawMessage, outEvent string, withName bool) []broadcast {
	var ref roomRef
	if err := json.Unmarshal(data, &ref); err != nil || !h.inRoom(c, ref.RoomID) {
		return nil
	}

	who := userRef{UserID: c.UserID}
	if withName {
		who.Name = c.Name
	}
	payload, err := marshalEnvelope(outEvent, who)
	if err != nil {
		return nil
	}
	return []broadcast{{roomID: ref.RoomID, exclude: c, payload: payload}}
}

func (h *Hub) deliver(b broadcast) {
	members, ok := h.rooms[b.roomID]
	if !ok {
		return
	}
	for client := range members {
		if client == b.exclude {
			continue
		}
		select {
		case client.send <- b.payload:
		default:
			log.Printf("[HUB] WARNING: Client %s buffer full. Evicting slow consumer.", client.Name)
			go func(c *Client) { h.unregister <- c }(client)
		}
	}
}

func (h *Hub) cleanupClient(c *Client) {
	c.once.Do(func() {
		if _, ok := h.clients[c]; !ok {
			return
		}
		log.Printf("[HUB] Cleaning up resources for client: %s", c.Name)
		for roomID := range c.joined {
			h.leaveRoom(c, roomID)
		}
		delete(h.clients, c)
		if c.conn != nil {
			c.conn.Close()
		}
		close(c.send)
		log.Printf("[HUB] Session closed for %s. Active clients remaining: %d", c.Name, len(h.clients))
	})
}
