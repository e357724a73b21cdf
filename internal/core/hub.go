package core

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/RahulSaini202/home-automation/internal/utils"
)

// Options tunes hub behaviour.
type Options struct {
	// DisconnectOnLeave terminates a client's session after it leaves a room
	// it was a member of. Existing dashboard clients rely on this.
	DisconnectOnLeave bool
	// ClientBuffer is the per-client outbound queue size.
	ClientBuffer int
}

// Hub is the connection registry and room router.
//
// All membership mutation happens under mu, so concurrent join/leave/retire on
// the same room cannot lose updates. Broadcasts only hold the read lock long
// enough to snapshot the recipients.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	rooms   map[string]*Room

	opts Options
	log  *zerolog.Logger
}

// NewHub creates an empty hub. A nil logger disables logging.
func NewHub(opts Options, logger *zerolog.Logger) *Hub {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]*Room),
		opts:    opts,
		log:     logger,
	}
}

// Run blocks until ctx is done, then terminates every admitted client.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()

	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[string]*Client)
	h.rooms = make(map[string]*Room)
	h.mu.Unlock()

	for _, c := range clients {
		c.Close("server shutting down")
	}
	h.log.Info().Int("clients", len(clients)).Msg("hub stopped")
}

// Admit registers a new client session and returns it. The client's ID is
// the connection id used for every subsequent room operation.
func (h *Hub) Admit() *Client {
	c := NewClient(utils.NewID(), h.opts.ClientBuffer)

	h.mu.Lock()
	h.clients[c.ID] = c
	total := len(h.clients)
	h.mu.Unlock()

	h.log.Debug().Str("client_id", c.ID).Int("clients", total).Msg("client admitted")
	return c
}

// Retire removes the client from every room it belongs to, then discards it.
// Retiring an unknown or already retired id is a no-op.
func (h *Hub) Retire(id string) {
	h.mu.Lock()
	c, ok := h.clients[id]
	if !ok {
		h.mu.Unlock()
		return
	}
	for name := range c.rooms {
		h.removeMemberLocked(c, name)
	}
	delete(h.clients, id)
	h.mu.Unlock()

	c.Close("retired")
	h.log.Debug().Str("client_id", id).Msg("client retired")
}

// Join adds the client to the room. Joining a room twice is not an error.
func (h *Hub) Join(id, room string) error {
	h.mu.Lock()
	c, ok := h.clients[id]
	if !ok {
		h.mu.Unlock()
		return fmt.Errorf("join %q: %w", room, ErrUnknownConnection)
	}
	r, exists := h.rooms[room]
	if !exists {
		r = NewRoom(room)
		h.rooms[room] = r
	}
	added := r.AddClient(c)
	c.rooms[room] = struct{}{}
	h.mu.Unlock()

	if added {
		h.log.Debug().Str("client_id", id).Str("room", room).Msg("room joined")
	}
	return nil
}

// Leave removes the client from the room. Leaving a room the client never
// joined is a no-op. With DisconnectOnLeave set, a client that actually left
// a room is notified and then has its session terminated.
func (h *Hub) Leave(id, room string) error {
	h.mu.Lock()
	c, ok := h.clients[id]
	if !ok {
		h.mu.Unlock()
		return fmt.Errorf("leave %q: %w", room, ErrUnknownConnection)
	}
	_, member := c.rooms[room]
	if member {
		h.removeMemberLocked(c, room)
	}
	h.mu.Unlock()

	if !member {
		return nil
	}
	h.log.Debug().Str("client_id", id).Str("room", room).Msg("room left")

	c.deliver(&Event{Kind: EventLeft, Room: room})
	if h.opts.DisconnectOnLeave {
		c.Close("left room " + room)
		h.Retire(id)
	}
	return nil
}

// Dispatch executes a client command.
func (h *Hub) Dispatch(c *Client, cmd *Command) error {
	switch cmd.Kind {
	case CommandJoinRoom:
		if err := h.Join(c.ID, cmd.Room); err != nil {
			return err
		}
		c.deliver(&Event{Kind: EventJoined, Room: cmd.Room})
		return nil
	case CommandLeaveRoom:
		return h.Leave(c.ID, cmd.Room)
	default:
		return fmt.Errorf("command %d: %w", cmd.Kind, ErrBadRequest)
	}
}

// Broadcast delivers ev to the members of room at the moment of the call and
// returns how many received it. Members that cannot take the event are
// dropped from the room.
func (h *Hub) Broadcast(room string, ev *Event) int {
	h.mu.RLock()
	r, ok := h.rooms[room]
	var members []*Client
	if ok {
		members = r.Members()
	}
	h.mu.RUnlock()

	out := *ev
	out.Room = room

	delivered := 0
	var failed []*Client
	for _, c := range members {
		if c.deliver(&out) {
			delivered++
			continue
		}
		failed = append(failed, c)
	}

	if len(failed) > 0 {
		h.mu.Lock()
		for _, c := range failed {
			if _, still := c.rooms[room]; still {
				h.removeMemberLocked(c, room)
			}
		}
		h.mu.Unlock()
		h.log.Debug().Str("room", room).Int("dropped", len(failed)).Msg("dropped unreachable members")
	}
	return delivered
}

// BroadcastGlobal delivers ev to every admitted client regardless of room.
func (h *Hub) BroadcastGlobal(ev *Event) int {
	h.mu.RLock()
	recipients := make([]*Client, 0, len(h.clients))
	for _, c := range h.clients {
		recipients = append(recipients, c)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, c := range recipients {
		if c.deliver(ev) {
			delivered++
		}
	}
	if delivered < len(recipients) {
		h.log.Debug().Str("event", ev.Kind.String()).Int("missed", len(recipients)-delivered).Msg("global broadcast partially delivered")
	}
	return delivered
}

// Members returns the sorted ids of the clients currently in room.
func (h *Hub) Members(room string) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	r, ok := h.rooms[room]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(r.clients))
	for c := range r.clients {
		ids = append(ids, c.ID)
	}
	sort.Strings(ids)
	return ids
}

// RoomsOf returns the sorted rooms a client belongs to.
func (h *Hub) RoomsOf(id string) ([]string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	c, ok := h.clients[id]
	if !ok {
		return nil, ErrUnknownConnection
	}
	rooms := make([]string, 0, len(c.rooms))
	for name := range c.rooms {
		rooms = append(rooms, name)
	}
	sort.Strings(rooms)
	return rooms, nil
}

// Stats reports the number of non-empty rooms and admitted clients.
func (h *Hub) Stats() (rooms, clients int) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms), len(h.clients)
}

// removeMemberLocked drops c from room, deleting the room once empty.
// Caller must hold h.mu for writing.
func (h *Hub) removeMemberLocked(c *Client, room string) {
	delete(c.rooms, room)
	r, ok := h.rooms[room]
	if !ok {
		return
	}
	r.RemoveClient(c)
	if r.Empty() {
		delete(h.rooms, room)
	}
}
