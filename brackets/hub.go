package brackets

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// Event is the envelope for every message pushed to dashboard clients.
type Event struct {
	ID      string      `json:"id"`
	Type    string      `json:"type"`
	Room    string      `json:"room,omitempty"`
	Payload interface{} `json:"payload"`
}

const (
	EventBracketUpdated      = "BRACKET_UPDATED"
	EventTournamentCompleted = "TOURNAMENT_COMPLETED"
	EventTournamentCancelled = "TOURNAMENT_CANCELLED"
	EventAlert               = "ALERT"
)

// AlertRoom is the room operational alerts are broadcast to; tournament
// events use TournamentRoom(id).
const AlertRoom = "alerts"

// Hub fans events out to websocket clients grouped into rooms. Business
// operations never block on it: a slow client just misses messages.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	rooms      map[string]map[*Client]bool
	mu         sync.RWMutex
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.rooms[client.room]; !ok {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[client.room]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.rooms, client.room)
					}
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToRoom marshals the payload into an Event and delivers it to
// every client in the room. Clients whose send buffer is full are skipped.
func (h *Hub) BroadcastToRoom(room, eventType string, payload interface{}) {
	event := Event{
		ID:      uuid.NewString(),
		Type:    eventType,
		Room:    room,
		Payload: payload,
	}
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal hub event", slog.String("type", eventType), slog.Any("error", err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[room] {
		select {
		case client.send <- data:
		default:
		}
	}
}

func TournamentRoom(tournamentID int) string {
	return "tournament_" + strconv.Itoa(tournamentID)
}
