package services

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Hub groups websocket connections into rooms and fans events out to them.
// It owns no game state; everything room-related goes through the
// orchestrator.
type Hub struct {
	clients      map[*Client]bool
	register     chan *Client
	unregister   chan *Client
	mutex        sync.RWMutex
	orchestrator *Orchestrator
}

type Client struct {
	hub        *Hub
	id         string
	socket     *websocket.Conn
	send       chan []byte
	roomCode   string
	playerID   string
	playerName string
}

// Message is the envelope for every event in both directions.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type outboundMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// SetOrchestrator wires the event handler in after construction; the
// orchestrator needs the hub as its broadcaster first.
func (h *Hub) SetOrchestrator(o *Orchestrator) {
	h.orchestrator = o
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			log.Printf("Client registered: %s - Total clients: %d", client.id, h.clientCount())

		case client := <-h.unregister:
			h.mutex.Lock()
			_, ok := h.clients[client]
			if ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mutex.Unlock()

			if ok {
				log.Printf("Client unregistered: %s (room %s, player %s) - Total clients: %d",
					client.id, client.roomCode, client.playerID, h.clientCount())
				if h.orchestrator != nil {
					h.orchestrator.HandleDisconnect(context.Background(), client.roomCode, client.playerID)
				}
			}
		}
	}
}

func (h *Hub) clientCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// EmitToRoom sends an event to every connection in a room.
func (h *Hub) EmitToRoom(roomCode, event string, payload interface{}) {
	data, err := json.Marshal(outboundMessage{Type: event, Payload: payload})
	if err != nil {
		log.Printf("Error marshaling %s message: %v", event, err)
		return
	}

	h.mutex.RLock()
	defer h.mutex.RUnlock()
	for client := range h.clients {
		if strings.EqualFold(client.roomCode, roomCode) {
			select {
			case client.send <- data:
			default:
				log.Printf("Client %s send buffer full, dropping %s", client.id, event)
			}
		}
	}
}

// RegisterClient attaches a websocket connection to the hub and starts its
// pumps. playerID may be empty for a not-yet-identified connection; it is
// filled in when the client creates or joins a game.
func (h *Hub) RegisterClient(conn *websocket.Conn, playerID, playerName string) *Client {
	client := &Client{
		hub:        h,
		id:         uuid.NewString(),
		socket:     conn,
		send:       make(chan []byte, 256),
		playerID:   playerID,
		playerName: playerName,
	}

	h.register <- client

	go client.writePump()
	go client.readPump()

	return client
}

// Emit sends an event to this connection only.
func (c *Client) Emit(event string, payload interface{}) {
	data, err := json.Marshal(outboundMessage{Type: event, Payload: payload})
	if err != nil {
		log.Printf("Error marshaling %s message: %v", event, err)
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("Client %s send buffer full, dropping %s", c.id, event)
	}
}

func (c *Client) JoinRoom(roomCode string) {
	c.roomCode = roomCode
}

func (c *Client) LeaveRoom(roomCode string) {
	if strings.EqualFold(c.roomCode, roomCode) {
		c.roomCode = ""
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.socket.Close()
	}()

	for {
		_, data, err := c.socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("Error unmarshaling message from %s: %v", c.id, err)
			c.Emit(EventError, ErrorPayload{Message: "Malformed message"})
			continue
		}

		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	defer c.socket.Close()

	for message := range c.send {
		if err := c.socket.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.socket.WriteMessage(websocket.CloseMessage, []byte{})
}

// handleMessage validates the payload for the event and dispatches it to the
// orchestrator. Any validation failure is reported only to this connection.
func (c *Client) handleMessage(msg Message) {
	o := c.hub.orchestrator
	if o == nil {
		c.Emit(EventError, ErrorPayload{Message: "Service not ready"})
		return
	}
	ctx := context.Background()

	switch msg.Type {
	case "ping":
		c.Emit("pong", nil)

	case EventCreateGame:
		var m CreateGameMessage
		if !c.decode(msg, &m, m.Validate) {
			return
		}
		c.playerID = m.HostID
		o.HandleCreateGame(ctx, c, m)

	case EventJoinGame:
		var m JoinGameMessage
		if !c.decode(msg, &m, m.Validate) {
			return
		}
		c.playerID = m.Player.ID
		c.playerName = m.Player.Name
		o.HandleJoinGame(ctx, c, m)

	case EventLeaveGame:
		var m LeaveGameMessage
		if !c.decode(msg, &m, m.Validate) {
			return
		}
		o.HandleLeaveGame(ctx, c, m)

	case EventStartGame:
		var m RoomMessage
		if !c.decode(msg, &m, m.Validate) {
			return
		}
		o.HandleStartGame(ctx, c, m)

	case EventSubmitAnswer:
		var m SubmitAnswerMessage
		if !c.decode(msg, &m, m.Validate) {
			return
		}
		o.HandleSubmitAnswer(ctx, c, m)

	case EventNextQuestion:
		var m RoomMessage
		if !c.decode(msg, &m, m.Validate) {
			return
		}
		o.HandleNextQuestion(ctx, c, m)

	case EventGetLeaderboard:
		var m RoomMessage
		if !c.decode(msg, &m, m.Validate) {
			return
		}
		o.HandleGetLeaderboard(ctx, c, m)

	case EventGetCurrentQuestion:
		var m RoomMessage
		if !c.decode(msg, &m, m.Validate) {
			return
		}
		o.HandleGetCurrentQuestion(ctx, c, m)

	default:
		log.Printf("Unknown message type %q from client %s", msg.Type, c.id)
		c.Emit(EventError, ErrorPayload{Message: "Unknown event"})
	}
}

type validator func() error

func (c *Client) decode(msg Message, out interface{}, validate validator) bool {
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, out); err != nil {
			c.Emit(EventError, ErrorPayload{Message: "Malformed " + msg.Type + " payload"})
			return false
		}
	}
	if err := validate(); err != nil {
		c.Emit(EventError, ErrorPayload{Message: err.Error()})
		return false
	}
	return true
}
