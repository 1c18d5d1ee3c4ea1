package notifier

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"StrikeZones/internal/model"
	"StrikeZones/internal/refresh"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 8
)

// Message is the envelope pushed to every connected dashboard.
type Message struct {
	Type    string                   `json:"type"`
	Summary string                   `json:"summary,omitempty"`
	Result  *refresh.Result          `json:"result,omitempty"`
	Panel   []model.ChartDescription `json:"panel,omitempty"`
	Error   string                   `json:"error,omitempty"`
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// Hub pushes accepted refresh results to connected WebSocket clients. A result older
// than the last one pushed is dropped.
type Hub struct {
	mu      sync.Mutex
	clients map[string]*client
	latest  refresh.Latest
}

// NewHub creates an empty Hub.
func NewHub() *Hub {
	return &Hub{clients: make(map[string]*client)}
}

// Publish offers res to the last-write-wins gate and broadcasts it when accepted.
func (h *Hub) Publish(res refresh.Result) bool {
	if !h.latest.Offer(res) {
		log.Debugf("dropping stale refresh %d", res.Seq)
		return false
	}
	payload, err := json.Marshal(Message{Type: "refresh", Summary: FormatSummary(res), Result: &res})
	if err != nil {
		log.Errorf("marshal refresh %d: %v", res.Seq, err)
		return true
	}
	h.broadcast(payload)
	return true
}

// PublishPanel broadcasts the mini-chart basket.
func (h *Hub) PublishPanel(charts []model.ChartDescription) {
	payload, err := json.Marshal(Message{Type: "panel", Panel: charts})
	if err != nil {
		log.Errorf("marshal panel: %v", err)
		return
	}
	h.broadcast(payload)
}

// Latest returns the newest published result.
func (h *Hub) Latest() (refresh.Result, bool) {
	return h.latest.Get()
}

// Clients returns the number of connected clients. Used for diagnostics.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) broadcast(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		select {
		case c.send <- payload:
		default:
			log.Warnf("client %s too slow, disconnecting", id)
			h.removeLocked(id)
		}
	}
}

func (h *Hub) register(conn *websocket.Conn) *client {
	c := &client{id: uuid.NewString(), conn: conn, send: make(chan []byte, sendBuffer)}
	// New clients get the current chart straight away.
	if res, ok := h.latest.Get(); ok {
		if payload, err := json.Marshal(Message{Type: "refresh", Summary: FormatSummary(res), Result: &res}); err == nil {
			c.send <- payload
		}
	}

	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	log.Infof("client %s connected", c.id)
	return c
}

func (h *Hub) unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(id)
}

func (h *Hub) removeLocked(id string) {
	c, ok := h.clients[id]
	if !ok {
		return
	}
	delete(h.clients, id)
	close(c.send)
	log.Infof("client %s disconnected", id)
}

// writePump writes queued messages to the connection until the queue is closed.
func (c *client) writePump() {
	defer c.conn.Close()
	for payload := range c.send {
		if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			return
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.Warnf("write to client %s: %v", c.id, err)
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

func errorMessage(err error) []byte {
	payload, _ := json.Marshal(Message{Type: "error", Error: fmt.Sprint(err)})
	return payload
}
