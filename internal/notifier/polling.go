package notifier

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"StrikeZones/internal/model"
)

// ControlHandler is called when a client sends new control values.
type ControlHandler func(ctx context.Context, controls model.Controls)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// ServeWS upgrades the request and reads control messages until the client goes away.
func (h *Hub) ServeWS(handler ControlHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Warnf("websocket upgrade: %v", err)
			return
		}
		c := h.register(conn)
		go c.writePump()
		defer h.unregister(c.id)

		ctx := r.Context()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warnf("read from client %s: %v", c.id, err)
				}
				return
			}

			var controls model.Controls
			if err := json.Unmarshal(data, &controls); err != nil {
				log.Warnf("decode controls from client %s: %v", c.id, err)
				h.sendTo(c.id, errorMessage(err))
				continue
			}
			log.Infof("received controls from %s: %+v", c.id, controls)
			handler(ctx, controls)
		}
	}
}

func (h *Hub) sendTo(id string, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		select {
		case c.send <- payload:
		default:
		}
	}
}
