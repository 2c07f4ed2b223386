package devserver

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// hub frames, mirroring the client protocol: commands in, replies and pushes
// out.
type hubCommand struct {
	ID     uint32          `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

type hubChannelParams struct {
	Channel string `json:"channel"`
}

type hubReply struct {
	ID     uint32      `json:"id,omitempty"`
	Error  *hubError   `json:"error,omitempty"`
	Result interface{} `json:"result,omitempty"`
	Push   *hubPush    `json:"push,omitempty"`
}

type hubError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type hubPush struct {
	Channel string `json:"channel"`
	Pub     struct {
		Data json.RawMessage `json:"data"`
	} `json:"pub"`
}

// Hub accepts realtime connections and fans publications out to subscribed
// clients.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*hubClient]bool
}

type hubClient struct {
	conn *websocket.Conn

	writeMu  sync.Mutex
	mu       sync.RWMutex
	channels map[string]bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*hubClient]bool),
	}
}

// ServeHTTP upgrades the request and serves the connection until it drops.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithField("error", err.Error()).Warn("Realtime upgrade failed")
		return
	}

	client := &hubClient{
		conn:     conn,
		channels: make(map[string]bool),
	}

	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, client)
		h.mu.Unlock()
		conn.Close()
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var cmd hubCommand
		if err := json.Unmarshal(message, &cmd); err != nil {
			log.WithField("error", err.Error()).Warn("Malformed realtime command, dropping")
			continue
		}

		switch cmd.Method {
		case "connect":
			client.reply(hubReply{ID: cmd.ID, Result: map[string]string{"client": "devserver"}})
		case "subscribe":
			var params hubChannelParams
			if err := json.Unmarshal(cmd.Params, &params); err != nil || params.Channel == "" {
				client.reply(hubReply{ID: cmd.ID, Error: &hubError{Code: 400, Message: "bad channel"}})
				continue
			}
			client.mu.Lock()
			client.channels[params.Channel] = true
			client.mu.Unlock()
			client.reply(hubReply{ID: cmd.ID, Result: map[string]bool{}})
		case "unsubscribe":
			var params hubChannelParams
			if err := json.Unmarshal(cmd.Params, &params); err != nil || params.Channel == "" {
				client.reply(hubReply{ID: cmd.ID, Error: &hubError{Code: 400, Message: "bad channel"}})
				continue
			}
			client.mu.Lock()
			delete(client.channels, params.Channel)
			client.mu.Unlock()
			client.reply(hubReply{ID: cmd.ID, Result: map[string]bool{}})
		default:
			client.reply(hubReply{ID: cmd.ID, Error: &hubError{Code: 404, Message: "unknown method"}})
		}
	}
}

func (c *hubClient) reply(frame hubReply) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.conn.WriteJSON(frame); err != nil {
		log.WithField("error", err.Error()).Debug("Failed to write realtime reply")
	}
}

// Publish sends a publication to every client subscribed to the channel.
func (h *Hub) Publish(channel string, data interface{}) {
	encoded, err := json.Marshal(data)
	if err != nil {
		log.WithFields(log.Fields{
			"channel": channel,
			"error":   err.Error(),
		}).Error("Failed to marshal publication")
		return
	}

	frame := hubReply{Push: &hubPush{Channel: channel}}
	frame.Push.Pub.Data = encoded

	h.mu.RLock()
	clients := make([]*hubClient, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		client.mu.RLock()
		subscribed := client.channels[channel]
		client.mu.RUnlock()
		if subscribed {
			client.reply(frame)
		}
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
