package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"memelaunch/internal/models"
	"memelaunch/internal/store"
)

const (
	// Connection states
	StateDisconnected = "disconnected"
	StateConnecting   = "connecting"
	StateConnected    = "connected"

	// Reconnect settings
	maxReconnectAttempts = 10
	reconnectDelay       = 5 * time.Second
)

// Subscription is a handle to one active channel subscription. Unsubscribe is
// idempotent.
type Subscription struct {
	Channel string
	client  *Client
}

// Unsubscribe tears the subscription down.
func (s *Subscription) Unsubscribe() {
	s.client.Unsubscribe(s.Channel)
}

// Client owns the realtime WebSocket connection and routes publications into
// the token and chat stores. At most one subscription exists per channel.
type Client struct {
	endpoint  string
	authToken string
	tokens    *store.TokenStore
	chats     *store.ChatStore

	mu       sync.RWMutex
	conn     *websocket.Conn
	status   string
	subs     map[string]*Subscription
	nextID   uint32
	writeMu  sync.Mutex
	stopCh   chan bool
	reconnCh chan bool
	started  bool
}

// NewClient creates a disconnected client. Publications on the token channels
// mutate tokens; publications on chat channels mutate chats.
func NewClient(endpoint, authToken string, tokens *store.TokenStore, chats *store.ChatStore) *Client {
	return &Client{
		endpoint:  endpoint,
		authToken: authToken,
		tokens:    tokens,
		chats:     chats,
		status:    StateDisconnected,
		subs:      make(map[string]*Subscription),
		stopCh:    make(chan bool, 1),
		reconnCh:  make(chan bool, 1),
	}
}

// Status returns the connection state.
func (c *Client) Status() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.status
}

// Connect dials the endpoint and performs the connect handshake. The initial
// dial is synchronous so callers see a bad endpoint immediately; afterwards a
// supervisor goroutine redials on connection loss, up to the reconnect limit.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return fmt.Errorf("realtime client already connected")
	}
	c.started = true
	c.status = StateConnecting
	c.mu.Unlock()

	// A previous session may have left a stop or reconnect token buffered,
	// which would make the fresh supervisor exit immediately.
	select {
	case <-c.stopCh:
	default:
	}
	select {
	case <-c.reconnCh:
	default:
	}

	if err := c.dial(ctx); err != nil {
		c.mu.Lock()
		c.started = false
		c.status = StateDisconnected
		c.mu.Unlock()
		return err
	}

	go c.supervise()
	return nil
}

// dial establishes one connection, authenticates and starts the read loop.
func (c *Client) dial(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.endpoint, nil)
	if err != nil {
		log.WithFields(log.Fields{
			"endpoint": c.endpoint,
			"error":    err.Error(),
		}).Error("Failed to connect to realtime endpoint")
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.status = StateConnected
	c.mu.Unlock()

	if err := c.send(methodConnect, connectParams{Token: c.authToken, Name: "memelaunch"}); err != nil {
		conn.Close()
		c.mu.Lock()
		c.conn = nil
		c.status = StateDisconnected
		c.mu.Unlock()
		return err
	}

	// Re-establish every known subscription on the fresh connection.
	c.mu.RLock()
	channels := make([]string, 0, len(c.subs))
	for channel := range c.subs {
		channels = append(channels, channel)
	}
	c.mu.RUnlock()

	for _, channel := range channels {
		if err := c.send(methodSubscribe, channelParams{Channel: channel}); err != nil {
			log.WithFields(log.Fields{
				"channel": channel,
				"error":   err.Error(),
			}).Error("Failed to resubscribe channel")
		}
	}

	log.WithField("endpoint", c.endpoint).Info("Connected to realtime endpoint")

	go c.readLoop(conn)
	return nil
}

// supervise redials after connection loss until stopped or the reconnect
// limit is hit.
func (c *Client) supervise() {
	attempts := 0
	for {
		select {
		case <-c.stopCh:
			return
		case <-c.reconnCh:
			for {
				select {
				case <-c.stopCh:
					return
				default:
				}

				attempts++
				if attempts > maxReconnectAttempts {
					log.WithFields(log.Fields{
						"reconnect_attempts":     attempts - 1,
						"max_reconnect_attempts": maxReconnectAttempts,
					}).Error("Max reconnect attempts reached, giving up")
					c.mu.Lock()
					c.status = StateDisconnected
					c.mu.Unlock()
					return
				}

				time.Sleep(reconnectDelay)

				c.mu.Lock()
				c.status = StateConnecting
				c.mu.Unlock()

				if err := c.dial(context.Background()); err == nil {
					attempts = 0
					break
				}
			}
		}
	}
}

// Disconnect unsubscribes every channel, then closes the connection. Safe to
// call more than once.
func (c *Client) Disconnect() {
	c.mu.RLock()
	channels := make([]string, 0, len(c.subs))
	for channel := range c.subs {
		channels = append(channels, channel)
	}
	c.mu.RUnlock()

	for _, channel := range channels {
		c.Unsubscribe(channel)
	}

	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.status = StateDisconnected
	started := c.started
	c.started = false
	c.mu.Unlock()

	if started {
		select {
		case c.stopCh <- true:
		default:
		}
	}
	if conn != nil {
		conn.Close()
	}
}

// Subscribe registers interest in one channel. If a subscription for the
// channel already exists, nothing happens and nil is returned; the existing
// subscription stays untouched.
func (c *Client) Subscribe(channel string) *Subscription {
	c.mu.Lock()
	if _, exists := c.subs[channel]; exists {
		c.mu.Unlock()
		log.WithField("channel", channel).Info("Subscription already exists, skipping")
		return nil
	}
	sub := &Subscription{Channel: channel, client: c}
	c.subs[channel] = sub
	connected := c.conn != nil
	c.mu.Unlock()

	if connected {
		if err := c.send(methodSubscribe, channelParams{Channel: channel}); err != nil {
			log.WithFields(log.Fields{
				"channel": channel,
				"error":   err.Error(),
			}).Error("Failed to send subscribe command")
		}
	}
	return sub
}

// Unsubscribe removes the channel's subscription. A no-op for channels with
// no subscription.
func (c *Client) Unsubscribe(channel string) {
	c.mu.Lock()
	if _, exists := c.subs[channel]; !exists {
		c.mu.Unlock()
		return
	}
	delete(c.subs, channel)
	connected := c.conn != nil
	c.mu.Unlock()

	if connected {
		if err := c.send(methodUnsubscribe, channelParams{Channel: channel}); err != nil {
			log.WithFields(log.Fields{
				"channel": channel,
				"error":   err.Error(),
			}).Error("Failed to send unsubscribe command")
		}
	}
}

// Subscriptions returns the channels currently subscribed.
func (c *Client) Subscriptions() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	channels := make([]string, 0, len(c.subs))
	for channel := range c.subs {
		channels = append(channels, channel)
	}
	return channels
}

// send writes one command frame. Writes are serialized; the connection does
// not allow concurrent writers.
func (c *Client) send(method string, params interface{}) error {
	c.mu.Lock()
	conn := c.conn
	c.nextID++
	id := c.nextID
	c.mu.Unlock()

	if conn == nil {
		return fmt.Errorf("not connected")
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return conn.WriteJSON(command{ID: id, Method: method, Params: params})
}

// readLoop consumes frames until the connection drops, then triggers a
// reconnect.
func (c *Client) readLoop(conn *websocket.Conn) {
	defer func() {
		c.mu.Lock()
		if c.conn == conn {
			c.conn = nil
			c.status = StateDisconnected
			c.mu.Unlock()

			select {
			case c.reconnCh <- true:
			default:
			}
			return
		}
		c.mu.Unlock()
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			c.mu.RLock()
			current := c.conn == conn
			c.mu.RUnlock()
			if current {
				log.WithField("error", err.Error()).Error("Error reading realtime message")
			}
			return
		}

		var frame reply
		if err := json.Unmarshal(message, &frame); err != nil {
			log.WithField("error", err.Error()).Warn("Failed to unmarshal realtime frame, dropping")
			continue
		}

		if frame.Error != nil {
			log.WithFields(log.Fields{
				"id":      frame.ID,
				"code":    frame.Error.Code,
				"message": frame.Error.Message,
			}).Error("Realtime command rejected")
			continue
		}

		if frame.Push != nil && frame.Push.Pub != nil {
			c.handlePublication(frame.Push.Channel, frame.Push.Pub.Data)
		}
	}
}

// handlePublication routes one publication to its store. Malformed payloads
// are logged and dropped; a bad event never mutates state and never takes the
// connection down.
func (c *Client) handlePublication(channel string, data json.RawMessage) {
	switch {
	case channel == ChannelTokenUpdates:
		var evt models.TokenPriceUpdate
		if err := json.Unmarshal(data, &evt); err != nil {
			log.WithField("error", err.Error()).Warn("Malformed price update, dropping")
			return
		}
		c.tokens.ApplyPriceUpdate(evt)

	case channel == ChannelMintTokens:
		var payload mintPayload
		if err := json.Unmarshal(data, &payload); err != nil {
			log.WithField("error", err.Error()).Warn("Malformed mint event, dropping")
			return
		}
		address := payload.address()
		if address == "" {
			log.Warn("Mint event missing token address, dropping")
			return
		}
		if _, err := solana.PublicKeyFromBase58(address); err != nil {
			log.WithFields(log.Fields{
				"token": address,
				"error": err.Error(),
			}).Warn("Mint event with invalid token address, dropping")
			return
		}
		c.tokens.Upsert(tokenFromMint(&payload))

	default:
		address, ok := isChatChannel(channel)
		if !ok {
			log.WithField("channel", channel).Debug("Publication on unknown channel, ignoring")
			return
		}

		var msg models.ChatMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.WithFields(log.Fields{
				"channel": channel,
				"error":   err.Error(),
			}).Warn("Malformed chat message, dropping")
			return
		}
		if msg.Wallet == "" || msg.Message == "" || msg.Time == 0 {
			log.WithField("channel", channel).Warn("Chat message missing wallet, body or time, dropping")
			return
		}
		if msg.Token == "" {
			msg.Token = address
		}
		c.chats.Append(address, msg)
	}
}
