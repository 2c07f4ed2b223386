// Package realtime maintains the push connection to the launchpad's realtime
// endpoint. One client owns one WebSocket; publications fan out to the token
// and chat stores according to their channel.
package realtime

import "encoding/json"

// Wire frames for the realtime endpoint. The protocol is JSON commands with
// monotonically increasing IDs; the server answers each command with a reply
// carrying the same ID, and delivers channel publications as unsolicited
// pushes with ID zero.

// command is a client-to-server frame.
type command struct {
	ID     uint32      `json:"id"`
	Method string      `json:"method"`
	Params interface{} `json:"params,omitempty"`
}

// Command methods.
const (
	methodConnect     = "connect"
	methodSubscribe   = "subscribe"
	methodUnsubscribe = "unsubscribe"
)

// connectParams authenticates the connection.
type connectParams struct {
	Token string `json:"token,omitempty"`
	Name  string `json:"name,omitempty"`
}

// channelParams targets one channel for subscribe and unsubscribe.
type channelParams struct {
	Channel string `json:"channel"`
}

// replyError is a server-side command failure.
type replyError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// reply is a server-to-client frame: either an answer to a command (non-zero
// ID) or a push (ID zero, Push set).
type reply struct {
	ID     uint32          `json:"id,omitempty"`
	Error  *replyError     `json:"error,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Push   *push           `json:"push,omitempty"`
}

// push carries one channel publication.
type push struct {
	Channel string       `json:"channel"`
	Pub     *publication `json:"pub,omitempty"`
}

// publication wraps the channel payload.
type publication struct {
	Data json.RawMessage `json:"data"`
}
