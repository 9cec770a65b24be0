package ws

import "encoding/json"

// MessageType constants for the live session feed protocol.
const (
	// Client -> Server
	TypeSubscribe   = "subscribe"
	TypeUnsubscribe = "unsubscribe"
	TypePing        = "ping"

	// Server -> Client
	TypeSubscribed      = "subscribed"
	TypeAnswerFeedback  = "answer_feedback"
	TypeSessionComplete = "session_complete"
	TypeError           = "error"
	TypePong            = "pong"
)

// Message wraps all WebSocket payloads with a type tag.
type Message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// SubscribePayload selects which session a watcher follows.
type SubscribePayload struct {
	SessionID string `json:"session_id"`
}

// ErrorPayload reports a protocol-level problem to the client.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewMessage marshals a payload into a typed message. Marshal failures fall
// back to an empty payload; payload types here are all marshalable structs.
func NewMessage(msgType string, payload interface{}) Message {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{Type: msgType}
	}
	return Message{Type: msgType, Payload: data}
}
