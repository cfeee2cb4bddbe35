package chat

import "time"

// MessageType identifies a websocket frame on the chat channel.
type MessageType string

const (
	// MessageTypeAuth names the connection; first frame from a client.
	MessageTypeAuth MessageType = "auth"
	// MessageTypeChat is a line on the shared channel, both directions.
	MessageTypeChat MessageType = "chat"
	// MessageTypeNotice is a private server-to-client line.
	MessageTypeNotice MessageType = "notice"
	// MessageTypeError reports a rejected frame back to the sender.
	MessageTypeError MessageType = "error"
)

// Message is the wire format for the chat channel.
type Message struct {
	Type      MessageType `json:"type"`
	Name      string      `json:"name,omitempty"` // auth only
	From      string      `json:"from,omitempty"`
	Text      string      `json:"text,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewChat builds a broadcast chat message.
func NewChat(from, text string) *Message {
	return &Message{Type: MessageTypeChat, From: from, Text: text, Timestamp: time.Now()}
}

// NewNotice builds a private notice.
func NewNotice(text string) *Message {
	return &Message{Type: MessageTypeNotice, Text: text, Timestamp: time.Now()}
}
