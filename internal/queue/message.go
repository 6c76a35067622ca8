package queue

import "encoding/json"

// Task kinds carried by queue messages.
const (
	KindSendEmail = "send_email"
)

// EmailTask is the payload for a deferred email send.
type EmailTask struct {
	To       string            `json:"to"`
	Template string            `json:"template"`
	Params   map[string]string `json:"params"`
}

// Message is the payload sent to downstream queue consumers.
type Message struct {
	Kind       string     `json:"kind"`
	RequestID  string     `json:"requestId"`
	EnqueuedAt string     `json:"enqueuedAt"`
	Version    int        `json:"version"`
	Email      *EmailTask `json:"email,omitempty"`
}

// EncodeMessage returns the JSON representation of a message.
func EncodeMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}

// DecodeMessage parses a JSON payload into a Message.
func DecodeMessage(payload []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}
