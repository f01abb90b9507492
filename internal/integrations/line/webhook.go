package line

import (
	"encoding/json"
	"fmt"
)

const (
	EventTypeMessage = "message"
	MessageTypeText  = "text"
)

type Source struct {
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

type EventMessage struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text"`
}

type Event struct {
	Type       string        `json:"type"`
	ReplyToken string        `json:"replyToken"`
	Source     Source        `json:"source"`
	Message    *EventMessage `json:"message"`
}

// IsText reports whether the event is a text message.
func (e Event) IsText() bool {
	return e.Type == EventTypeMessage && e.Message != nil && e.Message.Type == MessageTypeText
}

type Payload struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events"`
}

// ParsePayload decodes a webhook request body.
func ParsePayload(body []byte) (Payload, error) {
	var p Payload
	if err := json.Unmarshal(body, &p); err != nil {
		return Payload{}, fmt.Errorf("line: decode webhook payload: %w", err)
	}
	return p, nil
}
