package slack

import (
	"encoding/json"
	"fmt"

	"github.com/octobees/foodbot/internal/entity"
)

// Event payload types from the Events API.
const (
	PayloadURLVerification = "url_verification"
	PayloadEventCallback   = "event_callback"
)

// EventPayload is the outer envelope delivered to the events webhook.
type EventPayload struct {
	Type      string     `json:"type"`
	Token     string     `json:"token"`
	Challenge string     `json:"challenge"`
	Event     InnerEvent `json:"event"`
}

// InnerEvent carries the message fields the bot reads.
type InnerEvent struct {
	Type    string `json:"type"`
	Subtype string `json:"subtype"`
	User    string `json:"user"`
	BotID   string `json:"bot_id"`
	Channel string `json:"channel"`
	Text    string `json:"text"`
	TS      string `json:"ts"`
}

// ParseEventPayload decodes the webhook body.
func ParseEventPayload(body []byte) (*EventPayload, error) {
	var payload EventPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode event payload: %w", err)
	}
	return &payload, nil
}

// Message extracts a normalized inbound message, or nil when the inner
// event is not a user-authored message (bot echoes, edits, joins).
func (p *EventPayload) Message() *entity.InboundMessage {
	if p.Type != PayloadEventCallback {
		return nil
	}
	ev := p.Event
	if ev.Type != "message" && ev.Type != "app_mention" {
		return nil
	}
	if ev.BotID != "" || ev.Subtype != "" || ev.User == "" {
		return nil
	}
	return &entity.InboundMessage{
		Channel:   ev.Channel,
		User:      ev.User,
		Text:      ev.Text,
		Timestamp: ev.TS,
	}
}
