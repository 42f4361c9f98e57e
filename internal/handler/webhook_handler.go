package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/foodbot/internal/entity"
	"github.com/octobees/foodbot/internal/slack"
)

const wakeUpImageURL = "https://giphy.com/gifs/funny-dog-13k2kjI5WKG05W"

// WebhookHandler answers the outgoing-webhook wake-up call. The response
// body is posted publicly into the triggering channel by the platform.
type WebhookHandler struct{}

// NewWebhookHandler constructs the wake-up handler.
func NewWebhookHandler() *WebhookHandler {
	return &WebhookHandler{}
}

// WakeUp handles POST /slack/webhook with the fixed public reply.
func (h *WebhookHandler) WakeUp(c echo.Context) error {
	reply := slack.Message{
		Attachments: []entity.Attachment{{
			Fallback: "wake up reply",
			Text:     "fine FINE I'm here!",
			ImageURL: wakeUpImageURL,
		}},
	}
	return c.JSON(http.StatusOK, reply)
}
