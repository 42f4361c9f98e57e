package handler

import (
	"context"
	"io"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/foodbot/internal/entity"
	"github.com/octobees/foodbot/internal/slack"
)

// MessageRouter dispatches a normalized inbound message to its handler.
type MessageRouter interface {
	HandleMessage(ctx context.Context, msg entity.InboundMessage) error
}

// EventsHandler receives Events API deliveries on the webhook endpoint.
type EventsHandler struct {
	router MessageRouter
}

// NewEventsHandler constructs the events webhook handler.
func NewEventsHandler(router MessageRouter) *EventsHandler {
	return &EventsHandler{router: router}
}

// Receive handles POST /slack/events: the URL verification handshake,
// then message events. The platform only needs an acknowledgment; routing
// failures are logged, not surfaced, so deliveries are not retried into
// duplicate replies.
func (h *EventsHandler) Receive(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return Error(c, http.StatusBadRequest, "unreadable body")
	}

	payload, err := slack.ParseEventPayload(body)
	if err != nil {
		return Error(c, http.StatusBadRequest, "invalid event payload")
	}

	if payload.Type == slack.PayloadURLVerification {
		return c.JSON(http.StatusOK, map[string]string{"challenge": payload.Challenge})
	}

	msg := payload.Message()
	if msg == nil {
		return c.NoContent(http.StatusOK)
	}

	if err := h.router.HandleMessage(c.Request().Context(), *msg); err != nil {
		log.Printf("handle message from %s failed: %v", msg.User, err)
	}
	return c.NoContent(http.StatusOK)
}
