package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/octobees/foodbot/internal/entity"
)

type fakeRouter struct {
	messages []entity.InboundMessage
	err      error
}

func (f *fakeRouter) HandleMessage(_ context.Context, msg entity.InboundMessage) error {
	f.messages = append(f.messages, msg)
	return f.err
}

func eventsRequest(t *testing.T, body string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/slack/events", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return rec, e.NewContext(req, rec)
}

func TestEventsHandlerURLVerification(t *testing.T) {
	router := &fakeRouter{}
	h := NewEventsHandler(router)

	rec, c := eventsRequest(t, `{"type":"url_verification","challenge":"abc123"}`)
	if err := h.Receive(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["challenge"] != "abc123" {
		t.Fatalf("expected challenge echoed, got %+v", resp)
	}
	if len(router.messages) != 0 {
		t.Fatalf("handshake must not reach the router")
	}
}

func TestEventsHandlerDispatchesMessages(t *testing.T) {
	router := &fakeRouter{}
	h := NewEventsHandler(router)

	body := `{"type":"event_callback","event":{"type":"message","user":"U1","channel":"C1","text":"I am hungry","ts":"111.222"}}`
	rec, c := eventsRequest(t, body)
	if err := h.Receive(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if len(router.messages) != 1 {
		t.Fatalf("expected 1 dispatched message, got %d", len(router.messages))
	}
	msg := router.messages[0]
	if msg.Channel != "C1" || msg.User != "U1" || msg.Text != "I am hungry" || msg.Timestamp != "111.222" {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestEventsHandlerFiltersNonUserEvents(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bot message", `{"type":"event_callback","event":{"type":"message","bot_id":"B1","channel":"C1","text":"hi"}}`},
		{"message edit", `{"type":"event_callback","event":{"type":"message","subtype":"message_changed","user":"U1","channel":"C1"}}`},
		{"reaction event", `{"type":"event_callback","event":{"type":"reaction_added","user":"U1"}}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			router := &fakeRouter{}
			h := NewEventsHandler(router)

			rec, c := eventsRequest(t, tc.body)
			if err := h.Receive(c); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200 ack, got %d", rec.Code)
			}
			if len(router.messages) != 0 {
				t.Fatalf("filtered event reached the router: %+v", router.messages)
			}
		})
	}
}

func TestEventsHandlerBadPayload(t *testing.T) {
	h := NewEventsHandler(&fakeRouter{})

	rec, c := eventsRequest(t, "{not json")
	if err := h.Receive(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestEventsHandlerAcksRouterFailures(t *testing.T) {
	router := &fakeRouter{err: errors.New("downstream down")}
	h := NewEventsHandler(router)

	body := `{"type":"event_callback","event":{"type":"message","user":"U1","channel":"C1","text":"hello"}}`
	rec, c := eventsRequest(t, body)
	if err := h.Receive(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("routing failures must still ack with 200, got %d", rec.Code)
	}
}
