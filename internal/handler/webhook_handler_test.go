package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/octobees/foodbot/internal/slack"
)

func TestWebhookWakeUp(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/slack/webhook", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewWebhookHandler()
	if err := h.WakeUp(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var reply slack.Message
	if err := json.Unmarshal(rec.Body.Bytes(), &reply); err != nil {
		t.Fatalf("decode reply: %v", err)
	}
	if len(reply.Attachments) != 1 {
		t.Fatalf("expected 1 attachment, got %d", len(reply.Attachments))
	}
	att := reply.Attachments[0]
	if att.Text != "fine FINE I'm here!" {
		t.Fatalf("unexpected text: %q", att.Text)
	}
	if att.Fallback != "wake up reply" {
		t.Fatalf("unexpected fallback: %q", att.Fallback)
	}
	if att.ImageURL != "https://giphy.com/gifs/funny-dog-13k2kjI5WKG05W" {
		t.Fatalf("unexpected image url: %q", att.ImageURL)
	}
}
