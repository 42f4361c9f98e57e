package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/foodbot/internal/dto"
	"github.com/octobees/foodbot/internal/service"
	"github.com/octobees/foodbot/internal/store"
)

// AdminHandler exposes the operator surface: login, live dialogue
// snapshots, and process counters.
type AdminHandler struct {
	admin         *service.AdminService
	conversations store.ConversationStore
	stats         *service.Stats
}

// NewAdminHandler constructs an AdminHandler.
func NewAdminHandler(admin *service.AdminService, conversations store.ConversationStore, stats *service.Stats) *AdminHandler {
	return &AdminHandler{admin: admin, conversations: conversations, stats: stats}
}

// Login handles POST /admin/login requests.
func (h *AdminHandler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return Error(c, http.StatusBadRequest, "email and password are required")
	}

	token, err := h.admin.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return Error(c, http.StatusUnauthorized, "invalid credentials")
		}
		return Error(c, http.StatusInternalServerError, "unable to log in")
	}

	return Success(c, http.StatusOK, "login successful", dto.LoginResponse{AccessToken: token})
}

// Conversations handles GET /admin/conversations requests.
func (h *AdminHandler) Conversations(c echo.Context) error {
	conversations, err := h.conversations.List(c.Request().Context())
	if err != nil {
		return Error(c, http.StatusInternalServerError, "unable to list conversations")
	}
	return Success(c, http.StatusOK, "active conversations", map[string]any{
		"count":         len(conversations),
		"conversations": conversations,
	})
}

// Stats handles GET /admin/stats requests.
func (h *AdminHandler) Stats(c echo.Context) error {
	return Success(c, http.StatusOK, "bot statistics", h.stats.Snapshot())
}
