package handlers

import (
	"net/http"

	"github.com/navina/travelguide/internal/application/services"
	"github.com/navina/travelguide/internal/domain/entities"
)

// UserHandler handles user and preference HTTP requests
type UserHandler struct {
	users         *services.UserService
	conversations *services.ConversationService
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *services.UserService, conversations *services.ConversationService) *UserHandler {
	return &UserHandler{
		users:         users,
		conversations: conversations,
	}
}

type createUserRequest struct {
	ID          string                `json:"id"`
	DisplayName string                `json:"display_name"`
	Email       string                `json:"email"`
	Preferences *entities.Preferences `json:"preferences"`
}

// CreateUser handles POST /api/users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	user := &entities.User{
		ID:          req.ID,
		DisplayName: req.DisplayName,
		Email:       req.Email,
	}
	if req.Preferences != nil {
		user.Preferences = *req.Preferences
	}

	created, err := h.users.CreateUser(r.Context(), user)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

// GetUser handles GET /api/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetUser(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

// UpdatePreferences handles PUT /api/users/{id}/preferences
func (h *UserHandler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	var prefs entities.Preferences
	if err := decodeJSON(r, &prefs); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	user, err := h.users.UpdatePreferences(r.Context(), r.PathValue("id"), prefs)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, user)
}

// ConversationHistory handles GET /api/users/{id}/conversations?limit=
func (h *UserHandler) ConversationHistory(w http.ResponseWriter, r *http.Request) {
	limit, err := parseOptionalInt(r.URL.Query().Get("limit"), "limit")
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	conversations, err := h.conversations.ConversationHistory(r.Context(), r.PathValue("id"), limit)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"conversations": conversations,
		"count":         len(conversations),
	})
}
