package handlers

import (
	"net/http"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/navina/travelguide/internal/api/loaders"
	"github.com/navina/travelguide/internal/application/services"
	"github.com/navina/travelguide/internal/domain/entities"
)

// ConversationHandler handles chat HTTP requests
type ConversationHandler struct {
	conversations *services.ConversationService
}

// NewConversationHandler creates a new conversation handler
func NewConversationHandler(conversations *services.ConversationService) *ConversationHandler {
	return &ConversationHandler{conversations: conversations}
}

type startConversationRequest struct {
	UserID  string                        `json:"user_id"`
	Context *entities.ConversationContext `json:"context"`
}

type postMessageRequest struct {
	Text    string                        `json:"text"`
	Context *entities.ConversationContext `json:"context"`
}

// expandedConversation is a conversation with its related entities inlined
type expandedConversation struct {
	*entities.Conversation
	POIs  []*entities.POI  `json:"pois,omitempty"`
	Tours []*entities.Tour `json:"tours,omitempty"`
}

// StartConversation handles POST /api/conversations
func (h *ConversationHandler) StartConversation(w http.ResponseWriter, r *http.Request) {
	var req startConversationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	conv, err := h.conversations.StartConversation(r.Context(), req.UserID, req.Context)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, conv)
}

// GetConversation handles GET /api/conversations/{id}?expand=pois,tours
func (h *ConversationHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	conv, err := h.conversations.GetConversation(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	expand := splitList(r.URL.Query().Get("expand"))
	l := loaders.For(r.Context())
	if len(expand) == 0 || l == nil {
		respondWithJSON(w, http.StatusOK, conv)
		return
	}

	out := expandedConversation{Conversation: conv}
	g, ctx := errgroup.WithContext(r.Context())
	if slices.Contains(expand, "pois") {
		g.Go(func() error {
			pois, err := l.LoadPOIs(ctx, relatedIDs(conv.Messages, func(m entities.Message) []string { return m.RelatedPOIs }))
			out.POIs = pois
			return err
		})
	}
	if slices.Contains(expand, "tours") {
		g.Go(func() error {
			tours, err := l.LoadTours(ctx, relatedIDs(conv.Messages, func(m entities.Message) []string { return m.RelatedTours }))
			out.Tours = tours
			return err
		})
	}
	if err := g.Wait(); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, out)
}

// PostMessage handles POST /api/conversations/{id}/messages
func (h *ConversationHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	var req postMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	turn, err := h.conversations.ProcessUserMessage(r.Context(), r.PathValue("id"), req.Text, req.Context)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, turn)
}

// relatedIDs collects ids across the transcript in first-seen order
func relatedIDs(messages []entities.Message, pick func(entities.Message) []string) []string {
	seen := make(map[string]struct{})
	ids := []string{}
	for _, m := range messages {
		for _, id := range pick(m) {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}
