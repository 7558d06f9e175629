package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/navina/travelguide/internal/domain/entities"
	"github.com/navina/travelguide/internal/domain/providers"
	"github.com/navina/travelguide/internal/infrastructure/observability"
)

const defaultHeartbeatInterval = 30 * time.Second

// SSEHandler streams conversation transcripts as Server-Sent Events
type SSEHandler struct {
	eventBus  providers.EventBus
	heartbeat time.Duration
	clients   map[string]map[chan *entities.ConversationEvent]bool // channel -> clients
	mu        sync.RWMutex
}

// NewSSEHandler creates a new SSE handler. A nil event bus disables streaming.
func NewSSEHandler(eventBus providers.EventBus) *SSEHandler {
	return &SSEHandler{
		eventBus:  eventBus,
		heartbeat: defaultHeartbeatInterval,
		clients:   make(map[string]map[chan *entities.ConversationEvent]bool),
	}
}

// WithHeartbeat overrides the keep-alive interval
func (h *SSEHandler) WithHeartbeat(interval time.Duration) *SSEHandler {
	h.heartbeat = interval
	return h
}

// StreamConversation handles GET /api/stream/conversations/{id}
func (h *SSEHandler) StreamConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := r.PathValue("id")
	if conversationID == "" {
		respondWithError(w, http.StatusBadRequest, "conversation ID is required")
		return
	}
	if h.eventBus == nil {
		respondWithError(w, http.StatusServiceUnavailable, "streaming is not available")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	logger := observability.LoggerFromContext(r.Context()).With().Str("conversation_id", conversationID).Logger()
	channel := providers.GetConversationChannel(conversationID)

	eventChan, err := h.eventBus.Subscribe(r.Context(), channel)
	if err != nil {
		logger.Error().Err(err).Str("channel", channel).Msg("failed to subscribe")
		respondWithError(w, http.StatusServiceUnavailable, "streaming is not available")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	clientChan := make(chan *entities.ConversationEvent, 10)
	h.registerClient(channel, clientChan)
	defer h.unregisterClient(channel, clientChan)

	h.sendEvent(w, "connected", map[string]interface{}{
		"conversation_id": conversationID,
		"timestamp":       time.Now(),
	})
	flusher.Flush()

	go h.forwardEvents(r.Context(), eventChan, clientChan)

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			logger.Debug().Msg("client disconnected from conversation stream")
			return
		case <-ticker.C:
			h.sendEvent(w, "heartbeat", map[string]interface{}{
				"timestamp": time.Now(),
			})
			flusher.Flush()
		case event := <-clientChan:
			if event == nil {
				continue
			}
			h.sendEvent(w, string(event.EventType), event)
			flusher.Flush()
		}
	}
}

// ClientCount returns the number of open streams for a conversation
func (h *SSEHandler) ClientCount(conversationID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[providers.GetConversationChannel(conversationID)])
}

// forwardEvents copies bus events to the client channel, dropping events
// when the client falls behind
func (h *SSEHandler) forwardEvents(ctx context.Context, eventChan <-chan *entities.ConversationEvent, clientChan chan<- *entities.ConversationEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			select {
			case clientChan <- event:
			default:
			}
		}
	}
}

func (h *SSEHandler) registerClient(channel string, clientChan chan *entities.ConversationEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[channel] == nil {
		h.clients[channel] = make(map[chan *entities.ConversationEvent]bool)
	}
	h.clients[channel][clientChan] = true
}

func (h *SSEHandler) unregisterClient(channel string, clientChan chan *entities.ConversationEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, exists := h.clients[channel]; exists {
		delete(clients, clientChan)
		if len(clients) == 0 {
			delete(h.clients, channel)
		}
	}
}

// sendEvent writes one SSE frame
func (h *SSEHandler) sendEvent(w http.ResponseWriter, eventType string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return
	}

	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
}
