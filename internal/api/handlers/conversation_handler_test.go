package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/navina/travelguide/internal/api/handlers"
	"github.com/navina/travelguide/internal/api/loaders"
	"github.com/navina/travelguide/internal/application/assistant"
	"github.com/navina/travelguide/internal/application/services"
	"github.com/navina/travelguide/internal/domain/entities"
	"github.com/navina/travelguide/internal/domain/providers"
	apperrors "github.com/navina/travelguide/pkg/errors"
)

type firstOption struct{}

func (firstOption) IntN(int) int { return 0 }

func newConversationHandler(repo *MockConversationRepo, bus providers.EventBus) *handlers.ConversationHandler {
	classifier := assistant.NewClassifier(nil, assistant.WithRandomSource(firstOption{}))
	return handlers.NewConversationHandler(services.NewConversationService(repo, classifier, bus, 10))
}

func TestConversationHandler_StartConversation(t *testing.T) {
	repo := new(MockConversationRepo)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*entities.Conversation")).Return(nil)
	h := newConversationHandler(repo, nil)

	w := serve("POST /api/conversations", h.StartConversation, http.MethodPost, "/api/conversations",
		`{"user_id":"user-1","context":{"userLocation":{"latitude":37.9715,"longitude":23.7268}}}`)

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "user-1", body["user_id"])
	messages := body["messages"].([]interface{})
	require.Len(t, messages, 1)
	assert.Equal(t, entities.WelcomeMessage, messages[0].(map[string]interface{})["content"])
	ctx := body["context"].(map[string]interface{})
	assert.Contains(t, ctx, "userLocation")
}

func TestConversationHandler_StartConversationRequiresUser(t *testing.T) {
	h := newConversationHandler(new(MockConversationRepo), nil)

	w := serve("POST /api/conversations", h.StartConversation, http.MethodPost, "/api/conversations", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestConversationHandler_PostMessage(t *testing.T) {
	repo := new(MockConversationRepo)
	repo.On("AppendMessage", mock.Anything, "conv-1", mock.MatchedBy(func(m entities.Message) bool {
		return m.Sender == entities.SenderUser
	}), (*entities.ConversationContext)(nil)).Return(&entities.Conversation{ID: "conv-1"}, nil).Once()
	repo.On("AppendMessage", mock.Anything, "conv-1", mock.MatchedBy(func(m entities.Message) bool {
		return m.Sender == entities.SenderSystem
	}), &entities.ConversationContext{LastPOI: "acropolis001"}).Return(&entities.Conversation{
		ID:      "conv-1",
		Context: entities.ConversationContext{LastPOI: "acropolis001"},
	}, nil).Once()
	bus := NewMockEventBus()
	h := newConversationHandler(repo, bus)

	w := serve("POST /api/conversations/{id}/messages", h.PostMessage, http.MethodPost,
		"/api/conversations/conv-1/messages", `{"text":"Tell me about the Acropolis"}`)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "place_info", body["intent"])
	reply := body["reply"].(map[string]interface{})
	assert.Contains(t, reply["content"], "Acropolis of Athens")
	assert.Equal(t, []interface{}{"acropolis001"}, reply["related_pois"])
	assert.Equal(t, "acropolis001", body["context"].(map[string]interface{})["lastPOI"])
	repo.AssertExpectations(t)
}

func TestConversationHandler_PostMessageErrors(t *testing.T) {
	repo := new(MockConversationRepo)
	repo.On("AppendMessage", mock.Anything, "ghost", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewNotFoundError("conversation not found"))
	h := newConversationHandler(repo, nil)

	w := serve("POST /api/conversations/{id}/messages", h.PostMessage, http.MethodPost,
		"/api/conversations/ghost/messages", `{"text":"hello"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve("POST /api/conversations/{id}/messages", h.PostMessage, http.MethodPost,
		"/api/conversations/conv-1/messages", `{"text":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func transcript() *entities.Conversation {
	return &entities.Conversation{
		ID:     "conv-1",
		UserID: "user-1",
		Messages: []entities.Message{
			{ID: "m1", Sender: entities.SenderSystem, Content: entities.WelcomeMessage},
			{ID: "m2", Sender: entities.SenderSystem, RelatedPOIs: []string{"acropolis001", "agora001", "plaka001"}},
			{ID: "m3", Sender: entities.SenderSystem, RelatedPOIs: []string{"agora001"}, RelatedTours: []string{"athens_history_001"}},
		},
	}
}

func TestConversationHandler_GetConversation(t *testing.T) {
	repo := new(MockConversationRepo)
	repo.On("GetByID", mock.Anything, "conv-1").Return(transcript(), nil)
	h := newConversationHandler(repo, nil)

	w := serve("GET /api/conversations/{id}", h.GetConversation, http.MethodGet, "/api/conversations/conv-1", "")

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Len(t, body["messages"], 3)
	assert.NotContains(t, body, "pois")
}

func TestConversationHandler_GetConversationExpandsRelated(t *testing.T) {
	repo := new(MockConversationRepo)
	repo.On("GetByID", mock.Anything, "conv-1").Return(transcript(), nil)
	pois := new(MockPOIRepo)
	pois.On("GetByIDs", mock.Anything, mock.Anything).Return([]*entities.POI{
		{ID: "acropolis001", Name: "Acropolis"},
		{ID: "agora001", Name: "Ancient Agora"},
		{ID: "plaka001", Name: "Plaka District"},
	}, nil).Once()
	tours := new(MockTourRepo)
	tours.On("GetByIDs", mock.Anything, []string{"athens_history_001"}).
		Return([]*entities.Tour{{ID: "athens_history_001"}}, nil).Once()
	h := newConversationHandler(repo, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/conversations/{id}", h.GetConversation)
	handler := loaders.Middleware(pois, tours)(mux)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/conversations/conv-1?expand=pois,tours", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	var names []string
	for _, p := range body["pois"].([]interface{}) {
		names = append(names, p.(map[string]interface{})["name"].(string))
	}
	assert.Equal(t, []string{"Acropolis", "Ancient Agora", "Plaka District"}, names)
	assert.Len(t, body["tours"], 1)
	assert.Len(t, body["messages"], 3)
	pois.AssertNumberOfCalls(t, "GetByIDs", 1)
	tours.AssertExpectations(t)
}

func TestConversationHandler_GetConversationExpandStoreFailure(t *testing.T) {
	repo := new(MockConversationRepo)
	repo.On("GetByID", mock.Anything, "conv-1").Return(transcript(), nil)
	pois := new(MockPOIRepo)
	pois.On("GetByIDs", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewInternalError("failed to get pois", errors.New("connection refused")))
	h := newConversationHandler(repo, nil)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/conversations/{id}", h.GetConversation)
	handler := loaders.Middleware(pois, new(MockTourRepo))(mux)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/conversations/conv-1?expand=pois", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestConversationHandler_GetConversationNotFound(t *testing.T) {
	repo := new(MockConversationRepo)
	repo.On("GetByID", mock.Anything, "ghost").Return(nil, apperrors.NewNotFoundError("conversation not found"))
	h := newConversationHandler(repo, nil)

	w := serve("GET /api/conversations/{id}", h.GetConversation, http.MethodGet, "/api/conversations/ghost", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

