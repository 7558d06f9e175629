package handlers_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/navina/travelguide/internal/api/handlers"
	"github.com/navina/travelguide/internal/application/assistant"
	"github.com/navina/travelguide/internal/application/services"
	"github.com/navina/travelguide/internal/domain/entities"
	apperrors "github.com/navina/travelguide/pkg/errors"
)

func newUserHandler(users *MockUserRepo, convs *MockConversationRepo) *handlers.UserHandler {
	conversations := services.NewConversationService(convs, assistant.NewClassifier(nil), nil, 10)
	return handlers.NewUserHandler(services.NewUserService(users), conversations)
}

func TestUserHandler_CreateUserAppliesDefaults(t *testing.T) {
	users := new(MockUserRepo)
	users.On("Create", mock.Anything, mock.AnythingOfType("*entities.User")).Return(nil)
	h := newUserHandler(users, new(MockConversationRepo))

	w := serve("POST /api/users", h.CreateUser, http.MethodPost, "/api/users",
		`{"display_name":"Eleni","preferences":{"languages":["Greek"]}}`)

	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, "Eleni", body["display_name"])
	prefs := body["preferences"].(map[string]interface{})
	assert.Equal(t, []interface{}{"Greek"}, prefs["languages"])
	assert.Equal(t, "moderate", prefs["pace"])
	assert.Equal(t, float64(5000), prefs["max_distance"])
	assert.Equal(t, []interface{}{}, body["saved_tours"])
	users.AssertExpectations(t)
}

func TestUserHandler_CreateUserRejectsBadBody(t *testing.T) {
	h := newUserHandler(new(MockUserRepo), new(MockConversationRepo))

	for name, body := range map[string]string{
		"malformed":        `{"display_name":`,
		"unknown field":    `{"nickname":"x"}`,
		"negative maxdist": `{"preferences":{"max_distance":-1}}`,
	} {
		t.Run(name, func(t *testing.T) {
			w := serve("POST /api/users", h.CreateUser, http.MethodPost, "/api/users", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NotEmpty(t, decodeBody(t, w)["error"])
		})
	}
}

func TestUserHandler_GetUser(t *testing.T) {
	users := new(MockUserRepo)
	users.On("GetByID", mock.Anything, "user-1").Return(&entities.User{ID: "user-1", DisplayName: "Nikos"}, nil)
	users.On("GetByID", mock.Anything, "ghost").Return(nil, apperrors.NewNotFoundError("user not found"))
	users.On("GetByID", mock.Anything, "broken").Return(nil, apperrors.NewInternalError("failed to get user", errors.New("conn reset")))
	h := newUserHandler(users, new(MockConversationRepo))

	w := serve("GET /api/users/{id}", h.GetUser, http.MethodGet, "/api/users/user-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Nikos", decodeBody(t, w)["display_name"])

	w = serve("GET /api/users/{id}", h.GetUser, http.MethodGet, "/api/users/ghost", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "user not found", decodeBody(t, w)["error"])

	w = serve("GET /api/users/{id}", h.GetUser, http.MethodGet, "/api/users/broken", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", decodeBody(t, w)["error"])
}

func TestUserHandler_UpdatePreferences(t *testing.T) {
	users := new(MockUserRepo)
	users.On("UpdatePreferences", mock.Anything, "user-1", mock.MatchedBy(func(p entities.Preferences) bool {
		return p.Pace == "relaxed" && len(p.Languages) == 1 && p.Languages[0] == "English"
	})).Return(nil)
	users.On("GetByID", mock.Anything, "user-1").Return(&entities.User{
		ID:          "user-1",
		Preferences: entities.Preferences{Languages: []string{"English"}, Pace: "relaxed"},
	}, nil)
	h := newUserHandler(users, new(MockConversationRepo))

	w := serve("PUT /api/users/{id}/preferences", h.UpdatePreferences, http.MethodPut,
		"/api/users/user-1/preferences", `{"pace":"relaxed"}`)

	require.Equal(t, http.StatusOK, w.Code)
	prefs := decodeBody(t, w)["preferences"].(map[string]interface{})
	assert.Equal(t, "relaxed", prefs["pace"])
	users.AssertExpectations(t)
}

func TestUserHandler_ConversationHistory(t *testing.T) {
	convs := new(MockConversationRepo)
	convs.On("ListByUser", mock.Anything, "user-1", 10).Return([]*entities.Conversation{{ID: "c2"}, {ID: "c1"}}, nil)
	convs.On("ListByUser", mock.Anything, "user-1", 1).Return([]*entities.Conversation{{ID: "c2"}}, nil)
	h := newUserHandler(new(MockUserRepo), convs)

	w := serve("GET /api/users/{id}/conversations", h.ConversationHistory, http.MethodGet, "/api/users/user-1/conversations", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decodeBody(t, w)["count"])

	w = serve("GET /api/users/{id}/conversations", h.ConversationHistory, http.MethodGet, "/api/users/user-1/conversations?limit=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decodeBody(t, w)["count"])

	w = serve("GET /api/users/{id}/conversations", h.ConversationHistory, http.MethodGet, "/api/users/user-1/conversations?limit=-1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = serve("GET /api/users/{id}/conversations", h.ConversationHistory, http.MethodGet, "/api/users/user-1/conversations?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	convs.AssertNumberOfCalls(t, "ListByUser", 2)
}

