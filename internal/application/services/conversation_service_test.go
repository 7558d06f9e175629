package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/navina/travelguide/internal/application/assistant"
	"github.com/navina/travelguide/internal/domain/entities"
	apperrors "github.com/navina/travelguide/pkg/errors"
)

type fixedSource struct{}

func (fixedSource) IntN(int) int { return 0 }

func newTestConversationService(repo *MockConversationRepo, bus *MockEventBus) *ConversationService {
	classifier := assistant.NewClassifier(nil, assistant.WithRandomSource(fixedSource{}))
	if bus == nil {
		return NewConversationService(repo, classifier, nil, 10)
	}
	return NewConversationService(repo, classifier, bus, 10)
}

func isSender(sender entities.Sender) interface{} {
	return mock.MatchedBy(func(m entities.Message) bool { return m.Sender == sender })
}

func TestConversationService_StartConversationSeedsWelcome(t *testing.T) {
	repo := new(MockConversationRepo)
	svc := newTestConversationService(repo, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*entities.Conversation")).Return(nil)

	loc := entities.GeoPoint{Latitude: 37.9715, Longitude: 23.7268}
	conv, err := svc.StartConversation(context.Background(), "user-1", &entities.ConversationContext{UserLocation: &loc})
	require.NoError(t, err)

	assert.NotEmpty(t, conv.ID)
	assert.Equal(t, "user-1", conv.UserID)
	require.Len(t, conv.Messages, 1)
	assert.Equal(t, entities.SenderSystem, conv.Messages[0].Sender)
	assert.Equal(t, "Hello! I'm Navina, your personal travel guide. How can I help you today?", conv.Messages[0].Content)
	require.NotNil(t, conv.Context.UserLocation)
	assert.Equal(t, loc, *conv.Context.UserLocation)
	repo.AssertExpectations(t)
}

func TestConversationService_StartConversationRequiresUser(t *testing.T) {
	svc := newTestConversationService(new(MockConversationRepo), nil)

	_, err := svc.StartConversation(context.Background(), "", nil)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestConversationService_ProcessUserMessageStoresPatch(t *testing.T) {
	repo := new(MockConversationRepo)
	bus := new(MockEventBus)
	svc := newTestConversationService(repo, bus)
	ctx := context.Background()

	repo.On("AppendMessage", mock.Anything, "conv-1", isSender(entities.SenderUser), (*entities.ConversationContext)(nil)).
		Return(&entities.Conversation{ID: "conv-1"}, nil).Once()
	repo.On("AppendMessage", mock.Anything, "conv-1", isSender(entities.SenderSystem), &entities.ConversationContext{LastPOI: "acropolis001"}).
		Return(&entities.Conversation{ID: "conv-1", Context: entities.ConversationContext{LastPOI: "acropolis001"}}, nil).Once()
	bus.On("Publish", mock.Anything, "conversation:conv-1", mock.AnythingOfType("*entities.ConversationEvent")).Return(nil).Twice()

	result, err := svc.ProcessUserMessage(ctx, "conv-1", "Tell me about the Acropolis", nil)
	require.NoError(t, err)

	assert.Equal(t, assistant.IntentPlaceInfo, result.Intent)
	assert.Equal(t, "Tell me about the Acropolis", result.UserMessage.Content)
	assert.Equal(t, []string{"acropolis001"}, result.Reply.RelatedPOIs)
	assert.Equal(t, "acropolis001", result.Context.LastPOI)
	repo.AssertExpectations(t)
	bus.AssertExpectations(t)
}

func TestConversationService_ProcessUserMessageUsesStoredContext(t *testing.T) {
	repo := new(MockConversationRepo)
	svc := newTestConversationService(repo, nil)

	stored := &entities.Conversation{ID: "conv-2", Context: entities.ConversationContext{LastPOI: "acropolis001"}}
	repo.On("AppendMessage", mock.Anything, "conv-2", isSender(entities.SenderUser), (*entities.ConversationContext)(nil)).
		Return(stored, nil).Once()
	repo.On("AppendMessage", mock.Anything, "conv-2", isSender(entities.SenderSystem), (*entities.ConversationContext)(nil)).
		Return(stored, nil).Once()

	result, err := svc.ProcessUserMessage(context.Background(), "conv-2", "How do I get there?", nil)
	require.NoError(t, err)

	assert.Equal(t, assistant.IntentDirections, result.Intent)
	assert.Contains(t, result.Reply.Content, "To get to the Acropolis")
	assert.Equal(t, "acropolis001", result.Context.LastPOI)
}

func TestConversationService_ProcessUserMessageMergesClientContext(t *testing.T) {
	repo := new(MockConversationRepo)
	svc := newTestConversationService(repo, nil)

	client := &entities.ConversationContext{LastPOI: "zeus001"}
	merged := &entities.Conversation{ID: "conv-3", Context: entities.ConversationContext{LastPOI: "zeus001"}}
	repo.On("AppendMessage", mock.Anything, "conv-3", isSender(entities.SenderUser), client).Return(merged, nil).Once()
	repo.On("AppendMessage", mock.Anything, "conv-3", isSender(entities.SenderSystem), (*entities.ConversationContext)(nil)).Return(merged, nil).Once()

	result, err := svc.ProcessUserMessage(context.Background(), "conv-3", "how do i get there", client)
	require.NoError(t, err)
	assert.Contains(t, result.Reply.Content, "Temple of Olympian Zeus")
}

func TestConversationService_ProcessUserMessageIgnoresPublishFailure(t *testing.T) {
	repo := new(MockConversationRepo)
	bus := new(MockEventBus)
	svc := newTestConversationService(repo, bus)

	conv := &entities.Conversation{ID: "conv-4"}
	repo.On("AppendMessage", mock.Anything, "conv-4", mock.Anything, mock.Anything).Return(conv, nil)
	bus.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))

	result, err := svc.ProcessUserMessage(context.Background(), "conv-4", "hello", nil)
	require.NoError(t, err)
	assert.Equal(t, assistant.IntentGreeting, result.Intent)
}

func TestConversationService_ProcessUserMessageErrors(t *testing.T) {
	repo := new(MockConversationRepo)
	svc := newTestConversationService(repo, nil)

	_, err := svc.ProcessUserMessage(context.Background(), "conv-5", "   ", nil)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))

	repo.On("AppendMessage", mock.Anything, "missing", mock.Anything, mock.Anything).
		Return(nil, apperrors.NewNotFoundError("conversation with id missing not found"))
	_, err = svc.ProcessUserMessage(context.Background(), "missing", "hello", nil)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestConversationService_ConversationHistory(t *testing.T) {
	repo := new(MockConversationRepo)
	svc := newTestConversationService(repo, nil)

	repo.On("ListByUser", mock.Anything, "user-1", 10).Return([]*entities.Conversation{{ID: "c2"}, {ID: "c1"}}, nil)
	repo.On("ListByUser", mock.Anything, "user-1", 1).Return([]*entities.Conversation{{ID: "c2"}}, nil)

	convs, err := svc.ConversationHistory(context.Background(), "user-1", nil)
	require.NoError(t, err)
	assert.Len(t, convs, 2)

	one := 1
	convs, err = svc.ConversationHistory(context.Background(), "user-1", &one)
	require.NoError(t, err)
	assert.Len(t, convs, 1)

	negative := -2
	_, err = svc.ConversationHistory(context.Background(), "user-1", &negative)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvalidArgument))
}
