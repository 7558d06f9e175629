package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/navina/travelguide/internal/domain/entities"
)

type MockPOIRepo struct {
	mock.Mock
}

func (m *MockPOIRepo) Create(ctx context.Context, poi *entities.POI) error {
	return m.Called(ctx, poi).Error(0)
}
func (m *MockPOIRepo) GetByID(ctx context.Context, id string) (*entities.POI, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.POI), args.Error(1)
}
func (m *MockPOIRepo) GetByIDs(ctx context.Context, ids []string) ([]*entities.POI, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.POI), args.Error(1)
}
func (m *MockPOIRepo) ListActive(ctx context.Context) ([]*entities.POI, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.POI), args.Error(1)
}

type MockTourRepo struct {
	mock.Mock
}

func (m *MockTourRepo) Create(ctx context.Context, tour *entities.Tour) error {
	return m.Called(ctx, tour).Error(0)
}
func (m *MockTourRepo) GetByID(ctx context.Context, id string) (*entities.Tour, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Tour), args.Error(1)
}
func (m *MockTourRepo) GetByIDs(ctx context.Context, ids []string) ([]*entities.Tour, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Tour), args.Error(1)
}
func (m *MockTourRepo) ListActive(ctx context.Context) ([]*entities.Tour, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Tour), args.Error(1)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *entities.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}
func (m *MockUserRepo) UpdatePreferences(ctx context.Context, id string, prefs entities.Preferences) error {
	return m.Called(ctx, id, prefs).Error(0)
}

type MockConversationRepo struct {
	mock.Mock
}

func (m *MockConversationRepo) Create(ctx context.Context, conv *entities.Conversation) error {
	return m.Called(ctx, conv).Error(0)
}
func (m *MockConversationRepo) GetByID(ctx context.Context, id string) (*entities.Conversation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Conversation), args.Error(1)
}
func (m *MockConversationRepo) AppendMessage(ctx context.Context, id string, msg entities.Message, patch *entities.ConversationContext) (*entities.Conversation, error) {
	args := m.Called(ctx, id, msg, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Conversation), args.Error(1)
}
func (m *MockConversationRepo) GetContext(ctx context.Context, id string) (entities.ConversationContext, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entities.ConversationContext), args.Error(1)
}
func (m *MockConversationRepo) ListByUser(ctx context.Context, userID string, limit int) ([]*entities.Conversation, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Conversation), args.Error(1)
}

type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, channel string, event *entities.ConversationEvent) error {
	return m.Called(ctx, channel, event).Error(0)
}
func (m *MockEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.ConversationEvent, error) {
	args := m.Called(ctx, channel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan *entities.ConversationEvent), args.Error(1)
}
func (m *MockEventBus) Unsubscribe(ctx context.Context, channel string) error {
	return m.Called(ctx, channel).Error(0)
}
func (m *MockEventBus) Close() error {
	return m.Called().Error(0)
}
