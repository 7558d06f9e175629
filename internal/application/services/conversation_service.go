package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/navina/travelguide/internal/application/assistant"
	"github.com/navina/travelguide/internal/domain/entities"
	"github.com/navina/travelguide/internal/domain/providers"
	"github.com/navina/travelguide/internal/domain/repositories"
	"github.com/navina/travelguide/internal/infrastructure/observability"
	apperrors "github.com/navina/travelguide/pkg/errors"
)

var (
	intentCounterOnce sync.Once
	intentCounter     metric.Int64Counter
)

// ConversationService runs chat turns: it stores messages, asks the
// classifier for a reply and fans new messages out to subscribers.
type ConversationService struct {
	repo         repositories.ConversationRepository
	classifier   *assistant.Classifier
	eventBus     providers.EventBus
	historyLimit int
}

// TurnResult is the outcome of one processed user message
type TurnResult struct {
	Intent      assistant.Intent             `json:"intent"`
	UserMessage entities.Message             `json:"user_message"`
	Reply       entities.Message             `json:"reply"`
	Context     entities.ConversationContext `json:"context"`
}

// NewConversationService creates a new conversation service. eventBus may be nil.
func NewConversationService(
	repo repositories.ConversationRepository,
	classifier *assistant.Classifier,
	eventBus providers.EventBus,
	historyLimit int,
) *ConversationService {
	return &ConversationService{
		repo:         repo,
		classifier:   classifier,
		eventBus:     eventBus,
		historyLimit: historyLimit,
	}
}

// StartConversation opens a conversation for userID seeded with the welcome message
func (s *ConversationService) StartConversation(ctx context.Context, userID string, initial *entities.ConversationContext) (*entities.Conversation, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("user id is required")
	}

	now := time.Now()
	conv := &entities.Conversation{
		ID:     uuid.New().String(),
		UserID: userID,
		Messages: []entities.Message{{
			ID:           uuid.New().String(),
			Sender:       entities.SenderSystem,
			Content:      entities.WelcomeMessage,
			RelatedPOIs:  []string{},
			RelatedTours: []string{},
			Timestamp:    now,
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if initial != nil {
		conv.Context = entities.ConversationContext{}.Merge(*initial)
	}

	if err := s.repo.Create(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// ProcessUserMessage stores the user's text, merges any client-supplied
// context, classifies the text against the stored context and stores the
// reply together with its context patch.
func (s *ConversationService) ProcessUserMessage(ctx context.Context, conversationID, text string, clientContext *entities.ConversationContext) (*TurnResult, error) {
	if conversationID == "" {
		return nil, apperrors.NewValidationError("conversation id is required")
	}
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.NewValidationError("message text is required")
	}
	logger := observability.LoggerFromContext(ctx)

	userMsg := entities.Message{
		ID:           uuid.New().String(),
		Sender:       entities.SenderUser,
		Content:      text,
		RelatedPOIs:  []string{},
		RelatedTours: []string{},
		Timestamp:    time.Now(),
	}
	conv, err := s.repo.AppendMessage(ctx, conversationID, userMsg, clientContext)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, conversationID, userMsg)

	resp := s.classifier.Classify(text, conv.Context)

	reply := entities.Message{
		ID:           uuid.New().String(),
		Sender:       entities.SenderSystem,
		Content:      resp.Content,
		RelatedPOIs:  resp.RelatedPOIs,
		RelatedTours: resp.RelatedTours,
		Timestamp:    time.Now(),
	}
	var patch *entities.ConversationContext
	if !resp.ContextPatch.IsEmpty() {
		patch = &resp.ContextPatch
	}
	conv, err = s.repo.AppendMessage(ctx, conversationID, reply, patch)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, conversationID, reply)
	recordIntent(ctx, resp.Intent)

	logger.Debug().
		Str("conversation_id", conversationID).
		Str("intent", string(resp.Intent)).
		Int("related_pois", len(resp.RelatedPOIs)).
		Int("related_tours", len(resp.RelatedTours)).
		Msg("processed user message")

	return &TurnResult{
		Intent:      resp.Intent,
		UserMessage: userMsg,
		Reply:       reply,
		Context:     conv.Context,
	}, nil
}

// GetConversation retrieves a conversation with its transcript
func (s *ConversationService) GetConversation(ctx context.Context, id string) (*entities.Conversation, error) {
	if id == "" {
		return nil, apperrors.NewValidationError("conversation id is required")
	}
	return s.repo.GetByID(ctx, id)
}

// ConversationHistory lists the user's most recently updated conversations.
// A nil limit uses the configured default.
func (s *ConversationService) ConversationHistory(ctx context.Context, userID string, limit *int) ([]*entities.Conversation, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("user id is required")
	}
	n := s.historyLimit
	if limit != nil {
		n = *limit
	}
	if n < 0 {
		return nil, apperrors.NewInvalidArgumentError(fmt.Sprintf("limit must be >= 0, got %d", n))
	}
	if n == 0 {
		return []*entities.Conversation{}, nil
	}
	return s.repo.ListByUser(ctx, userID, n)
}

func (s *ConversationService) publish(ctx context.Context, conversationID string, msg entities.Message) {
	if s.eventBus == nil {
		return
	}
	event := entities.NewMessageAppendedEvent(uuid.New().String(), conversationID, msg)
	if err := s.eventBus.Publish(ctx, providers.GetConversationChannel(conversationID), event); err != nil {
		// the message is already stored; subscribers catch up on reconnect
		observability.LoggerFromContext(ctx).Warn().
			Err(err).
			Str("conversation_id", conversationID).
			Msg("failed to publish conversation event")
	}
}

func initIntentCounter() {
	meter := otel.Meter("github.com/navina/travelguide/assistant")
	counter, err := meter.Int64Counter(
		"assistant.intent.count",
		metric.WithDescription("Count of chat turns by classified intent"),
	)
	if err == nil {
		intentCounter = counter
	}
}

func recordIntent(ctx context.Context, intent assistant.Intent) {
	intentCounterOnce.Do(initIntentCounter)
	if intentCounter == nil {
		return
	}
	intentCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("assistant.intent", string(intent))))
}
