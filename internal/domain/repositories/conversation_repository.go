package repositories

import (
	"context"

	"github.com/navina/travelguide/internal/domain/entities"
)

// ConversationRepository stores chat transcripts and their context.
// Context writes are last-write-wins.
type ConversationRepository interface {
	// Create stores a new conversation with its initial messages
	Create(ctx context.Context, conversation *entities.Conversation) error

	// GetByID retrieves a conversation with its full transcript
	GetByID(ctx context.Context, id string) (*entities.Conversation, error)

	// AppendMessage appends msg and, when patch is non-nil, merges it into
	// the stored context. Returns the updated conversation.
	AppendMessage(ctx context.Context, id string, msg entities.Message, patch *entities.ConversationContext) (*entities.Conversation, error)

	// GetContext retrieves only the stored context
	GetContext(ctx context.Context, id string) (entities.ConversationContext, error)

	// ListByUser retrieves the most recently updated conversations of a user
	ListByUser(ctx context.Context, userID string, limit int) ([]*entities.Conversation, error)
}
