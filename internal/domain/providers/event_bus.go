package providers

import (
	"context"

	"github.com/navina/travelguide/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to conversation events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.ConversationEvent) error

	// Subscribe subscribes to events on a channel until ctx is done
	Subscribe(ctx context.Context, channel string) (<-chan *entities.ConversationEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelConversationPrefix is the prefix for conversation-specific channels
const EventChannelConversationPrefix = "conversation:"

// GetConversationChannel returns the channel name for a specific conversation
func GetConversationChannel(conversationID string) string {
	return EventChannelConversationPrefix + conversationID
}
