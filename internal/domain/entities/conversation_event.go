package entities

import "time"

// ConversationEventType represents the type of conversation event
type ConversationEventType string

const (
	// ConversationEventMessageAppended fires after a message is stored
	ConversationEventMessageAppended ConversationEventType = "message_appended"
)

// ConversationEvent represents a change to a conversation transcript
type ConversationEvent struct {
	ID             string                `json:"id"`
	ConversationID string                `json:"conversation_id"`
	EventType      ConversationEventType `json:"event_type"`
	Message        Message               `json:"message"`
	Timestamp      time.Time             `json:"timestamp"`
}

// NewMessageAppendedEvent builds the event published for a stored message
func NewMessageAppendedEvent(id, conversationID string, msg Message) *ConversationEvent {
	return &ConversationEvent{
		ID:             id,
		ConversationID: conversationID,
		EventType:      ConversationEventMessageAppended,
		Message:        msg,
		Timestamp:      time.Now(),
	}
}
