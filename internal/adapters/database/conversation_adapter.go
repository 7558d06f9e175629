package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/lib/pq"

	"github.com/navina/travelguide/internal/domain/entities"
	"github.com/navina/travelguide/internal/domain/repositories"
	"github.com/navina/travelguide/internal/infrastructure/clients/postgres"
	apperrors "github.com/navina/travelguide/pkg/errors"
)

// ConversationAdapter implements ConversationRepository. Messages live in
// conversation_messages ordered by position; the context is a JSONB column
// on conversations.
type ConversationAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewConversationAdapter creates a new conversation adapter
func NewConversationAdapter(client *postgres.Client) repositories.ConversationRepository {
	return &ConversationAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create stores a conversation and its initial messages in one transaction
func (a *ConversationAdapter) Create(ctx context.Context, conv *entities.Conversation) error {
	convCtx, err := json.Marshal(conv.Context)
	if err != nil {
		return apperrors.NewInternalError("failed to encode conversation context", err)
	}

	return a.client.WithTx(ctx, func(tx *sql.Tx) error {
		query, args, err := a.db.Insert("conversations").Rows(goqu.Record{
			"id":            conv.ID,
			"user_id":       conv.UserID,
			"context":       string(convCtx),
			"message_count": len(conv.Messages),
			"created_at":    conv.CreatedAt,
			"updated_at":    conv.UpdatedAt,
		}).ToSQL()
		if err != nil {
			return apperrors.NewInternalError("failed to build insert query", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return apperrors.NewInternalError("failed to create conversation", err)
		}

		for i, msg := range conv.Messages {
			if err := a.insertMessage(ctx, tx, conv.ID, i+1, msg); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByID retrieves a conversation with its full transcript
func (a *ConversationAdapter) GetByID(ctx context.Context, id string) (*entities.Conversation, error) {
	query, args, err := a.db.Select("id", "user_id", "context", "created_at", "updated_at").
		From("conversations").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	conv, err := scanConversation(a.client.DB().QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, notFoundConversation(id)
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get conversation", err)
	}

	conv.Messages, err = a.listMessages(ctx, a.client.DB(), id)
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// AppendMessage appends msg and merges patch into the stored context. The
// conversation row is locked for the duration so concurrent appends are
// serialized and the last writer wins on context fields.
func (a *ConversationAdapter) AppendMessage(ctx context.Context, id string, msg entities.Message, patch *entities.ConversationContext) (*entities.Conversation, error) {
	var conv *entities.Conversation

	err := a.client.WithTx(ctx, func(tx *sql.Tx) error {
		query, args, err := a.db.Select("id", "user_id", "context", "created_at", "updated_at", "message_count").
			From("conversations").
			Where(goqu.Ex{"id": id}).
			ForUpdate(exp.Wait).
			ToSQL()
		if err != nil {
			return apperrors.NewInternalError("failed to build query", err)
		}

		var count int
		conv, count, err = scanLockedConversation(tx.QueryRowContext(ctx, query, args...))
		if err == sql.ErrNoRows {
			return notFoundConversation(id)
		}
		if err != nil {
			return apperrors.NewInternalError("failed to lock conversation", err)
		}

		if err := a.insertMessage(ctx, tx, id, count+1, msg); err != nil {
			return err
		}

		if patch != nil {
			conv.Context = conv.Context.Merge(*patch)
		}
		convCtx, err := json.Marshal(conv.Context)
		if err != nil {
			return apperrors.NewInternalError("failed to encode conversation context", err)
		}
		conv.UpdatedAt = time.Now()

		query, args, err = a.db.Update("conversations").
			Set(goqu.Record{
				"context":       string(convCtx),
				"message_count": count + 1,
				"updated_at":    conv.UpdatedAt,
			}).
			Where(goqu.Ex{"id": id}).
			ToSQL()
		if err != nil {
			return apperrors.NewInternalError("failed to build update query", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return apperrors.NewInternalError("failed to update conversation", err)
		}

		conv.Messages, err = a.listMessages(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return conv, nil
}

// GetContext retrieves only the stored context
func (a *ConversationAdapter) GetContext(ctx context.Context, id string) (entities.ConversationContext, error) {
	query, args, err := a.db.Select("context").
		From("conversations").
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return entities.ConversationContext{}, apperrors.NewInternalError("failed to build query", err)
	}

	var raw []byte
	err = a.client.DB().QueryRowContext(ctx, query, args...).Scan(&raw)
	if err == sql.ErrNoRows {
		return entities.ConversationContext{}, notFoundConversation(id)
	}
	if err != nil {
		return entities.ConversationContext{}, apperrors.NewInternalError("failed to get conversation context", err)
	}

	var convCtx entities.ConversationContext
	if err := decodeJSONB(raw, &convCtx); err != nil {
		return entities.ConversationContext{}, apperrors.NewInternalError("failed to decode conversation context", err)
	}
	return convCtx, nil
}

// ListByUser retrieves a user's most recently updated conversations
func (a *ConversationAdapter) ListByUser(ctx context.Context, userID string, limit int) ([]*entities.Conversation, error) {
	query, args, err := a.db.Select("id", "user_id", "context", "created_at", "updated_at").
		From("conversations").
		Where(goqu.Ex{"user_id": userID}).
		Order(goqu.I("updated_at").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list conversations", err)
	}
	defer rows.Close()

	convs := []*entities.Conversation{}
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan conversation", err)
		}
		convs = append(convs, conv)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate conversations", err)
	}

	for _, conv := range convs {
		if conv.Messages, err = a.listMessages(ctx, a.client.DB(), conv.ID); err != nil {
			return nil, err
		}
	}
	return convs, nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func (a *ConversationAdapter) listMessages(ctx context.Context, q queryer, conversationID string) ([]entities.Message, error) {
	query, args, err := a.db.Select("id", "sender", "content", "related_pois", "related_tours", "created_at").
		From("conversation_messages").
		Where(goqu.Ex{"conversation_id": conversationID}).
		Order(goqu.I("position").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list messages", err)
	}
	defer rows.Close()

	messages := []entities.Message{}
	for rows.Next() {
		var msg entities.Message
		var sender string
		if err := rows.Scan(
			&msg.ID,
			&sender,
			&msg.Content,
			pq.Array(&msg.RelatedPOIs),
			pq.Array(&msg.RelatedTours),
			&msg.Timestamp,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan message", err)
		}
		msg.Sender = entities.Sender(sender)
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate messages", err)
	}
	return messages, nil
}

func (a *ConversationAdapter) insertMessage(ctx context.Context, tx *sql.Tx, conversationID string, position int, msg entities.Message) error {
	query, args, err := a.db.Insert("conversation_messages").Rows(goqu.Record{
		"id":              msg.ID,
		"conversation_id": conversationID,
		"position":        position,
		"sender":          string(msg.Sender),
		"content":         msg.Content,
		"related_pois":    pq.Array(nonNil(msg.RelatedPOIs)),
		"related_tours":   pq.Array(nonNil(msg.RelatedTours)),
		"created_at":      msg.Timestamp,
	}).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to append message", err)
	}
	return nil
}

func scanConversation(row rowScanner) (*entities.Conversation, error) {
	conv := &entities.Conversation{}
	var raw []byte
	if err := row.Scan(&conv.ID, &conv.UserID, &raw, &conv.CreatedAt, &conv.UpdatedAt); err != nil {
		return nil, err
	}
	if err := decodeJSONB(raw, &conv.Context); err != nil {
		return nil, err
	}
	return conv, nil
}

func scanLockedConversation(row rowScanner) (*entities.Conversation, int, error) {
	conv := &entities.Conversation{}
	var raw []byte
	var count int
	if err := row.Scan(&conv.ID, &conv.UserID, &raw, &conv.CreatedAt, &conv.UpdatedAt, &count); err != nil {
		return nil, 0, err
	}
	if err := decodeJSONB(raw, &conv.Context); err != nil {
		return nil, 0, err
	}
	return conv, count, nil
}

func notFoundConversation(id string) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("conversation with id %s not found", id))
}
