package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lorrc/home-services-backend/internal/core/domain"
	apperrors "github.com/lorrc/home-services-backend/internal/core/errors"
	"github.com/lorrc/home-services-backend/internal/core/ports"
)

// ConversationRepository is the secondary adapter for chat threads and their
// messages. Message writes also maintain the denormalized last_message and
// unread_count columns on the parent conversation, so they run in a
// transaction.
type ConversationRepository struct {
	pool      *pgxpool.Pool
	txManager *TransactionManager
}

var _ ports.ConversationRepository = (*ConversationRepository)(nil)

// NewConversationRepository creates a new conversation repository.
func NewConversationRepository(pool *pgxpool.Pool, txManager *TransactionManager) ports.ConversationRepository {
	return &ConversationRepository{pool: pool, txManager: txManager}
}

const conversationColumns = `id, business_id, contact_id, last_message,
last_message_at, unread_count, created_at`

func scanConversation(row pgx.Row) (*domain.Conversation, error) {
	var (
		c           domain.Conversation
		contactID   pgtype.Int8
		lastMessage pgtype.Text
	)
	err := row.Scan(
		&c.ID, &c.BusinessID, &contactID, &lastMessage,
		&c.LastMessageAt, &c.UnreadCount, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.ContactID = int8OrNil(contactID)
	c.LastMessage = textOrEmpty(lastMessage)
	return &c, nil
}

// Create persists a new conversation.
func (r *ConversationRepository) Create(ctx context.Context, conversation *domain.Conversation) (*domain.Conversation, error) {
	const query = `
INSERT INTO conversations (business_id, contact_id, last_message, last_message_at)
VALUES ($1, $2, $3, $4)
RETURNING ` + conversationColumns

	row := GetDBTX(ctx, r.pool).QueryRow(ctx, query,
		conversation.BusinessID, int8OrNull(conversation.ContactID),
		textOrNull(conversation.LastMessage), conversation.LastMessageAt,
	)
	return scanConversation(row)
}

// GetByID retrieves a single conversation by its ID.
func (r *ConversationRepository) GetByID(ctx context.Context, id int64) (*domain.Conversation, error) {
	const query = `SELECT ` + conversationColumns + ` FROM conversations WHERE id = $1`

	conversation, err := scanConversation(GetDBTX(ctx, r.pool).QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrConversationNotFound
		}
		return nil, err
	}
	return conversation, nil
}

// ListByBusiness retrieves every conversation for one business, most recently
// active first.
func (r *ConversationRepository) ListByBusiness(ctx context.Context, businessID int64) ([]*domain.Conversation, error) {
	const query = `SELECT ` + conversationColumns + ` FROM conversations
WHERE business_id = $1 ORDER BY last_message_at DESC`

	rows, err := GetDBTX(ctx, r.pool).Query(ctx, query, businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conversations := make([]*domain.Conversation, 0)
	for rows.Next() {
		conversation, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		conversations = append(conversations, conversation)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return conversations, nil
}

func scanMessage(row pgx.Row) (*domain.Message, error) {
	var m domain.Message
	err := row.Scan(
		&m.ID, &m.ConversationID, &m.Content, &m.IsFromBusiness,
		&m.Status, &m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateMessage inserts a message and updates the parent conversation's
// preview columns in the same transaction. Inbound visitor messages bump
// the unread counter; business replies do not.
func (r *ConversationRepository) CreateMessage(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	const insertQuery = `
INSERT INTO messages (conversation_id, content, is_from_business, status)
VALUES ($1, $2, $3, $4)
RETURNING id, conversation_id, content, is_from_business, status, created_at`

	const touchQuery = `
UPDATE conversations
SET last_message = $2,
    last_message_at = NOW(),
    unread_count = unread_count + $3
WHERE id = $1`

	var created *domain.Message
	err := r.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		db := GetDBTX(ctx, r.pool)

		row := db.QueryRow(ctx, insertQuery,
			message.ConversationID, message.Content,
			message.IsFromBusiness, string(message.Status),
		)
		inserted, err := scanMessage(row)
		if err != nil {
			return err
		}

		unreadDelta := 1
		if message.IsFromBusiness {
			unreadDelta = 0
		}
		tag, err := db.Exec(ctx, touchQuery, message.ConversationID, message.Content, unreadDelta)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrConversationNotFound
		}

		created = inserted
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ListMessages retrieves every message in a conversation, oldest first.
func (r *ConversationRepository) ListMessages(ctx context.Context, conversationID int64) ([]*domain.Message, error) {
	const query = `
SELECT id, conversation_id, content, is_from_business, status, created_at
FROM messages
WHERE conversation_id = $1
ORDER BY created_at ASC, id ASC`

	rows, err := GetDBTX(ctx, r.pool).Query(ctx, query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]*domain.Message, 0)
	for rows.Next() {
		message, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkMessagesRead marks all unread inbound messages as read and clears the
// conversation's unread counter in the same transaction.
func (r *ConversationRepository) MarkMessagesRead(ctx context.Context, conversationID int64) error {
	const readQuery = `
UPDATE messages
SET status = 'read'
WHERE conversation_id = $1
  AND is_from_business = FALSE
  AND status = 'unread'`

	const clearQuery = `
UPDATE conversations
SET unread_count = 0
WHERE id = $1`

	return r.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		db := GetDBTX(ctx, r.pool)

		if _, err := db.Exec(ctx, readQuery, conversationID); err != nil {
			return err
		}
		tag, err := db.Exec(ctx, clearQuery, conversationID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrConversationNotFound
		}
		return nil
	})
}
