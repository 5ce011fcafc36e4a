package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/xavierca1/funnel-agent/internal/entity"
)

var ErrConversationNotFound = errors.New("conversation not found")

type ConversationRepository struct {
	DB *sql.DB
}

func NewConversationRepository(db *sql.DB) *ConversationRepository {
	return &ConversationRepository{DB: db}
}

// Upsert persists the transcript keyed by session id. The messages column
// holds the serialized history; updated_at tracks the last turn.
func (r *ConversationRepository) Upsert(ctx context.Context, c *entity.Conversation) error {
	now := time.Now()
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO conversations (lead_id, session_id, messages, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (session_id)
		 DO UPDATE SET
			lead_id = COALESCE(excluded.lead_id, conversations.lead_id),
			messages = excluded.messages,
			updated_at = excluded.updated_at
		 RETURNING id, created_at`,
		c.LeadID, c.SessionID, c.Messages, now, now,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return err
	}
	c.UpdatedAt = now
	return nil
}

func (r *ConversationRepository) GetBySession(ctx context.Context, sessionID string) (*entity.Conversation, error) {
	var c entity.Conversation
	var leadID sql.NullInt64
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, lead_id, session_id, messages, created_at, updated_at
		 FROM conversations WHERE session_id = ?`, sessionID,
	).Scan(&c.ID, &leadID, &c.SessionID, &c.Messages, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	if leadID.Valid {
		c.LeadID = &leadID.Int64
	}
	return &c, nil
}
