package repository

import (
	"context"

	"github.com/himesh-bhushan/catchup-backend/internal/models"
)

type ChatMessageRepository struct {
	db DBTX
}

func NewChatMessageRepository(db DBTX) *ChatMessageRepository {
	return &ChatMessageRepository{db: db}
}

func (r *ChatMessageRepository) Append(ctx context.Context, msg *models.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (id, user_id, sender, type, content)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	return r.db.QueryRow(ctx, query, msg.ID, msg.UserID, msg.Sender, msg.Type, msg.Content).
		Scan(&msg.CreatedAt)
}

// ListByUser returns the full transcript, oldest first.
func (r *ChatMessageRepository) ListByUser(ctx context.Context, userID int64) ([]models.ChatMessage, error) {
	query := `
		SELECT id, user_id, sender, type, content, created_at
		FROM chat_messages
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]models.ChatMessage, 0)
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Sender, &m.Type, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *ChatMessageRepository) DeleteByUser(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM chat_messages WHERE user_id = $1`, userID)
	return err
}
