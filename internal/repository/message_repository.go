package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Yadavkshivam/Baat-kare/internal/models"
)

type MessageRepository interface {
	Save(ctx context.Context, message *models.Message) error
	ListByRoom(ctx context.Context, roomID uuid.UUID) ([]*models.Message, error)
}

type PostgresMessagesRepo struct {
	pool *pgxpool.Pool
}

func NewMessagesRepo(pool *pgxpool.Pool) MessageRepository {
	return &PostgresMessagesRepo{pool: pool}
}

func (r *PostgresMessagesRepo) Save(ctx context.Context, m *models.Message) error {
	translations, err := json.Marshal(m.Translations)
	if err != nil {
		return fmt.Errorf("failed to encode translations: %w", err)
	}

	const query = `
		INSERT INTO messages (id, room_id, sender_id, original_text, original_language, translations, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`

	_, err = r.pool.Exec(ctx, query,
		m.ID,
		m.RoomID,
		m.SenderID,
		m.OriginalText,
		m.OriginalLanguage,
		translations,
		m.CreatedAt,
	)

	if err != nil {
		log.Printf("[REPO ERROR] Failed to save message %s from %s: %v", m.ID, m.SenderID, err)
		return fmt.Errorf("failed to save message: %w", err)
	}

	return nil
}

// ListByRoom returns the room's full history in creation order. The
// id tie-break keeps the order stable when two messages land in the
// same microsecond.
func (r *PostgresMessagesRepo) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]*models.Message, error) {
	const query = `
		SELECT m.id, m.room_id, m.sender_id, u.name, m.original_text, m.original_language, m.translations, m.created_at
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.room_id = $1
		ORDER BY m.created_at ASC, m.id ASC
	`

	rows, err := r.pool.Query(ctx, query, roomID)
	if err != nil {
		log.Printf("[REPO ERROR] ListByRoom failed for room %s: %v", roomID, err)
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []*models.Message
	for rows.Next() {
		m := &models.Message{}
		var translations []byte
		err := rows.Scan(
			&m.ID,
			&m.RoomID,
			&m.SenderID,
			&m.SenderName,
			&m.OriginalText,
			&m.OriginalLanguage,
			&translations,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		if err := json.Unmarshal(translations, &m.Translations); err != nil {
			return nil, fmt.Errorf("failed to decode translations for message %s: %w", m.ID, err)
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}
