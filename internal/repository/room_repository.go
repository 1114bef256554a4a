package repository

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Yadavkshivam/Baat-kare/internal/models"
)

type RoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error)
	GetByJoinCode(ctx context.Context, code string) (*models.Room, error)
	AddParticipant(ctx context.Context, roomID, userID uuid.UUID) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Room, error)
}

type PostgresRoomRepo struct {
	pool *pgxpool.Pool
}

func NewRoomRepo(pool *pgxpool.Pool) RoomRepository {
	return &PostgresRoomRepo{pool: pool}
}

func (r *PostgresRoomRepo) Create(ctx context.Context, room *models.Room) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin room create: %w", err)
	}
	defer tx.Rollback(ctx)

	const insertRoom = `
		INSERT INTO rooms (id, join_code, created_by, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`
	err = tx.QueryRow(ctx, insertRoom,
		room.ID,
		room.JoinCode,
		room.CreatedBy,
		room.IsActive,
	).Scan(&room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert room: %w", err)
	}

	const insertCreator = `
		INSERT INTO room_participants (room_id, user_id) VALUES ($1, $2)
	`
	if _, err := tx.Exec(ctx, insertCreator, room.ID, room.CreatedBy); err != nil {
		return fmt.Errorf("failed to insert creator participant: %w", err)
	}

	return tx.Commit(ctx)
}

func (r *PostgresRoomRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	const query = `
		SELECT id, join_code, created_by, is_active, created_at, updated_at
		FROM rooms
		WHERE id = $1
	`

	room := &models.Room{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&room.ID,
		&room.JoinCode,
		&room.CreatedBy,
		&room.IsActive,
		&room.CreatedAt,
		&room.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find room by id: %w", err)
	}

	if err := r.loadParticipants(ctx, room); err != nil {
		return nil, err
	}

	return room, nil
}

func (r *PostgresRoomRepo) GetByJoinCode(ctx context.Context, code string) (*models.Room, error) {
	const query = `
		SELECT id, join_code, created_by, is_active, created_at, updated_at
		FROM rooms
		WHERE join_code = $1
	`

	room := &models.Room{}
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&room.ID,
		&room.JoinCode,
		&room.CreatedBy,
		&room.IsActive,
		&room.CreatedAt,
		&room.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find room by join code: %w", err)
	}

	if err := r.loadParticipants(ctx, room); err != nil {
		return nil, err
	}

	return room, nil
}

// AddParticipant appends the user to the room's participant set. The
// insert is idempotent (ON CONFLICT DO NOTHING), so concurrent joins
// of the same user cannot produce duplicates or lost updates, and
// updated_at only moves when the set actually grew.
func (r *PostgresRoomRepo) AddParticipant(ctx context.Context, roomID, userID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin join: %w", err)
	}
	defer tx.Rollback(ctx)

	const insert = `
		INSERT INTO room_participants (room_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (room_id, user_id) DO NOTHING
	`
	tag, err := tx.Exec(ctx, insert, roomID, userID)
	if err != nil {
		log.Printf("[REPO ERROR] Failed to add participant %s to room %s: %v", userID, roomID, err)
		return fmt.Errorf("failed to add participant: %w", err)
	}

	if tag.RowsAffected() > 0 {
		const touch = `UPDATE rooms SET updated_at = now() WHERE id = $1`
		if _, err := tx.Exec(ctx, touch, roomID); err != nil {
			return fmt.Errorf("failed to touch room: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func (r *PostgresRoomRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Room, error) {
	const query = `
		SELECT r.id, r.join_code, r.created_by, r.is_active, r.created_at, r.updated_at
		FROM rooms r
		JOIN room_participants rp ON rp.room_id = r.id
		WHERE rp.user_id = $1 AND r.is_active
		ORDER BY r.updated_at DESC
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		log.Printf("[REPO ERROR] ListForUser failed for %s: %v", userID, err)
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	var rooms []*models.Room
	for rows.Next() {
		room := &models.Room{}
		err := rows.Scan(
			&room.ID,
			&room.JoinCode,
			&room.CreatedBy,
			&room.IsActive,
			&room.CreatedAt,
			&room.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rooms: %w", err)
	}

	for _, room := range rooms {
		if err := r.loadParticipants(ctx, room); err != nil {
			return nil, err
		}
	}

	return rooms, nil
}

// loadParticipants fills the room's participant slice in join order.
func (r *PostgresRoomRepo) loadParticipants(ctx context.Context, room *models.Room) error {
	const query = `
		SELECT u.id, u.name, u.preferred_language, rp.joined_at
		FROM room_participants rp
		JOIN users u ON u.id = rp.user_id
		WHERE rp.room_id = $1
		ORDER BY rp.joined_at ASC
	`

	rows, err := r.pool.Query(ctx, query, room.ID)
	if err != nil {
		return fmt.Errorf("failed to load participants: %w", err)
	}
	defer rows.Close()

	room.Participants = room.Participants[:0]
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.Name, &p.PreferredLanguage, &p.JoinedAt); err != nil {
			return fmt.Errorf("failed to scan participant: %w", err)
		}
		room.Participants = append(room.Participants, p)
	}
	return rows.Err()
}
