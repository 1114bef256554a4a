package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Yadavkshivam/Baat-kare/internal/links"
	"github.com/Yadavkshivam/Baat-kare/internal/models"
	"github.com/Yadavkshivam/Baat-kare/internal/repository"
)

// RoomService owns the durable side of rooms: creation, idempotent
// join, participant-only access and the caller's room list.
type RoomService struct {
	rooms repository.RoomRepository
}

func NewRoomService(rooms repository.RoomRepository) *RoomService {
	return &RoomService{rooms: rooms}
}

func (s *RoomService) Create(ctx context.Context, creatorID uuid.UUID) (*models.Room, error) {
	room := &models.Room{
		ID:        uuid.New(),
		JoinCode:  links.NewJoinCode(),
		CreatedBy: creatorID,
		IsActive:  true,
	}

	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	log.Printf("[ROOM] Created room %s (code %s) by %s", room.ID, room.JoinCode, creatorID)

	// The repo wrote the creator as the first participant; reload so
	// the returned room carries the populated set.
	return s.rooms.GetByID(ctx, room.ID)
}

// Join adds the user to the room behind the join code. Joining a room
// the user already belongs to is a no-op that returns the room as-is.
func (s *RoomService) Join(ctx context.Context, joinCode string, userID uuid.UUID) (*models.Room, error) {
	if !links.IsValidJoinCode(joinCode) {
		return nil, fmt.Errorf("%w: malformed join code", ErrValidation)
	}

	room, err := s.rooms.GetByJoinCode(ctx, joinCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !room.IsActive {
		return nil, ErrRoomInactive
	}

	if room.HasParticipant(userID) {
		return room, nil
	}

	if err := s.rooms.AddParticipant(ctx, room.ID, userID); err != nil {
		return nil, err
	}

	log.Printf("[ROOM] User %s joined room %s", userID, room.ID)
	return s.rooms.GetByID(ctx, room.ID)
}

// GetByID returns room details for a participant. Non-participants
// get ErrForbidden, which deliberately differs from ErrNotFound.
func (s *RoomService) GetByID(ctx context.Context, roomID, requesterID uuid.UUID) (*models.Room, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !room.HasParticipant(requesterID) {
		return nil, ErrForbidden
	}

	return room, nil
}

// ListForUser returns the caller's active rooms, most recently
// updated first.
func (s *RoomService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Room, error) {
	return s.rooms.ListForUser(ctx, userID)
}
