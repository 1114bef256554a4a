package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Yadavkshivam/Baat-kare/internal/langs"
	"github.com/Yadavkshivam/Baat-kare/internal/models"
	"github.com/Yadavkshivam/Baat-kare/internal/repository"
	"github.com/Yadavkshivam/Baat-kare/internal/types"
)

// TranslationResolver is the slice of internal/translate the message
// write path needs.
type TranslationResolver interface {
	ForLanguages(ctx context.Context, text, sourceLang string, targetLangs []string) map[string]string
}

// MessageService is the single write path for messages. Whether a
// send arrives over HTTP or is replayed over the live connection, the
// translation mapping and the stored record are produced here exactly
// once.
type MessageService struct {
	messages repository.MessageRepository
	rooms    repository.RoomRepository
	resolver TranslationResolver
}

func NewMessageService(messages repository.MessageRepository, rooms repository.RoomRepository, resolver TranslationResolver) *MessageService {
	return &MessageService{
		messages: messages,
		rooms:    rooms,
		resolver: resolver,
	}
}

// Append persists a new message with translations for every distinct
// participant language at call time. The participant set is a
// snapshot: concurrent sends each take their own and never merge.
// Translation failures degrade to original text and never fail the
// send.
func (s *MessageService) Append(ctx context.Context, roomID, senderID uuid.UUID, text string) (*models.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: message text is empty", ErrValidation)
	}

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var sender *models.Participant
	targets := make([]string, 0, len(room.Participants))
	for i := range room.Participants {
		p := &room.Participants[i]
		if p.ID == senderID {
			sender = p
			continue
		}
		targets = append(targets, langs.OrDefault(p.PreferredLanguage))
	}
	if sender == nil {
		return nil, ErrForbidden
	}

	sourceLang := langs.OrDefault(sender.PreferredLanguage)

	message := &models.Message{
		ID:               uuid.New(),
		RoomID:           room.ID,
		SenderID:         senderID,
		SenderName:       sender.Name,
		OriginalText:     text,
		OriginalLanguage: sourceLang,
		Translations:     s.resolver.ForLanguages(ctx, text, sourceLang, targets),
		CreatedAt:        time.Now(),
	}

	if err := s.messages.Save(ctx, message); err != nil {
		return nil, err
	}

	return message, nil
}

// ListByRoom returns the room history projected into the reader's
// preferred language. Messages stored before the reader joined fall
// back to their original text; translations are never recomputed.
func (s *MessageService) ListByRoom(ctx context.Context, roomID, readerID uuid.UUID) ([]types.MessageView, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	readerLang := langs.Default
	found := false
	for _, p := range room.Participants {
		if p.ID == readerID {
			readerLang = langs.OrDefault(p.PreferredLanguage)
			found = true
			break
		}
	}
	if !found {
		return nil, ErrForbidden
	}

	messages, err := s.messages.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	views := make([]types.MessageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, types.NewMessageView(m, readerLang))
	}

	return views, nil
}
