package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Yadavkshivam/Baat-kare/internal/models"
)

// fakeRoomRepo is an in-memory RoomRepository. Participant details
// are resolved from the users table the test seeds.
type fakeRoomRepo struct {
	mu     sync.Mutex
	rooms  map[uuid.UUID]*models.Room
	byCode map[string]uuid.UUID
	users  map[uuid.UUID]models.Participant
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{
		rooms:  make(map[uuid.UUID]*models.Room),
		byCode: make(map[string]uuid.UUID),
		users:  make(map[uuid.UUID]models.Participant),
	}
}

func (f *fakeRoomRepo) addUser(name, lang string) uuid.UUID {
	id := uuid.New()
	f.users[id] = models.Participant{ID: id, Name: name, PreferredLanguage: lang}
	return id
}

func (f *fakeRoomRepo) Create(ctx context.Context, room *models.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now()
	room.CreatedAt = now
	room.UpdatedAt = now

	stored := *room
	stored.Participants = []models.Participant{f.participant(room.CreatedBy)}
	f.rooms[room.ID] = &stored
	f.byCode[room.JoinCode] = room.ID
	return nil
}

func (f *fakeRoomRepo) participant(userID uuid.UUID) models.Participant {
	p, ok := f.users[userID]
	if !ok {
		p = models.Participant{ID: userID, Name: "Unknown", PreferredLanguage: "en"}
	}
	p.JoinedAt = time.Now()
	return p
}

func (f *fakeRoomRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	room, ok := f.rooms[id]
	if !ok {
		return nil, fmt.Errorf("failed to find room by id: %w", pgx.ErrNoRows)
	}
	clone := *room
	clone.Participants = append([]models.Participant(nil), room.Participants...)
	return &clone, nil
}

func (f *fakeRoomRepo) GetByJoinCode(ctx context.Context, code string) (*models.Room, error) {
	f.mu.Lock()
	id, ok := f.byCode[code]
	f.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("failed to find room by join code: %w", pgx.ErrNoRows)
	}
	return f.GetByID(ctx, id)
}

func (f *fakeRoomRepo) AddParticipant(ctx context.Context, roomID, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	room, ok := f.rooms[roomID]
	if !ok {
		return fmt.Errorf("failed to add participant: %w", pgx.ErrNoRows)
	}
	if room.HasParticipant(userID) {
		return nil
	}
	room.Participants = append(room.Participants, f.participant(userID))
	room.UpdatedAt = time.Now()
	return nil
}

func (f *fakeRoomRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []*models.Room
	for _, room := range f.rooms {
		if room.IsActive && room.HasParticipant(userID) {
			clone := *room
			result = append(result, &clone)
		}
	}
	return result, nil
}

// fakeMessageRepo stores messages in append order.
type fakeMessageRepo struct {
	mu       sync.Mutex
	messages []*models.Message
}

func (f *fakeMessageRepo) Save(ctx context.Context, m *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	clone := *m
	f.messages = append(f.messages, &clone)
	return nil
}

func (f *fakeMessageRepo) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []*models.Message
	for _, m := range f.messages {
		if m.RoomID == roomID {
			result = append(result, m)
		}
	}
	return result, nil
}

// stubResolver translates by prefixing the target language, the same
// visible shape the provider stub in internal/translate uses.
type stubResolver struct{}

func (stubResolver) ForLanguages(ctx context.Context, text, sourceLang string, targetLangs []string) map[string]string {
	mapping := map[string]string{sourceLang: text}
	for _, lang := range targetLangs {
		if lang == sourceLang {
			continue
		}
		mapping[lang] = "[" + lang + "] " + text
	}
	return mapping
}
