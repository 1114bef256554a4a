package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMessageFixture(t *testing.T) (*MessageService, *RoomService, *fakeRoomRepo, *fakeMessageRepo) {
	t.Helper()
	roomRepo := newFakeRoomRepo()
	messageRepo := &fakeMessageRepo{}
	rooms := NewRoomService(roomRepo)
	messages := NewMessageService(messageRepo, roomRepo, stubResolver{})
	return messages, rooms, roomRepo, messageRepo
}

func TestAppend_TranslatesForEveryParticipantLanguage(t *testing.T) {
	messages, rooms, roomRepo, _ := newMessageFixture(t)
	ctx := context.Background()

	alice := roomRepo.addUser("Alice", "en")
	bob := roomRepo.addUser("Bob", "hi")

	room, err := rooms.Create(ctx, alice)
	require.NoError(t, err)
	_, err = rooms.Join(ctx, room.JoinCode, bob)
	require.NoError(t, err)

	msg, err := messages.Append(ctx, room.ID, alice, "Hello")
	require.NoError(t, err)

	assert.Equal(t, "en", msg.OriginalLanguage)
	assert.Equal(t, "Hello", msg.Translations["en"])
	assert.Equal(t, "[hi] Hello", msg.Translations["hi"])
	assert.Equal(t, "Alice", msg.SenderName)
	// Every language that belonged to a participant at send time has
	// an entry.
	assert.Len(t, msg.Translations, 2)
}

func TestAppend_TrimsAndRejectsEmptyText(t *testing.T) {
	messages, rooms, roomRepo, _ := newMessageFixture(t)
	ctx := context.Background()

	alice := roomRepo.addUser("Alice", "en")
	room, err := rooms.Create(ctx, alice)
	require.NoError(t, err)

	_, err = messages.Append(ctx, room.ID, alice, "   \n\t ")
	assert.ErrorIs(t, err, ErrValidation)

	msg, err := messages.Append(ctx, room.ID, alice, "  Hello  ")
	require.NoError(t, err)
	assert.Equal(t, "Hello", msg.OriginalText)
}

func TestAppend_NonParticipantIsForbidden(t *testing.T) {
	messages, rooms, roomRepo, _ := newMessageFixture(t)
	ctx := context.Background()

	alice := roomRepo.addUser("Alice", "en")
	mallory := roomRepo.addUser("Mallory", "en")

	room, err := rooms.Create(ctx, alice)
	require.NoError(t, err)

	_, err = messages.Append(ctx, room.ID, mallory, "hi there")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAppend_UnknownRoom(t *testing.T) {
	messages, _, roomRepo, _ := newMessageFixture(t)

	alice := roomRepo.addUser("Alice", "en")
	_, err := messages.Append(context.Background(), uuid.New(), alice, "hello")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListByRoom_PreservesAppendOrder(t *testing.T) {
	messages, rooms, roomRepo, _ := newMessageFixture(t)
	ctx := context.Background()

	alice := roomRepo.addUser("Alice", "en")
	room, err := rooms.Create(ctx, alice)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err := messages.Append(ctx, room.ID, alice, fmt.Sprintf("message %d", i))
		require.NoError(t, err)
	}

	views, err := messages.ListByRoom(ctx, room.ID, alice)
	require.NoError(t, err)
	require.Len(t, views, 5)
	for i, v := range views {
		assert.Equal(t, fmt.Sprintf("message %d", i), v.OriginalText)
	}
}

func TestListByRoom_ProjectsIntoReaderLanguage(t *testing.T) {
	messages, rooms, roomRepo, _ := newMessageFixture(t)
	ctx := context.Background()

	alice := roomRepo.addUser("Alice", "en")
	bob := roomRepo.addUser("Bob", "hi")

	room, err := rooms.Create(ctx, alice)
	require.NoError(t, err)
	_, err = rooms.Join(ctx, room.JoinCode, bob)
	require.NoError(t, err)

	_, err = messages.Append(ctx, room.ID, alice, "Hello")
	require.NoError(t, err)

	bobViews, err := messages.ListByRoom(ctx, room.ID, bob)
	require.NoError(t, err)
	require.Len(t, bobViews, 1)
	assert.Equal(t, "[hi] Hello", bobViews[0].TranslatedText)
	assert.Equal(t, "Hello", bobViews[0].OriginalText)

	aliceViews, err := messages.ListByRoom(ctx, room.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, "Hello", aliceViews[0].TranslatedText)
}

func TestListByRoom_LateJoinerFallsBackToOriginal(t *testing.T) {
	messages, rooms, roomRepo, _ := newMessageFixture(t)
	ctx := context.Background()

	alice := roomRepo.addUser("Alice", "en")
	bob := roomRepo.addUser("Bob", "hi")
	carol := roomRepo.addUser("Carol", "fr")

	room, err := rooms.Create(ctx, alice)
	require.NoError(t, err)
	_, err = rooms.Join(ctx, room.JoinCode, bob)
	require.NoError(t, err)

	// Stored before Carol joined: no fr entry, ever.
	before, err := messages.Append(ctx, room.ID, alice, "Hello")
	require.NoError(t, err)
	assert.NotContains(t, before.Translations, "fr")

	_, err = rooms.Join(ctx, room.JoinCode, carol)
	require.NoError(t, err)

	after, err := messages.Append(ctx, room.ID, alice, "Welcome Carol")
	require.NoError(t, err)
	assert.Equal(t, "[fr] Welcome Carol", after.Translations["fr"])

	views, err := messages.ListByRoom(ctx, room.ID, carol)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "Hello", views[0].TranslatedText, "pre-join message degrades to original text")
	assert.Equal(t, "[fr] Welcome Carol", views[1].TranslatedText)
}

func TestListByRoom_NonParticipantIsForbidden(t *testing.T) {
	messages, rooms, roomRepo, _ := newMessageFixture(t)
	ctx := context.Background()

	alice := roomRepo.addUser("Alice", "en")
	mallory := roomRepo.addUser("Mallory", "en")

	room, err := rooms.Create(ctx, alice)
	require.NoError(t, err)

	_, err = messages.ListByRoom(ctx, room.ID, mallory)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = messages.ListByRoom(ctx, uuid.New(), alice)
	assert.ErrorIs(t, err, ErrNotFound)
}
