package models

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID         uuid.UUID `json:"id"`
	RoomID     uuid.UUID `json:"roomId"`
	SenderID   uuid.UUID `json:"senderId"`
	SenderName string    `json:"senderName"`

	OriginalText     string `json:"originalText"`
	OriginalLanguage string `json:"originalLanguage"`

	// Translations maps language code -> text. It always contains the
	// original language mapped to the original text, and is fixed at
	// creation: languages that join the room later are never filled in
	// retroactively.
	Translations map[string]string `json:"translations"`

	CreatedAt time.Time `json:"createdAt"`
}

// TextFor projects the message into the reader's language, falling
// back to the original text when no translation was stored.
func (m *Message) TextFor(lang string) string {
	if text, ok := m.Translations[lang]; ok {
		return text
	}
	return m.OriginalText
}
