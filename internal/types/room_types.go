package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/Yadavkshivam/Baat-kare/internal/models"
)

type CreateRoomResponse struct {
	ID            uuid.UUID `json:"id"`
	JoinCode      string    `json:"joinCode"`
	ShareableLink string    `json:"shareableLink"`
}

type SendMessageRequest struct {
	RoomID uuid.UUID `json:"roomId"`
	Text   string    `json:"text"`
}

// MessageView is a message projected into one reader's language, the
// shape returned by the history endpoint.
type MessageView struct {
	ID               uuid.UUID `json:"id"`
	SenderID         uuid.UUID `json:"senderId"`
	SenderName       string    `json:"senderName"`
	OriginalText     string    `json:"originalText"`
	TranslatedText   string    `json:"translatedText"`
	OriginalLanguage string    `json:"originalLanguage"`
	CreatedAt        time.Time `json:"createdAt"`
}

func NewMessageView(m *models.Message, readerLang string) MessageView {
	return MessageView{
		ID:               m.ID,
		SenderID:         m.SenderID,
		SenderName:       m.SenderName,
		OriginalText:     m.OriginalText,
		TranslatedText:   m.TextFor(readerLang),
		OriginalLanguage: m.OriginalLanguage,
		CreatedAt:        m.CreatedAt,
	}
}
