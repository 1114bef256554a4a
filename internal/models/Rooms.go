package models

import (
	"time"

	"github.com/google/uuid"
)

// Participant is the slice of a User a room needs to render members
// and resolve translation targets.
type Participant struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	PreferredLanguage string    `json:"preferredLanguage"`
	JoinedAt          time.Time `json:"joined_at"`
}

type Room struct {
	ID       uuid.UUID `json:"id"`
	JoinCode string    `json:"joinCode"`
	// Participants are ordered by join time. The set only grows while
	// the room is active; nothing in this service removes members.
	Participants []Participant `json:"participants"`
	CreatedBy    uuid.UUID     `json:"createdBy"`
	IsActive     bool          `json:"isActive"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// HasParticipant reports whether the identity already belongs to the
// room's durable participant set.
func (r *Room) HasParticipant(userID uuid.UUID) bool {
	for _, p := range r.Participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}
