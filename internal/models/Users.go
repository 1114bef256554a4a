package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Password_Hash string    `json:"-"`
	// PreferredLanguage is the code every message is projected into
	// for this user. Defaults to "en".
	PreferredLanguage string    `json:"preferredLanguage"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
