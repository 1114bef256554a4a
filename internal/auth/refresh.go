package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/Yadavkshivam/Baat-kare/internal/models"
)

const refreshTokenTTL = 7 * 24 * time.Hour

// HashRefreshToken produces the sha256 digest stored in the database;
// the raw token only ever lives in the client's cookie.
func HashRefreshToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// CreateRefreshToken returns the raw token for the cookie and the
// model (with hashed token) for persistence.
func CreateRefreshToken(userID uuid.UUID, userAgent, ip string) (string, *models.RefreshToken, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", nil, err
	}
	raw := hex.EncodeToString(buf)

	model := &models.RefreshToken{
		ID:          uuid.New(),
		UserID:      userID,
		TokenHashed: HashRefreshToken(raw),
		UserAgent:   userAgent,
		ClientIP:    net.ParseIP(ip),
		ExpiresAt:   time.Now().Add(refreshTokenTTL),
		CreatedAt:   time.Now(),
	}

	return raw, model, nil
}
