package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5"

	"github.com/Yadavkshivam/Baat-kare/internal/auth"
	"github.com/Yadavkshivam/Baat-kare/internal/chat"
	"github.com/Yadavkshivam/Baat-kare/internal/middleware"
	"github.com/Yadavkshivam/Baat-kare/internal/repository"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  512,
	WriteBufferSize: 512,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWS authenticates the handshake and hands the connection to the
// hub. The token must arrive with the handshake; any failure gets the
// same generic rejection so a caller cannot probe which check failed,
// and no session is created.
func ServeWS(hub *chat.Hub, tm *auth.TokenManager, users repository.UserRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := middleware.TokenFrom(r)
		if token == "" {
			http.Error(w, "Authentication error", http.StatusUnauthorized)
			return
		}

		claims, err := tm.ValidateToken(token)
		if err != nil {
			log.Printf("[WS] Handshake rejected from %s: %v", middleware.GetIP(r), err)
			http.Error(w, "Authentication error", http.StatusUnauthorized)
			return
		}

		user, err := users.GetUserByID(r.Context(), claims.UserID)
		if err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				log.Printf("[WS] User lookup failed during handshake: %v", err)
			}
			http.Error(w, "Authentication error", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("[WS] Upgrade error: %v", err)
			return
		}

		limiter := middleware.NewRateLimiter(5, 500*time.Millisecond)
		client := chat.NewClient(hub, conn, user.ID, user.Name, limiter)

		hub.Register(client)
		log.Printf("[WS] User connected: %s", user.Name)

		go client.WritePump()
		go client.ReadPump()
	}
}
