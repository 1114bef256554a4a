package api

import (
	"net/http"

	"github.com/Yadavkshivam/Baat-kare/internal/auth"
	"github.com/Yadavkshivam/Baat-kare/internal/chat"
	"github.com/Yadavkshivam/Baat-kare/internal/middleware"
	"github.com/Yadavkshivam/Baat-kare/internal/repository"
	"github.com/Yadavkshivam/Baat-kare/internal/service"
)

// Deps is everything the HTTP surface needs, constructed once in main
// and passed down explicitly.
type Deps struct {
	Tokens        *auth.TokenManager
	Users         repository.UserRepository
	RefreshTokens repository.RefreshTokenRepository
	Rooms         *service.RoomService
	Messages      *service.MessageService
	Hub           *chat.Hub
	Limiter       *middleware.IPRateLimiter
	ClientURL     string
}

func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	authenticate := middleware.Authenticate(d.Tokens, d.Users)
	protected := func(h http.HandlerFunc) http.Handler { return authenticate(h) }

	mux.HandleFunc("POST /api/auth/signup", SignupHandler(d.Tokens, d.Users, d.RefreshTokens))
	mux.HandleFunc("POST /api/auth/login", LoginHandler(d.Tokens, d.Users, d.RefreshTokens))
	mux.HandleFunc("POST /api/auth/refresh", RefreshHandler(d.Tokens, d.RefreshTokens))
	mux.HandleFunc("POST /api/auth/logout", LogoutHandler(d.RefreshTokens))
	mux.Handle("GET /api/auth/me", protected(MeHandler()))

	mux.Handle("POST /api/rooms", protected(CreateRoomHandler(d.Rooms, d.ClientURL)))
	mux.Handle("POST /api/rooms/join/{code}", protected(JoinRoomHandler(d.Rooms)))
	mux.Handle("GET /api/rooms", protected(ListRoomsHandler(d.Rooms)))
	mux.Handle("GET /api/rooms/{roomId}", protected(GetRoomHandler(d.Rooms)))

	mux.Handle("GET /api/messages/{roomId}", protected(GetMessagesHandler(d.Messages)))
	mux.Handle("POST /api/messages", protected(SendMessageHandler(d.Messages)))

	mux.HandleFunc("GET /ws", ServeWS(d.Hub, d.Tokens, d.Users))

	return middleware.RateLimit(d.Limiter)(mux)
}
