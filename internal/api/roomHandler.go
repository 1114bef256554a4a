package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/Yadavkshivam/Baat-kare/internal/links"
	"github.com/Yadavkshivam/Baat-kare/internal/middleware"
	"github.com/Yadavkshivam/Baat-kare/internal/service"
	"github.com/Yadavkshivam/Baat-kare/internal/types"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeServiceError maps the service error taxonomy onto HTTP status
// codes. Anything unrecognized is a 500 and gets logged.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, "Chat not found", http.StatusNotFound)
	case errors.Is(err, service.ErrRoomInactive):
		http.Error(w, "This chat is no longer active", http.StatusBadRequest)
	case errors.Is(err, service.ErrForbidden):
		http.Error(w, "Access denied", http.StatusForbidden)
	case errors.Is(err, service.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Printf("[ERROR] Unhandled service error: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func CreateRoomHandler(rooms *service.RoomService, clientURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.UserFrom(r.Context())
		if !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		room, err := rooms.Create(r.Context(), user.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, types.CreateRoomResponse{
			ID:            room.ID,
			JoinCode:      room.JoinCode,
			ShareableLink: links.Shareable(clientURL, room.JoinCode),
		})
	}
}

func JoinRoomHandler(rooms *service.RoomService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.UserFrom(r.Context())
		if !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		room, err := rooms.Join(r.Context(), r.PathValue("code"), user.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, room)
	}
}

func GetRoomHandler(rooms *service.RoomService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.UserFrom(r.Context())
		if !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		roomID, err := uuid.Parse(r.PathValue("roomId"))
		if err != nil {
			http.Error(w, "Invalid room id", http.StatusBadRequest)
			return
		}

		room, err := rooms.GetByID(r.Context(), roomID, user.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, room)
	}
}

func ListRoomsHandler(rooms *service.RoomService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.UserFrom(r.Context())
		if !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		list, err := rooms.ListForUser(r.Context(), user.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, list)
	}
}
