package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/Yadavkshivam/Baat-kare/internal/middleware"
	"github.com/Yadavkshivam/Baat-kare/internal/service"
	"github.com/Yadavkshivam/Baat-kare/internal/types"
)

// GetMessagesHandler returns the room history projected into the
// caller's preferred language.
func GetMessagesHandler(messages *service.MessageService) http.HandlerFunc {
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

		views, err := messages.ListByRoom(r.Context(), roomID, user.ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, views)
	}
}

// SendMessageHandler is the authoritative write path: it persists the
// message with its full translation mapping and returns it. The
// sender's client then replays the stored message over the live
// connection for fan-out, so storage and broadcast can never diverge.
func SendMessageHandler(messages *service.MessageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.UserFrom(r.Context())
		if !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}

		var payload types.SendMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		message, err := messages.Append(r.Context(), payload.RoomID, user.ID, payload.Text)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		// The full mapping is exposed on purpose: the sender renders
		// its own text without another round trip.
		writeJSON(w, http.StatusCreated, message)
	}
}
