package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Yadavkshivam/Baat-kare/internal/auth"
	"github.com/Yadavkshivam/Baat-kare/internal/langs"
	"github.com/Yadavkshivam/Baat-kare/internal/middleware"
	"github.com/Yadavkshivam/Baat-kare/internal/models"
	"github.com/Yadavkshivam/Baat-kare/internal/repository"
	"github.com/Yadavkshivam/Baat-kare/internal/types"
)

func isValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

func setSessionCookies(w http.ResponseWriter, accessToken, refreshToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Path:     "/",
		Expires:  time.Now().Add(15 * time.Minute),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})

	http.SetCookie(w, &http.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Path:     "/api/auth/refresh",
		Expires:  time.Now().Add(7 * 24 * time.Hour),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func SignupHandler(tm *auth.TokenManager, repoUser repository.UserRepository, repoRefreshToken repository.RefreshTokenRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload types.RegisterRequest

		userAgent := r.UserAgent()
		ip := middleware.GetIP(r)

		dbctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			log.Printf("[SIGNUP] Decode error: %v", err)
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		payload.Name = strings.TrimSpace(payload.Name)
		payload.Email = strings.TrimSpace(strings.ToLower(payload.Email))

		if payload.Name == "" || payload.Email == "" || payload.Password == "" {
			log.Println("[SIGNUP] Missing fields in request")
			http.Error(w, "All fields (name, email, password) are required", http.StatusBadRequest)
			return
		}

		if !isValidEmail(payload.Email) {
			http.Error(w, "Invalid email format", http.StatusBadRequest)
			return
		}

		if len(payload.Password) < 8 {
			http.Error(w, "Password must be at least 8 characters", http.StatusBadRequest)
			return
		}

		preferred := langs.Default
		if payload.PreferredLanguage != "" {
			preferred = langs.Normalize(payload.PreferredLanguage)
			if !langs.IsSupported(preferred) {
				http.Error(w, "Unsupported language code", http.StatusBadRequest)
				return
			}
		}

		existingEmail, err := repoUser.GetUserByEmail(dbctx, payload.Email)
		if err == nil && existingEmail != nil {
			http.Error(w, "Email already exists", http.StatusConflict)
			return
		} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		hashed, err := auth.HashPassword(payload.Password)
		if err != nil {
			log.Printf("[SIGNUP] Hashing error: %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		user := &models.User{
			ID:                uuid.New(),
			Name:              payload.Name,
			Email:             payload.Email,
			Password_Hash:     hashed,
			PreferredLanguage: preferred,
		}

		if err := repoUser.CreateUser(dbctx, user); err != nil {
			log.Printf("[SIGNUP] DB Create error for %s: %v", payload.Email, err)
			http.Error(w, "Failed to create user", http.StatusInternalServerError)
			return
		}

		token, err := tm.GenerateToken(user.ID)
		if err != nil {
			log.Printf("[SIGNUP] Token generation failed: %v", err)
			http.Error(w, "User created, but failed to start session. Please login.", http.StatusCreated)
			return
		}

		refreshToken, refreshTokenModel, err := auth.CreateRefreshToken(user.ID, userAgent, ip)
		if err != nil {
			log.Printf("[SIGNUP] Refresh Token generation failed for %s: %v", user.ID, err)
			http.Error(w, "Failed to create session", http.StatusInternalServerError)
			return
		}

		if err := repoRefreshToken.SaveRefreshToken(dbctx, refreshTokenModel); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				log.Printf("[SIGNUP] Postgres Error: Code %s, Message: %s", pgErr.Code, pgErr.Message)
			} else {
				log.Printf("[SIGNUP] Unknown Database Error: %v", err)
			}
			http.Error(w, "Failed to initialize session", http.StatusInternalServerError)
			return
		}

		setSessionCookies(w, token, refreshToken)

		log.Printf("[SIGNUP] Success: New user created: %s", user.Email)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(types.NewUserDTO(user))
	}
}

func LoginHandler(tm *auth.TokenManager, repoUser repository.UserRepository, repoRefreshToken repository.RefreshTokenRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload types.LoginRequest

		userAgent := r.UserAgent()
		ip := middleware.GetIP(r)

		dbctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			log.Printf("[LOGIN] Decode error: %v", err)
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}

		payload.Email = strings.TrimSpace(strings.ToLower(payload.Email))
		if payload.Email == "" || payload.Password == "" {
			http.Error(w, "Email and password are required", http.StatusBadRequest)
			return
		}

		user, err := repoUser.GetUserByEmail(dbctx, payload.Email)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				log.Printf("[LOGIN] User not found: %s", payload.Email)
				http.Error(w, "Invalid email or password", http.StatusUnauthorized)
				return
			}
			log.Printf("[LOGIN] Database error for %s: %v", payload.Email, err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if !auth.VerifyPassword(payload.Password, user.Password_Hash) {
			log.Printf("[LOGIN] Invalid password for user: %s", payload.Email)
			http.Error(w, "Invalid email or password", http.StatusUnauthorized)
			return
		}

		token, err := tm.GenerateToken(user.ID)
		if err != nil {
			log.Printf("[LOGIN] Access Token generation failed for %s: %v", user.ID, err)
			http.Error(w, "Failed to create session", http.StatusInternalServerError)
			return
		}

		refreshToken, refreshTokenModel, err := auth.CreateRefreshToken(user.ID, userAgent, ip)
		if err != nil {
			log.Printf("[LOGIN] Refresh Token generation failed for %s: %v", user.ID, err)
			http.Error(w, "Failed to create session", http.StatusInternalServerError)
			return
		}

		if err := repoRefreshToken.SaveRefreshToken(dbctx, refreshTokenModel); err != nil {
			log.Printf("[LOGIN] Failed to save refresh token: %v", err)
			http.Error(w, "Failed to initialize session", http.StatusInternalServerError)
			return
		}

		setSessionCookies(w, token, refreshToken)

		log.Printf("[LOGIN] Success: User %s logged in", user.Email)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(struct {
			Token string        `json:"token"`
			User  types.UserDTO `json:"user"`
		}{Token: token, User: types.NewUserDTO(user)})
	}
}

func LogoutHandler(repoRefreshToken repository.RefreshTokenRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("refresh_token")
		dbctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err == nil {
			token, err := repoRefreshToken.GetTokenByHash(dbctx, auth.HashRefreshToken(cookie.Value))
			if err == nil {
				_ = repoRefreshToken.RevokeToken(dbctx, token.ID)
			}
		}

		past := time.Unix(0, 0)

		http.SetCookie(w, &http.Cookie{
			Name:  "access_token",
			Value: "", Path: "/",
			Expires:  past,
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteNoneMode,
		})

		http.SetCookie(w, &http.Cookie{
			Name:     "refresh_token",
			Value:    "",
			Path:     "/api/auth/refresh",
			Expires:  past,
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteNoneMode,
		})

		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Logged Out Successfully"))
	}
}

func RefreshHandler(tm *auth.TokenManager, repoRefreshToken repository.RefreshTokenRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userAgent := r.UserAgent()
		ipStr := middleware.GetIP(r)

		dbctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		cookie, err := r.Cookie("refresh_token")
		if err != nil {
			log.Printf("[AUTH] Refresh attempt failed: Missing cookie (IP: %s)", ipStr)
			http.Error(w, "Refresh token required", http.StatusUnauthorized)
			return
		}

		tokenModel, err := repoRefreshToken.GetTokenByHash(dbctx, auth.HashRefreshToken(cookie.Value))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				log.Printf("[SECURITY] Potential Token Reuse or Invalid Token (IP: %s)", ipStr)
				http.Error(w, "Invalid session", http.StatusUnauthorized)
				return
			}
			log.Printf("[ERROR] Database failure during refresh lookup: %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if time.Now().After(tokenModel.ExpiresAt) {
			log.Printf("[AUTH] Session expired for User: %s", tokenModel.UserID)
			http.Error(w, "Session expired", http.StatusUnauthorized)
			return
		}

		if tokenModel.UserAgent != userAgent {
			log.Printf("[SECURITY ALERT] Context mismatch for User %s", tokenModel.UserID)
			http.Error(w, "Security context mismatch", http.StatusUnauthorized)
			return
		}

		if err := repoRefreshToken.RevokeToken(dbctx, tokenModel.ID); err != nil {
			log.Printf("[ERROR] Failed to rotate token %s: %v", tokenModel.ID, err)
			http.Error(w, "Could not refresh session", http.StatusInternalServerError)
			return
		}

		accessToken, err := tm.GenerateToken(tokenModel.UserID)
		if err != nil {
			log.Printf("[ERROR] JWT Generation error: %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		rawRefreshToken, newRefreshModel, err := auth.CreateRefreshToken(tokenModel.UserID, userAgent, ipStr)
		if err != nil {
			log.Printf("[ERROR] Refresh string generation error: %v", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		if err := repoRefreshToken.SaveRefreshToken(dbctx, newRefreshModel); err != nil {
			log.Printf("[ERROR] Failed to save new refresh token for user %s: %v", tokenModel.UserID, err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		setSessionCookies(w, accessToken, rawRefreshToken)

		log.Printf("[AUTH] Session rotated successfully for User: %s", tokenModel.UserID)
		w.WriteHeader(http.StatusOK)
	}
}

// MeHandler returns the authenticated user's profile.
func MeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.UserFrom(r.Context())
		if !ok {
			http.Error(w, "Authentication required", http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(types.NewUserDTO(user))
	}
}
