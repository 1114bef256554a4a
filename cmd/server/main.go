package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Yadavkshivam/Baat-kare/internal/api"
	"github.com/Yadavkshivam/Baat-kare/internal/auth"
	"github.com/Yadavkshivam/Baat-kare/internal/chat"
	"github.com/Yadavkshivam/Baat-kare/internal/config"
	"github.com/Yadavkshivam/Baat-kare/internal/db"
	"github.com/Yadavkshivam/Baat-kare/internal/middleware"
	"github.com/Yadavkshivam/Baat-kare/internal/repository"
	"github.com/Yadavkshivam/Baat-kare/internal/service"
	"github.com/Yadavkshivam/Baat-kare/internal/tasks"
	"github.com/Yadavkshivam/Baat-kare/internal/translate"
)

func main() {

	cfg := config.Load()

	pool, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer pool.Close()

	userRepo := repository.NewUserRepo(pool)
	roomRepo := repository.NewRoomRepo(pool)
	messageRepo := repository.NewMessagesRepo(pool)
	refreshRepo := repository.NewRefreshTokenRepo(pool)

	tokens := auth.NewTokenManager(cfg.AuthKey)
	resolver := translate.NewResolver(translate.NewHTTPProvider(cfg.TranslateAPIURL), cfg.TranslateTimeout)

	rooms := service.NewRoomService(roomRepo)
	messages := service.NewMessageService(messageRepo, roomRepo, resolver)

	hub := chat.NewHub()
	go hub.Run()

	cleaner := tasks.NewTokenCleaner(refreshRepo)
	cleaner.Start()

	router := api.NewRouter(api.Deps{
		Tokens:        tokens,
		Users:         userRepo,
		RefreshTokens: refreshRepo,
		Rooms:         rooms,
		Messages:      messages,
		Hub:           hub,
		Limiter:       middleware.NewIPRateLimiter(10, 20),
		ClientURL:     cfg.ClientURL,
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		fmt.Printf("Baat Kare server starting on :%s...\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop

	fmt.Println("\nShutdown signal received. Cleaning up...")
	close(hub.Quit)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	fmt.Println("Graceful shutdown complete. Goodnight!")
}
