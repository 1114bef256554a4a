package tasks

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Yadavkshivam/Baat-kare/internal/repository"
)

type TokenCleaner struct {
	repo repository.RefreshTokenRepository
}

func NewTokenCleaner(repo repository.RefreshTokenRepository) *TokenCleaner {
	return &TokenCleaner{
		repo: repo,
	}
}

func (t *TokenCleaner) Start() {
	c := cron.New()

	_, err := c.AddFunc("0 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()

		if err := t.repo.DeleteExpiredTokens(ctx); err != nil {
			log.Printf("[WORKER] Token cleanup failed: %v", err)
			return
		}
	})
	if err != nil {
		log.Printf("[WORKER] Error scheduling cron: %v", err)
		return
	}

	c.Start()
}
