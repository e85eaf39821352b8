package main

import (
	"context"
	"log"
	"os"
	"time"

	"notesapi/internal/database"
	"notesapi/internal/repository"
)

// Batch hygiene for auth state: expired refresh-token whitelist entries
// and stale password-reset tokens. Run from cron; the server also prunes
// a user's expired refresh tokens inline on login.
func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	ctx := context.Background()
	now := time.Now()

	refreshTokens, err := repository.NewRefreshTokenRepository(db).DeleteExpired(ctx, now)
	if err != nil {
		log.Fatalf("cleanup refresh_tokens failed: %v", err)
	}

	resetTokens, err := repository.NewUserRepository(db).ClearExpiredResetTokens(ctx, now)
	if err != nil {
		log.Fatalf("cleanup reset tokens failed: %v", err)
	}

	log.Printf("auth cleanup completed: refresh_tokens=%d reset_tokens=%d", refreshTokens, resetTokens)
}
