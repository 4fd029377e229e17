package main

import (
	"context"
	"log"
	"os"

	"blogauth/internal/database"
	"blogauth/internal/repository"
)

// Consumed and revoked refresh tokens are deleted inline; expired ones
// are left stale and only rejected on use. This job sweeps them out.
func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := database.Connect(databaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	tokenRepo := repository.NewRefreshTokenRepository(db)
	deleted, err := tokenRepo.DeleteExpired(context.Background())
	if err != nil {
		log.Fatalf("cleanup refresh_tokens failed: %v", err)
	}

	log.Printf("token cleanup completed: refresh_tokens=%d", deleted)
}
