package main

import (
	"context"
	"log"

	"blogauth/internal/database"
	"blogauth/internal/domain"
	"blogauth/internal/repository"
)

const (
	adminEmail    = "admin@blogauth.local"
	adminPassword = "Admin123"
)

// Seeds a local database with an admin account and a demo user.
func main() {
	db, err := database.Connect("blogauth.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepository(db)

	seedUser(ctx, userRepo, &domain.User{
		FirstName: "Site",
		LastName:  "Admin",
		Username:  "admin",
		Email:     adminEmail,
	}, adminPassword, domain.RoleAdmin, domain.RoleUser)

	seedUser(ctx, userRepo, &domain.User{
		FirstName: "Demo",
		LastName:  "User",
		Username:  "demo",
		Email:     "demo@blogauth.local",
	}, "Demo1234", domain.RoleUser)

	log.Println("Seed completed")
}

func seedUser(ctx context.Context, repo *repository.UserRepository, u *domain.User, password string, roles ...string) {
	if exists, err := repo.ExistsByEmail(ctx, u.Email); err != nil {
		log.Fatalf("seed %s: %v", u.Username, err)
	} else if exists {
		log.Printf("seed %s: already present, skipping", u.Username)
		return
	}

	problems, err := repo.Create(ctx, u, password)
	if err != nil {
		log.Fatalf("seed %s: %v", u.Username, err)
	}
	if len(problems) > 0 {
		log.Fatalf("seed %s: %v", u.Username, problems)
	}
	for _, role := range roles {
		if err := repo.AddRole(ctx, u.ID, role); err != nil {
			log.Fatalf("seed %s role %s: %v", u.Username, role, err)
		}
	}
	log.Printf("seeded %s (%s)", u.Username, u.Email)
}
