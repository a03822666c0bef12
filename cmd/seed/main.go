package main

import (
	"log"

	"careconnect/internal/config"
	"careconnect/internal/database"
	"careconnect/internal/repository"
	"careconnect/internal/service"
)

// Seeds the demo caretaker roster. Safe to run repeatedly: existing
// caretakers are skipped.
func main() {
	cfg := config.Load()

	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations to ensure schema is up to date
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	caretakerRepo := repository.NewCaretakerRepository(db)
	seedService := service.NewSeedService(userRepo, caretakerRepo)

	log.Println("Starting caretaker seeding...")
	created, err := seedService.SeedCaretakers()
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Caretaker seeding completed: %d created", created)
}
