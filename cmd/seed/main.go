// Command seed fills the database with demo venues, profiles and reviews.
package main

import (
	"context"
	"flag"
	"log"

	"nightlife/internal/config"
	"nightlife/internal/database"
	"nightlife/internal/featureflags"
	"nightlife/internal/legacyid"
	"nightlife/internal/models"
	"nightlife/internal/repository"
	"nightlife/internal/seed"
)

func main() {
	users := flag.Int("users", 25, "Number of users to create")
	establishments := flag.Int("establishments", 15, "Number of establishments to create")
	employees := flag.Int("employees", 4, "Employees per establishment")
	comments := flag.Int("comments", 3, "Comments per employee")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	randSeed := flag.Int64("seed", 0, "Random seed for a reproducible run")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d establishments, clean=%v", *users, *establishments, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	summary, err := seed.NewSeeder(db, seed.Options{
		Users:                     *users,
		Establishments:            *establishments,
		EmployeesPerEstablishment: *employees,
		CommentsPerEmployee:       *comments,
		ShouldClean:               *shouldClean,
		RandSeed:                  *randSeed,
	}).Run(ctx)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	resolver := legacyid.NewResolver(repository.NewLegacyIDRepository(db), featureflags.NewManager(cfg.FeatureFlags))
	for _, kind := range []models.ModerationKind{models.KindEstablishment, models.KindEmployee, models.KindComment} {
		if _, err := resolver.Backfill(ctx, kind, 500); err != nil {
			log.Fatalf("Legacy id backfill for %s failed: %v", kind, err)
		}
	}

	log.Printf("Created %d users, %d establishments, %d employees, %d comments",
		summary.Users, summary.Establishments, summary.Employees, summary.Comments)
	log.Printf("All demo users have the password: %s", seed.DemoPassword)
}
