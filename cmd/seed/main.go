// Command main runs the database seeder for Kindling.
package main

import (
	"context"
	"flag"
	"log"

	"kindling/internal/config"
	"kindling/internal/database"
	"kindling/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 50, "Number of users to create")
	density := flag.Float64("density", 0.3, "Fraction of user pairs that get a swipe")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "Store plaintext passwords (dev fast mode)")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, swipe density %.2f, clean=%v\n", *numUsers, *density, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db, seed.Options{
		SkipBcrypt:   *skipBcrypt,
		SwipeDensity: *density,
	})

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	users, err := s.SeedUsers(*numUsers)
	if err != nil {
		log.Fatalf("User seeding failed: %v", err)
	}

	if _, err := s.SeedSwipes(context.Background(), users); err != nil {
		log.Fatalf("Swipe seeding failed: %v", err)
	}

	log.Println("All done! Your database is now populated with test data.")
	log.Println("All test users have the password: password123")
}
