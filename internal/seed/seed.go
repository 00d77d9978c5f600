// Package seed provides helpers to create test and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"kindling/internal/models"
	"kindling/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Options tunes the seeder's behavior.
type Options struct {
	// SkipBcrypt stores a plaintext password instead of hashing. Dev fast
	// mode only; signin will not work against these accounts.
	SkipBcrypt bool
	// SwipeDensity is the approximate fraction of user pairs that get a
	// swipe recorded between them. Values outside (0,1] fall back to 0.3.
	SwipeDensity float64
}

// Seeder populates the database with generated users, swipe history and the
// matches that mutual likes produce.
type Seeder struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
}

// NewSeeder creates a new Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB, opts Options) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	return &Seeder{
		db:   db,
		opts: opts,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// ClearAll removes all seeded domain data. Order respects foreign keys.
func (s *Seeder) ClearAll() error {
	for _, model := range []interface{}{
		&models.Match{},
		&models.DiscoveryEntry{},
		&models.Discovery{},
		&models.User{},
	} {
		if err := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("clearing %T: %w", model, err)
		}
	}
	log.Println("Cleared existing data")
	return nil
}

// CreateUser constructs and persists a sample `models.User`.
// Optional override functions may modify the generated user before saving.
func (s *Seeder) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	gender := models.GenderMale
	if s.rng.Intn(2) == 0 {
		gender = models.GenderFemale
	}

	user := &models.User{
		Email:    gofakeit.Email(),
		Name:     gofakeit.Name(),
		Age:      gofakeit.Number(18, 55),
		Gender:   gender,
		Location: gofakeit.City(),
		Photo:    fmt.Sprintf("https://i.pravatar.cc/300?u=%s", gofakeit.UUID()),
		Bio:      gofakeit.Sentence(12),
		Preferences: models.Preferences{
			Gender: models.GenderAny,
			AgeRange: models.AgeRange{
				Min: models.DefaultMinAge,
				Max: models.DefaultMaxAge,
			},
			MaxDistanceKm: gofakeit.Number(5, 100),
		},
	}

	if s.opts.SkipBcrypt {
		user.Password = "password123"
	} else {
		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		user.Password = string(hashedPassword)
	}

	for _, override := range overrides {
		override(user)
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

// SeedUsers creates n generated users.
func (s *Seeder) SeedUsers(n int) ([]*models.User, error) {
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user, err := s.CreateUser()
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	log.Printf("Created %d users (password: password123)", len(users))
	return users, nil
}

// SeedSwipes records randomized swipe history between the given users and
// confirms every mutual like as a match. Channel provisioning is left to the
// live swipe path; seeded matches have no chat channel.
func (s *Seeder) SeedSwipes(ctx context.Context, users []*models.User) (int, error) {
	density := s.opts.SwipeDensity
	if density <= 0 || density > 1 {
		density = 0.3
	}

	discoveryRepo := repository.NewDiscoveryRepository(s.db)
	matchRepo := repository.NewMatchRepository(s.db)

	matchCount := 0
	for _, owner := range users {
		if _, err := discoveryRepo.GetOrCreate(ctx, owner.ID); err != nil {
			return 0, err
		}
		for _, target := range users {
			if owner.ID == target.ID || s.rng.Float64() > density {
				continue
			}

			// 70% of swipes are likes, roughly matching real swipe feeds.
			if s.rng.Float64() < 0.7 {
				if err := discoveryRepo.MarkLiked(ctx, owner.ID, target.ID); err != nil {
					return 0, err
				}
			} else {
				if err := discoveryRepo.MarkSeen(ctx, owner.ID, target.ID); err != nil {
					return 0, err
				}
				continue
			}

			mutual, err := discoveryRepo.HasLiked(ctx, target.ID, owner.ID)
			if err != nil {
				return 0, err
			}
			if !mutual {
				continue
			}

			if err := discoveryRepo.MarkMatched(ctx, owner.ID, target.ID); err != nil {
				return 0, err
			}
			if err := discoveryRepo.MarkMatched(ctx, target.ID, owner.ID); err != nil {
				return 0, err
			}
			if _, created, err := matchRepo.GetOrCreate(ctx, owner.ID, target.ID); err != nil {
				return 0, err
			} else if created {
				matchCount++
			}
		}
	}

	log.Printf("Recorded swipe history, %d matches confirmed", matchCount)
	return matchCount, nil
}
