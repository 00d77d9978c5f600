package repository

import (
	"fmt"
	"strings"
	"testing"

	"kindling/internal/database"
	"kindling/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens an isolated in-memory SQLite database migrated with the
// full schema. A single connection keeps concurrent test writers serialized
// the way a real database's unique indexes would.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: database.NewGormLogger(),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

// createTestUser inserts a user with sensible defaults, applying overrides.
func createTestUser(t *testing.T, db *gorm.DB, overrides ...func(*models.User)) *models.User {
	t.Helper()

	user := &models.User{
		Email:    fmt.Sprintf("user%d@example.com", userSeq(db)),
		Password: "hashed-password",
		Name:     "Test User",
		Age:      28,
		Gender:   models.GenderFemale,
		Preferences: models.Preferences{
			Gender:   models.GenderAny,
			AgeRange: models.AgeRange{Min: 18, Max: 99},
		},
	}
	for _, override := range overrides {
		override(user)
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func userSeq(db *gorm.DB) int64 {
	var count int64
	db.Model(&models.User{}).Count(&count)
	return count + 1
}
