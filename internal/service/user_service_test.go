package service

import (
	"context"
	"testing"

	"kindling/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestUpdateProfilePartial(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, func(u *models.User) {
		u.Name = "Alice"
		u.Bio = "old bio"
	})

	updated, err := env.users.UpdateProfile(ctx, alice.ID, ProfileUpdate{
		Bio: strPtr("new bio"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Alice", updated.Name)
	assert.Equal(t, "new bio", updated.Bio)
}

func TestUpdateProfileRejectsEmptyName(t *testing.T) {
	env := newTestEnv(t)

	alice := env.createUser(t)

	_, err := env.users.UpdateProfile(context.Background(), alice.ID, ProfileUpdate{
		Name: strPtr(""),
	})
	requireAppErrorCode(t, err, "VALIDATION_ERROR")
}

func TestUpdatePreferences(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t)

	gender := models.GenderMale
	prefs, err := env.users.UpdatePreferences(ctx, alice.ID, PreferencesUpdate{
		Gender:   &gender,
		AgeRange: &models.AgeRange{Min: 25, Max: 35},
	})
	require.NoError(t, err)
	assert.Equal(t, models.GenderMale, prefs.Gender)
	assert.Equal(t, 25, prefs.AgeRange.Min)
	assert.Equal(t, 35, prefs.AgeRange.Max)

	// persisted
	reloaded, err := env.users.GetPreferences(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, models.GenderMale, reloaded.Gender)
}

func TestUpdatePreferencesValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t)

	bad := models.Gender("Robot")
	_, err := env.users.UpdatePreferences(ctx, alice.ID, PreferencesUpdate{Gender: &bad})
	requireAppErrorCode(t, err, "VALIDATION_ERROR")

	_, err = env.users.UpdatePreferences(ctx, alice.ID, PreferencesUpdate{
		AgeRange: &models.AgeRange{Min: 16, Max: 30},
	})
	requireAppErrorCode(t, err, "VALIDATION_ERROR")

	_, err = env.users.UpdatePreferences(ctx, alice.ID, PreferencesUpdate{
		AgeRange: &models.AgeRange{Min: 40, Max: 30},
	})
	requireAppErrorCode(t, err, "VALIDATION_ERROR")

	negative := -5
	_, err = env.users.UpdatePreferences(ctx, alice.ID, PreferencesUpdate{
		MaxDistanceKm: &negative,
	})
	requireAppErrorCode(t, err, "VALIDATION_ERROR")
}
