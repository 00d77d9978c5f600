package service

import (
	"context"
	"fmt"

	"kindling/internal/models"
	"kindling/internal/repository"
)

// UserService handles profile and preference management.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService returns a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// ProfileUpdate carries the mutable profile fields. Nil pointers mean
// "leave unchanged".
type ProfileUpdate struct {
	Name     *string `json:"name"`
	Bio      *string `json:"bio"`
	Photo    *string `json:"photo"`
	Location *string `json:"location"`
}

// PreferencesUpdate carries the mutable discovery preference fields.
type PreferencesUpdate struct {
	Gender        *models.Gender   `json:"gender"`
	AgeRange      *models.AgeRange `json:"ageRange"`
	MaxDistanceKm *int             `json:"maxDistanceKm"`
}

// GetProfile returns the user's full profile.
func (s *UserService) GetProfile(ctx context.Context, userID uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// UpdateProfile applies a partial update to the user's profile fields.
// Identity fields (email, age, gender) are immutable here.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, update ProfileUpdate) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		if *update.Name == "" {
			return nil, models.NewValidationError("Name cannot be empty")
		}
		user.Name = *update.Name
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.Photo != nil {
		user.Photo = *update.Photo
	}
	if update.Location != nil {
		user.Location = *update.Location
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetPreferences returns the user's discovery preferences.
func (s *UserService) GetPreferences(ctx context.Context, userID uint) (*models.Preferences, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &user.Preferences, nil
}

// UpdatePreferences applies a partial update to the user's discovery
// preferences and returns the resulting record.
func (s *UserService) UpdatePreferences(ctx context.Context, userID uint, update PreferencesUpdate) (*models.Preferences, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Gender != nil {
		if !update.Gender.Valid() {
			return nil, models.NewValidationError(
				fmt.Sprintf("Gender preference must be one of %s, %s or %s",
					models.GenderMale, models.GenderFemale, models.GenderAny))
		}
		user.Preferences.Gender = *update.Gender
	}
	if update.AgeRange != nil {
		if update.AgeRange.Min < models.DefaultMinAge {
			return nil, models.NewValidationError("Minimum preferred age is 18")
		}
		if update.AgeRange.Max < update.AgeRange.Min {
			return nil, models.NewValidationError("Age range max must be at least min")
		}
		user.Preferences.AgeRange = *update.AgeRange
	}
	if update.MaxDistanceKm != nil {
		if *update.MaxDistanceKm < 0 {
			return nil, models.NewValidationError("Max distance cannot be negative")
		}
		user.Preferences.MaxDistanceKm = *update.MaxDistanceKm
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return &user.Preferences, nil
}
