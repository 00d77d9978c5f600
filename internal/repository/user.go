// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"errors"

	"kindling/internal/models"

	"gorm.io/gorm"
)

// CandidateFilter holds the predicates for a discovery candidate query.
// ExcludeIDs always contains at least the requester, so it is never empty.
type CandidateFilter struct {
	ExcludeIDs []uint
	Genders    []models.Gender
	MinAge     int
	MaxAge     int
	Limit      int
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	FindCandidates(ctx context.Context, filter CandidateFilter) ([]models.User, error)
}

// userRepository implements UserRepository
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// GetByEmail returns nil, nil when no user has the given email.
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// FindCandidates returns users matching the filter, oldest accounts first so
// the page is stable across repeated discovery reads.
func (r *userRepository) FindCandidates(ctx context.Context, filter CandidateFilter) ([]models.User, error) {
	var users []models.User

	query := r.db.WithContext(ctx).
		Where("id NOT IN ?", filter.ExcludeIDs).
		Where("gender IN ?", filter.Genders).
		Where("age >= ? AND age <= ?", filter.MinAge, filter.MaxAge).
		Order("id ASC")

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	if err := query.Find(&users).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	return users, nil
}
