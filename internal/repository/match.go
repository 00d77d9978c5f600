package repository

import (
	"context"
	"errors"

	"kindling/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MatchRepository manages canonical mutual-match records.
//
// The matches table carries a unique index over the normalized (sorted) user
// pair, so at most one record can ever exist per unordered pair regardless
// of how many writers race on it.
type MatchRepository interface {
	// GetOrCreate returns the match for the pair, creating it if absent.
	// created reports whether this call inserted the record; a concurrent
	// loser gets created=false and the winner's row.
	GetOrCreate(ctx context.Context, userA, userB uint) (match *models.Match, created bool, err error)
	GetByID(ctx context.Context, id uint) (*models.Match, error)
	GetByPair(ctx context.Context, userA, userB uint) (*models.Match, error)
	ListForUser(ctx context.Context, userID uint) ([]models.Match, error)
	SetChannelID(ctx context.Context, id uint, channelID string) error
	Delete(ctx context.Context, id uint) error
}

type matchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new match repository
func NewMatchRepository(db *gorm.DB) MatchRepository {
	return &matchRepository{db: db}
}

func (r *matchRepository) GetOrCreate(ctx context.Context, userA, userB uint) (*models.Match, bool, error) {
	if userA == userB {
		return nil, false, models.NewValidationError("Cannot match a user with themselves")
	}
	a, b := models.NormalizePair(userA, userB)

	match := models.Match{UserAID: a, UserBID: b}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_a_id"}, {Name: "user_b_id"}},
			DoNothing: true,
		}).
		Create(&match)
	if res.Error != nil {
		return nil, false, models.NewInternalError(res.Error)
	}

	if res.RowsAffected > 0 {
		return &match, true, nil
	}

	// Lost the create race (or the match predates this call): read back the
	// authoritative row.
	existing, err := r.GetByPair(ctx, a, b)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, models.NewInternalError(errors.New("match row vanished after conflicting insert"))
	}
	return existing, false, nil
}

func (r *matchRepository) GetByID(ctx context.Context, id uint) (*models.Match, error) {
	var match models.Match
	if err := r.db.WithContext(ctx).First(&match, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Match", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &match, nil
}

// GetByPair returns nil, nil when no match exists for the pair.
func (r *matchRepository) GetByPair(ctx context.Context, userA, userB uint) (*models.Match, error) {
	a, b := models.NormalizePair(userA, userB)

	var match models.Match
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? AND user_b_id = ?", a, b).
		First(&match).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &match, nil
}

func (r *matchRepository) ListForUser(ctx context.Context, userID uint) ([]models.Match, error) {
	var matches []models.Match
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("updated_at DESC").
		Find(&matches).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return matches, nil
}

func (r *matchRepository) SetChannelID(ctx context.Context, id uint, channelID string) error {
	err := r.db.WithContext(ctx).
		Model(&models.Match{}).
		Where("id = ?", id).
		Update("channel_id", channelID).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *matchRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Match{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
