package repository

import (
	"context"
	"errors"

	"kindling/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DiscoveryRepository provides access to per-user swipe ledgers.
//
// All set mutations are idempotent upserts on the (owner_id, target_id)
// unique index, so concurrent swipes against the same ledger cannot lose
// updates or duplicate entries. A single upsert carries both the "seen" and
// "liked" facts, which keeps the ledger's liked ⊆ seen invariant a matter of
// schema rather than of call ordering.
type DiscoveryRepository interface {
	GetOrCreate(ctx context.Context, userID uint) (*models.Discovery, error)
	GetEntry(ctx context.Context, ownerID, targetID uint) (*models.DiscoveryEntry, error)
	SeenIDs(ctx context.Context, ownerID uint) ([]uint, error)
	MatchedIDs(ctx context.Context, ownerID uint) ([]uint, error)
	HasLiked(ctx context.Context, ownerID, targetID uint) (bool, error)
	MarkSeen(ctx context.Context, ownerID, targetID uint) error
	MarkLiked(ctx context.Context, ownerID, targetID uint) error
	MarkMatched(ctx context.Context, ownerID, targetID uint) error
	ClearMatched(ctx context.Context, ownerID, targetID uint) error
	CountLikers(ctx context.Context, userID uint) (int64, error)
}

type discoveryRepository struct {
	db *gorm.DB
}

// NewDiscoveryRepository creates a new discovery repository
func NewDiscoveryRepository(db *gorm.DB) DiscoveryRepository {
	return &discoveryRepository{db: db}
}

// GetOrCreate returns the user's discovery record, creating it on first
// access. The insert ignores conflicts on user_id, so two concurrent first
// accesses both end up reading the single surviving row.
func (r *discoveryRepository) GetOrCreate(ctx context.Context, userID uint) (*models.Discovery, error) {
	discovery := models.Discovery{UserID: userID}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&discovery).Error; err != nil {
		return nil, models.NewInternalError(err)
	}

	var out models.Discovery
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&out).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return &out, nil
}

// GetEntry returns nil, nil when owner has never seen target.
func (r *discoveryRepository) GetEntry(ctx context.Context, ownerID, targetID uint) (*models.DiscoveryEntry, error) {
	var entry models.DiscoveryEntry
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND target_id = ?", ownerID, targetID).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &entry, nil
}

func (r *discoveryRepository) SeenIDs(ctx context.Context, ownerID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.DiscoveryEntry{}).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Pluck("target_id", &ids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *discoveryRepository) MatchedIDs(ctx context.Context, ownerID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Model(&models.DiscoveryEntry{}).
		Where("owner_id = ? AND matched = ?", ownerID, true).
		Order("created_at ASC").
		Pluck("target_id", &ids).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *discoveryRepository) HasLiked(ctx context.Context, ownerID, targetID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.DiscoveryEntry{}).
		Where("owner_id = ? AND target_id = ? AND liked = ?", ownerID, targetID, true).
		Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// MarkSeen records that owner has seen target. A no-op when the entry
// already exists, so re-swipes never disturb an earlier liked/matched state.
func (r *discoveryRepository) MarkSeen(ctx context.Context, ownerID, targetID uint) error {
	entry := models.DiscoveryEntry{OwnerID: ownerID, TargetID: targetID}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}, {Name: "target_id"}},
			DoNothing: true,
		}).
		Create(&entry).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// MarkLiked records seen+liked in one write. The insert carries both facts,
// so a persistence failure can never leave liked set without seen.
func (r *discoveryRepository) MarkLiked(ctx context.Context, ownerID, targetID uint) error {
	entry := models.DiscoveryEntry{OwnerID: ownerID, TargetID: targetID, Liked: true}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}, {Name: "target_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"liked": true}),
		}).
		Create(&entry).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// MarkMatched upgrades the entry to liked+matched, creating it if the ledger
// side is missing (the other party may never have been shown this user).
func (r *discoveryRepository) MarkMatched(ctx context.Context, ownerID, targetID uint) error {
	entry := models.DiscoveryEntry{OwnerID: ownerID, TargetID: targetID, Liked: true, Matched: true}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "owner_id"}, {Name: "target_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"liked": true, "matched": true}),
		}).
		Create(&entry).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// ClearMatched removes target from owner's matches set. Seen and liked are
// deliberately untouched: unmatching does not erase swipe history. Missing
// entries are not an error.
func (r *discoveryRepository) ClearMatched(ctx context.Context, ownerID, targetID uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.DiscoveryEntry{}).
		Where("owner_id = ? AND target_id = ?", ownerID, targetID).
		Update("matched", false).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// CountLikers returns how many users liked userID, excluding anyone userID
// has explicitly passed on.
func (r *discoveryRepository) CountLikers(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("discovery_entries e").
		Where("e.target_id = ? AND e.liked = ?", userID, true).
		Where(`NOT EXISTS (
			SELECT 1 FROM discovery_entries p
			WHERE p.owner_id = ?
			  AND p.target_id = e.owner_id
			  AND p.liked = ?
		)`, userID, false).
		Count(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
