// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Discovery is the per-user swipe ledger record. It exists once per user
// (user_id is unique) and is created lazily on first discovery or swipe
// access. The seen/liked/matched sets live in discovery_entries rows keyed
// by this record's owner.
type Discovery struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Discovery) TableName() string {
	return "discoveries"
}

// DiscoveryEntry is one element of a user's swipe ledger: owner has seen
// target. The (owner_id, target_id) pair is unique, so set adds are
// idempotent upserts and a row can never be duplicated.
//
// Set semantics:
//   - seen    = the row exists
//   - liked   = Liked is true (a liked target is necessarily seen)
//   - matches = Matched is true (only ever set alongside Liked)
//
// Target existence is not enforced at write time; a dangling target id is
// tolerated and skipped on read.
type DiscoveryEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OwnerID   uint      `gorm:"not null;uniqueIndex:idx_discovery_owner_target,priority:1" json:"owner_id"`
	TargetID  uint      `gorm:"not null;uniqueIndex:idx_discovery_owner_target,priority:2;index:idx_discovery_target_liked,priority:1" json:"target_id"`
	Liked     bool      `gorm:"not null;default:false;index:idx_discovery_target_liked,priority:2" json:"liked"`
	Matched   bool      `gorm:"not null;default:false" json:"matched"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (DiscoveryEntry) TableName() string {
	return "discovery_entries"
}
