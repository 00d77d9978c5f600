// Package models contains data structures for the application's domain models.
package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// Match is the canonical record of a confirmed mutual like between two
// users. The pair is stored sorted (UserAID < UserBID) and carries a unique
// index, so the store guarantees at most one record per unordered pair even
// under concurrent mutual-like races.
//
// ChannelID is the external chat channel for the pair. It is nil when chat
// provisioning failed or has not happened yet; the match is still valid.
type Match struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserAID   uint      `gorm:"not null;uniqueIndex:idx_match_pair,priority:1" json:"user_a_id"`
	UserBID   uint      `gorm:"not null;uniqueIndex:idx_match_pair,priority:2" json:"user_b_id"`
	ChannelID *string   `gorm:"size:255" json:"channel_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (Match) TableName() string {
	return "matches"
}

// NormalizePair returns the two user ids in ascending order.
func NormalizePair(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}

// BeforeCreate normalizes the pair so the unique index covers the unordered
// pair, and rejects degenerate self-matches.
func (m *Match) BeforeCreate(_ *gorm.DB) error {
	if m.UserAID == m.UserBID {
		return errors.New("match requires two distinct users")
	}
	m.UserAID, m.UserBID = NormalizePair(m.UserAID, m.UserBID)
	return nil
}

// Contains reports whether userID is one of the match participants.
func (m *Match) Contains(userID uint) bool {
	return m.UserAID == userID || m.UserBID == userID
}

// OtherUser returns the participant that is not userID. ok is false when
// userID is not part of the match.
func (m *Match) OtherUser(userID uint) (uint, bool) {
	switch userID {
	case m.UserAID:
		return m.UserBID, true
	case m.UserBID:
		return m.UserAID, true
	}
	return 0, false
}
