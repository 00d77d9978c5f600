// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Gender is a user's gender category. "Any" is only meaningful as a
// preference value but is accepted on profiles for schema parity with
// legacy accounts.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderAny    Gender = "Any"
)

// genderExpansion maps a gender preference to the set of profile genders it
// admits. Total over all valid Gender values so candidate filtering never
// branches on the preference.
var genderExpansion = map[Gender][]Gender{
	GenderMale:   {GenderMale},
	GenderFemale: {GenderFemale},
	GenderAny:    {GenderMale, GenderFemale},
}

// Valid reports whether g is one of the accepted gender values.
func (g Gender) Valid() bool {
	_, ok := genderExpansion[g]
	return ok
}

// Expand returns the profile genders admitted by g when used as a preference.
// An unknown (e.g. empty) preference behaves like "Any".
func (g Gender) Expand() []Gender {
	if set, ok := genderExpansion[g]; ok {
		return set
	}
	return genderExpansion[GenderAny]
}

// Default preference age bounds applied when a user has not set a range.
const (
	DefaultMinAge = 18
	DefaultMaxAge = 99
)

// AgeRange is the preferred candidate age window.
type AgeRange struct {
	Min int `gorm:"column:pref_age_min;default:18" json:"min"`
	Max int `gorm:"column:pref_age_max;default:99" json:"max"`
}

// Preferences is a user's discovery preference sub-record.
type Preferences struct {
	Gender        Gender   `gorm:"column:pref_gender;type:varchar(10);default:'Any'" json:"gender"`
	AgeRange      AgeRange `gorm:"embedded" json:"ageRange"`
	MaxDistanceKm int      `gorm:"column:pref_max_distance_km;default:0" json:"maxDistanceKm,omitempty"`
}

// EffectiveAgeRange returns the preferred age window with defaults applied
// for unset (zero) bounds.
func (p Preferences) EffectiveAgeRange() (int, int) {
	min, max := p.AgeRange.Min, p.AgeRange.Max
	if min < DefaultMinAge {
		min = DefaultMinAge
	}
	if max <= 0 {
		max = DefaultMaxAge
	}
	return min, max
}

// User represents a user account in the Kindling application.
// Password is never serialized; every API response built from this struct is
// safe to return as-is.
type User struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Email       string      `gorm:"uniqueIndex;size:128;not null" json:"email"`
	Password    string      `gorm:"size:255;not null" json:"-"`
	Name        string      `gorm:"size:64;not null" json:"name"`
	Age         int         `gorm:"not null" json:"age"`
	Gender      Gender      `gorm:"type:varchar(10);not null" json:"gender"`
	Location    string      `gorm:"size:128" json:"location"`
	Photo       string      `gorm:"size:500" json:"photo"`
	Bio         string      `gorm:"size:300" json:"bio"`
	Preferences Preferences `gorm:"embedded" json:"preferences"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}
