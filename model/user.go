// Package model defines database models
package model

type User struct {
	ID           string `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"unique; not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`

	// Unix millisecond timestamp of the most recent daily check-in.
	// Nil until the user checks in for the first time, which also means
	// reconciliation never touches a fresh account.
	LastCheckIn *int64 `json:"last_check_in,omitempty"`

	// Consecutive calendar days with a successful check-in. Reset to 0
	// by any missed-day reconciliation.
	CheckInStreak int `json:"check_in_streak"`

	// Signed byte delta on top of the base quota. Check-ins add to it,
	// missed days subtract from it. May go negative.
	BonusStorage int64 `json:"bonus_storage"`

	CreatedAt int64 `gorm:"not null" json:"created_at"`

	Media []MediaItem `gorm:"foreignKey:UserID" json:"-"`
}
