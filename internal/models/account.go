package models

import "time"

// Account is a login identity. Teachers and staff both authenticate as accounts;
// staff accounts bypass per-teacher scoping.
type Account struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:255" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	IsStaff      bool      `gorm:"default:false" json:"is_staff"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AuthToken is the opaque bearer token bound to an account. Each account holds
// at most one token; login reuses the existing key instead of rotating it.
type AuthToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"size:40;uniqueIndex;not null" json:"key"`
	AccountID uint      `gorm:"uniqueIndex;not null" json:"account_id"`
	Account   Account   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Default profile values applied when the caller leaves them blank.
const (
	DefaultProfileBio    = "No bio provided"
	DefaultProfileAvatar = "no_picture.png"
)

// Profile carries bio/avatar metadata for an account. It is created in the
// same transaction as the account's teacher profile.
type Profile struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AccountID uint      `gorm:"uniqueIndex;not null" json:"account_id"`
	Account   Account   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Bio       string    `gorm:"type:text" json:"bio"`
	AvatarURL string    `gorm:"size:512" json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ApplyDefaults fills blank bio/avatar fields with their defaults.
func (p *Profile) ApplyDefaults() {
	if p.Bio == "" {
		p.Bio = DefaultProfileBio
	}
	if p.AvatarURL == "" {
		p.AvatarURL = DefaultProfileAvatar
	}
}
