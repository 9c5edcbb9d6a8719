package models

import (
	"time"

	"gorm.io/gorm"
)

// DefaultTrialDays is the subscription window granted on registration.
const DefaultTrialDays = 36

// TeacherProfile is the tenant root of the ownership chain: classes, exams,
// students and everything below them resolve to exactly one teacher profile.
type TeacherProfile struct {
	ID                     uint      `gorm:"primaryKey" json:"id"`
	AccountID              uint      `gorm:"uniqueIndex;not null" json:"account_id"`
	Account                Account   `gorm:"constraint:OnDelete:CASCADE" json:"account"`
	Email                  string    `gorm:"size:100" json:"email"`
	SchoolName             string    `gorm:"size:100" json:"school_name"`
	MobilePhone            string    `gorm:"size:10" json:"mobile_phone"`
	FreeDownloadsRemaining int       `gorm:"default:10" json:"free_downloads_remaining"`
	PaidDownloads          int       `gorm:"default:0" json:"paid_downloads"`
	IsPremium              bool      `gorm:"default:false" json:"is_premium"`
	SubscriptionStartDate  time.Time `gorm:"type:date" json:"subscription_start_date"`
	SubscriptionEndDate    time.Time `gorm:"type:date" json:"subscription_end_date"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// BeforeCreate seeds the subscription window when the caller left it unset.
func (t *TeacherProfile) BeforeCreate(tx *gorm.DB) error {
	today := truncateToDate(time.Now())
	if t.SubscriptionStartDate.IsZero() {
		t.SubscriptionStartDate = today
	}
	if t.SubscriptionEndDate.IsZero() {
		t.SubscriptionEndDate = today.AddDate(0, 0, DefaultTrialDays)
	}
	return nil
}

// BeforeSave drops the premium flag whenever the subscription window has
// lapsed. The check runs on every persistence of the record; between saves a
// lapsed subscription may still read as premium.
func (t *TeacherProfile) BeforeSave(tx *gorm.DB) error {
	if truncateToDate(time.Now()).After(truncateToDate(t.SubscriptionEndDate)) {
		t.IsPremium = false
	}
	return nil
}

// StartPremiumSubscription opens a premium window of the given length starting
// today. Non-positive day counts fall back to one year.
func (t *TeacherProfile) StartPremiumSubscription(days int) {
	if days <= 0 {
		days = 365
	}
	today := truncateToDate(time.Now())
	t.IsPremium = true
	t.SubscriptionStartDate = today
	t.SubscriptionEndDate = today.AddDate(0, 0, days)
}

// IsSubscriptionActive reports whether the premium window covers today.
func (t *TeacherProfile) IsSubscriptionActive() bool {
	return t.IsPremium && !truncateToDate(t.SubscriptionEndDate).Before(truncateToDate(time.Now()))
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
