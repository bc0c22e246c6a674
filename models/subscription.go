package models

import (
	"time"

	"gorm.io/gorm"
)

type SubscriptionCode struct {
	gorm.Model
	CourseID     uint
	Code         string `gorm:"unique;not null"`
	ValidityDays int    // access duration granted per redemption
	UsageLimit   int
	UsedCount    int        `gorm:"default:0"`
	ExpiresAt    *time.Time // computed from the validity window at creation; nil means never expires
	IsActive     bool       `gorm:"default:true"`
}

// CourseAccess holds at most one row per (user, course); redemption
// upserts it, so the last redemption wins.
type CourseAccess struct {
	gorm.Model
	UserID             uint `gorm:"uniqueIndex:idx_user_course"`
	CourseID           uint `gorm:"uniqueIndex:idx_user_course"`
	SubscriptionCodeID *uint
	ExpiresAt          time.Time
	IsActive           bool `gorm:"default:true"`
}
