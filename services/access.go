package services

import (
	"errors"
	"time"

	"academy/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AccessState string

const (
	NoAccess      AccessState = "no_access"
	ActiveAccess  AccessState = "active"
	ExpiredAccess AccessState = "expired"
)

const freeEnrollmentDays = 365

var (
	ErrCodeNotFound    = errors.New("subscription code not found")
	ErrCodeWrongCourse = errors.New("subscription code belongs to a different course")
	ErrCodeInactive    = errors.New("subscription code has been deactivated")
	ErrCodeExpired     = errors.New("subscription code has expired")
	ErrCodeExhausted   = errors.New("subscription code usage limit reached")
	ErrCourseNotFound  = errors.New("course not found")
	ErrCourseNotFree   = errors.New("course is not free")
)

type AccessService struct {
	DB *gorm.DB
}

func NewAccessService(db *gorm.DB) *AccessService {
	return &AccessService{DB: db}
}

// CheckAccess re-derives the access state from the grant row on every
// call; nothing is cached.
func (s *AccessService) CheckAccess(userID, courseID uint) (AccessState, error) {
	var access models.CourseAccess
	err := s.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&access).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NoAccess, nil
		}
		return NoAccess, err
	}

	if access.IsActive && access.ExpiresAt.After(time.Now()) {
		return ActiveAccess, nil
	}
	return ExpiredAccess, nil
}

// RedeemCode validates the code, consumes one use and upserts the grant
// in a single transaction. The increment carries a used_count guard so
// concurrent redemptions cannot overrun the usage limit. Re-redemption
// by the same user overwrites the grant: last redemption wins.
func (s *AccessService) RedeemCode(code string, userID, courseID uint) (*models.CourseAccess, error) {
	var access models.CourseAccess

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var sub models.SubscriptionCode
		if err := tx.Where("code = ?", code).First(&sub).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCodeNotFound
			}
			return err
		}

		if sub.CourseID != courseID {
			return ErrCodeWrongCourse
		}
		if !sub.IsActive {
			return ErrCodeInactive
		}
		if sub.ExpiresAt != nil && sub.ExpiresAt.Before(time.Now()) {
			return ErrCodeExpired
		}
		if sub.UsedCount >= sub.UsageLimit {
			return ErrCodeExhausted
		}

		result := tx.Model(&models.SubscriptionCode{}).
			Where("id = ? AND used_count < usage_limit", sub.ID).
			UpdateColumn("used_count", gorm.Expr("used_count + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrCodeExhausted
		}

		access = models.CourseAccess{
			UserID:             userID,
			CourseID:           courseID,
			SubscriptionCodeID: &sub.ID,
			ExpiresAt:          time.Now().AddDate(0, 0, sub.ValidityDays),
			IsActive:           true,
		}
		return upsertAccess(tx, &access)
	})
	if err != nil {
		return nil, err
	}
	return &access, nil
}

// EnrollFree grants one year of access to a zero-price course without a
// code. Non-free courses are rejected.
func (s *AccessService) EnrollFree(userID, courseID uint) (*models.CourseAccess, error) {
	var course models.Course
	if err := s.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	if course.Price != 0 {
		return nil, ErrCourseNotFree
	}

	access := models.CourseAccess{
		UserID:    userID,
		CourseID:  courseID,
		ExpiresAt: time.Now().AddDate(0, 0, freeEnrollmentDays),
		IsActive:  true,
	}
	if err := upsertAccess(s.DB, &access); err != nil {
		return nil, err
	}
	return &access, nil
}

func upsertAccess(tx *gorm.DB, access *models.CourseAccess) error {
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"subscription_code_id", "expires_at", "is_active", "updated_at",
		}),
	}).Create(access).Error
}
