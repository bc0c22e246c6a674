package models

import "gorm.io/gorm"

// Role is the single source of truth for permissions: admin is a role
// variant, there is no separate admin flag.
const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
	RoleAdmin      = "admin"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

type User struct {
	gorm.Model
	Email          string `gorm:"unique;not null"`
	PasswordHash   string `gorm:"not null"`
	FullName       string
	EducationLevel string // school, university, graduate
	Role           string `gorm:"default:student"`
	AvatarURL      string
	Theme          string `gorm:"default:light"`
}

func ValidRole(role string) bool {
	switch role {
	case RoleStudent, RoleInstructor, RoleAdmin:
		return true
	}
	return false
}
