package services

import "academy/models"

// CanAuthorCourses reports whether the role may create and edit courses.
// Admins hold every instructor capability.
func CanAuthorCourses(role string) bool {
	return role == models.RoleInstructor || role == models.RoleAdmin
}

// CanManageUsers reports whether the role may change user roles and
// manage subscription codes.
func CanManageUsers(role string) bool {
	return role == models.RoleAdmin
}

type NavEntry struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// NavigationFor returns the menu entries visible to a role tier. This
// only drives what clients show; enforcement lives in the middleware.
func NavigationFor(role string) []NavEntry {
	entries := []NavEntry{
		{Key: "courses", Label: "Courses"},
		{Key: "my-learning", Label: "My Learning"},
		{Key: "profile", Label: "Profile"},
	}

	if CanAuthorCourses(role) {
		entries = append(entries, NavEntry{Key: "instructor", Label: "Instructor Dashboard"})
	}
	if CanManageUsers(role) {
		entries = append(entries,
			NavEntry{Key: "admin-users", Label: "Manage Users"},
			NavEntry{Key: "admin-codes", Label: "Subscription Codes"},
		)
	}
	return entries
}

// RoleDisplayName returns the human-readable label for a role.
func RoleDisplayName(role string) string {
	switch role {
	case models.RoleInstructor:
		return "Instructor"
	case models.RoleAdmin:
		return "Admin"
	default:
		return "Student"
	}
}
