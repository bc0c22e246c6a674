package models

import "gorm.io/gorm"

type Course struct {
	gorm.Model
	Title       string `gorm:"not null"`
	Description string
	Price       float64 // 0 means free
	TargetLevel string  // school, university, graduate
	ImageURL    string
	OwnerID     uint
	IsActive    bool `gorm:"default:true"`
	Lectures    []Lecture
}

type Lecture struct {
	gorm.Model
	CourseID        uint
	Title           string `gorm:"not null"`
	Description     string
	DurationMinutes int
	OrderIndex      int
	IsActive        bool `gorm:"default:true"`
	Materials       []LectureMaterial
}

const (
	MaterialVideo    = "video"
	MaterialPDF      = "pdf"
	MaterialDocument = "document"
	MaterialImage    = "image"
	MaterialAudio    = "audio"
	MaterialFile     = "file"
)

type LectureMaterial struct {
	gorm.Model
	LectureID       uint
	Title           string `gorm:"not null"`
	Type            string `gorm:"default:file"`
	URL             string
	DurationMinutes int
	OrderIndex      int
	IsActive        bool `gorm:"default:true"`
}

// NormalizeMaterialType maps unrecognized types to the generic file type.
func NormalizeMaterialType(t string) string {
	switch t {
	case MaterialVideo, MaterialPDF, MaterialDocument, MaterialImage, MaterialAudio:
		return t
	}
	return MaterialFile
}
