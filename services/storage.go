package services

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Bucket names under the storage root.
const (
	BucketAvatars   = "avatars"
	BucketVideos    = "videos"
	BucketMaterials = "materials"
)

const (
	maxAvatarSize   = 5 * 1024 * 1024
	maxVideoSize    = 500 * 1024 * 1024
	maxMaterialSize = 100 * 1024 * 1024
)

var (
	ErrFileTooLarge    = errors.New("file size exceeds maximum allowed size")
	ErrNotAnImage      = errors.New("file must be an image")
	ErrNotAVideo       = errors.New("file must be a video")
	ErrTypeNotAllowed  = errors.New("file type not allowed")
	ErrMissingFileName = errors.New("file must have a name")
)

var allowedMaterialTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"audio/mpeg": true,
	"audio/ogg":  true,
	"audio/wav":  true,
	"text/plain": true,
}

// StorageService writes uploaded files into bucket directories and hands
// back their public URLs.
type StorageService struct {
	BasePath      string
	PublicURLBase string
}

func NewStorageService(basePath, publicURLBase string) *StorageService {
	for _, bucket := range []string{BucketAvatars, BucketVideos, BucketMaterials} {
		os.MkdirAll(filepath.Join(basePath, bucket), 0755)
	}
	return &StorageService{BasePath: basePath, PublicURLBase: publicURLBase}
}

// SaveAvatar stores a profile image (max 5 MB, image/* only).
func (s *StorageService) SaveAvatar(userID uint, file *multipart.FileHeader) (string, error) {
	return s.save(BucketAvatars, userID, file, maxAvatarSize, func(contentType string) error {
		if !strings.HasPrefix(contentType, "image/") {
			return ErrNotAnImage
		}
		return nil
	})
}

// SaveVideo stores a lecture video (max 500 MB, video/* only).
func (s *StorageService) SaveVideo(userID uint, file *multipart.FileHeader) (string, error) {
	return s.save(BucketVideos, userID, file, maxVideoSize, func(contentType string) error {
		if !strings.HasPrefix(contentType, "video/") {
			return ErrNotAVideo
		}
		return nil
	})
}

// SaveMaterial stores a generic lecture attachment (max 100 MB).
func (s *StorageService) SaveMaterial(userID uint, file *multipart.FileHeader) (string, error) {
	return s.save(BucketMaterials, userID, file, maxMaterialSize, func(contentType string) error {
		if !allowedMaterialTypes[contentType] {
			return ErrTypeNotAllowed
		}
		return nil
	})
}

func (s *StorageService) save(bucket string, userID uint, file *multipart.FileHeader, maxSize int64, checkType func(string) error) (string, error) {
	if file.Size > maxSize {
		return "", ErrFileTooLarge
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		return "", ErrMissingFileName
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	// Sniff the content type instead of trusting the client header
	buffer := make([]byte, 512)
	n, err := src.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}
	contentType := strings.ToLower(strings.TrimSpace(http.DetectContentType(buffer[:n])))
	if err := checkType(contentType); err != nil {
		return "", err
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	// Collision-resistant object name from the owner and upload time
	objectName := fmt.Sprintf("%d-%d-%s%s", userID, time.Now().Unix(), uuid.New().String(), ext)

	dst, err := os.Create(filepath.Join(s.BasePath, bucket, objectName))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/%s/%s", s.PublicURLBase, bucket, objectName), nil
}
