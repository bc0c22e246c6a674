package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Course deletion behavior. Soft keeps the row and clears is_active,
// hard removes the course with its lectures and materials.
const (
	CourseDeleteSoft = "soft"
	CourseDeleteHard = "hard"
)

type Config struct {
	DBHost           string
	DBPort           string
	DBUser           string
	DBPassword       string
	DBName           string
	JWTSecret        string
	ServerPort       string
	StoragePath      string
	PublicURLBase    string
	CourseDeleteMode string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	return &Config{
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "5432"),
		DBUser:           getEnv("DB_USER", "postgres"),
		DBPassword:       getEnv("DB_PASSWORD", "postgres"),
		DBName:           getEnv("DB_NAME", "academy"),
		JWTSecret:        getEnv("JWT_SECRET", "secret"),
		ServerPort:       getEnv("SERVER_PORT", "8080"),
		StoragePath:      getEnv("STORAGE_PATH", "./storage"),
		PublicURLBase:    getEnv("PUBLIC_URL_BASE", "http://localhost:8080/files"),
		CourseDeleteMode: getEnv("COURSE_DELETE_MODE", CourseDeleteSoft),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
