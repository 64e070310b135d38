package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	ServerPort string

	JWTSecret string

	AccessTokenMaxAge   int
	RefreshTokenMaxAge  int
	RememberTokenMaxAge int

	RedisURL string

	StoriesPerPage int

	SerpAPIKey   string
	GeminiAPIKey string

	MailServer   string
	MailPort     int
	MailUseTLS   bool
	MailUsername string
	MailPassword string
	AdminEmail   string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicURL       string

	DefaultProfilePicURL string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found or error loading it, relying on environment variables")
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	sslMode := os.Getenv("DB_SSLMODE")
	if sslMode == "" {
		sslMode = "require"
	}

	return &Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSSLMode:  sslMode,

		ServerPort: serverPort,

		JWTSecret: os.Getenv("JWT_SECRET"),

		AccessTokenMaxAge:   envInt("ACCESS_TOKEN_MAX_AGE", 900),
		RefreshTokenMaxAge:  envInt("REFRESH_TOKEN_MAX_AGE", 86400),
		RememberTokenMaxAge: envInt("REMEMBER_TOKEN_MAX_AGE", 2592000),

		RedisURL: os.Getenv("REDIS_URL"),

		StoriesPerPage: envInt("STORIES_PER_PAGE", 10),

		SerpAPIKey:   os.Getenv("SERPAPI_KEY"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),

		MailServer:   os.Getenv("MAIL_SERVER"),
		MailPort:     envInt("MAIL_PORT", 587),
		MailUseTLS:   envBool("MAIL_USE_TLS", true),
		MailUsername: os.Getenv("MAIL_USERNAME"),
		MailPassword: os.Getenv("MAIL_PASSWORD"),
		AdminEmail:   os.Getenv("ADMIN_EMAIL"),

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicURL:       os.Getenv("R2_PUBLIC_URL"),

		DefaultProfilePicURL: os.Getenv("DEFAULT_PROFILE_PIC_URL"),
	}, nil
}

func envInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func envBool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "TRUE", "True", "on", "yes":
		return true
	}
	return false
}
