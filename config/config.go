package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cast"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

var (
	PORT        string
	CORS_ORIGIN string
	GIN_MODE    string
	LOG_LEVEL   string
	LOG_FORMAT  string

	JWT_SECRET          string
	ADMIN_EMAIL         string
	ADMIN_PASSWORD_HASH string

	DOCSTORE_DRIVER      string
	DB_URL               string
	MONGO_URI            string
	MONGO_DATABASE       string
	MONGO_CHANGE_STREAMS bool

	CLOUDINARY_CLOUD_NAME    string
	CLOUDINARY_UPLOAD_PRESET string
	CLOUDINARY_API_BASE      string
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	CORS_ORIGIN = getEnv("CORS_ORIGIN", "http://localhost:5173")
	GIN_MODE = getEnv("GIN_MODE", "")
	LOG_LEVEL = getEnv("LOG_LEVEL", "info")
	LOG_FORMAT = getEnv("LOG_FORMAT", "text")

	JWT_SECRET = mustEnv("JWT_SECRET")
	ADMIN_EMAIL = mustEnv("ADMIN_EMAIL")
	ADMIN_PASSWORD_HASH = mustEnv("ADMIN_PASSWORD_HASH")

	DOCSTORE_DRIVER = strings.ToLower(getEnv("DOCSTORE_DRIVER", DriverMemory))
	switch DOCSTORE_DRIVER {
	case DriverPostgres:
		DB_URL = mustEnv("DB_URL")
	case DriverMongo:
		MONGO_URI = mustEnv("MONGO_URI")
		MONGO_DATABASE = getEnv("MONGO_DATABASE", "booking")
		MONGO_CHANGE_STREAMS = cast.ToBool(getEnv("MONGO_CHANGE_STREAMS", "false"))
	case DriverMemory:
	default:
		log.Fatalf("Unknown DOCSTORE_DRIVER: %s", DOCSTORE_DRIVER)
	}

	CLOUDINARY_CLOUD_NAME = getEnv("CLOUDINARY_CLOUD_NAME", "")
	CLOUDINARY_UPLOAD_PRESET = getEnv("CLOUDINARY_UPLOAD_PRESET", "")
	CLOUDINARY_API_BASE = getEnv("CLOUDINARY_API_BASE", "https://api.cloudinary.com")
}

// InitLogger applies LOG_LEVEL and LOG_FORMAT to the standard logrus logger.
func InitLogger() {
	level, err := log.ParseLevel(LOG_LEVEL)
	if err != nil {
		log.Warnf("Invalid LOG_LEVEL %q, falling back to info", LOG_LEVEL)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if LOG_FORMAT == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
