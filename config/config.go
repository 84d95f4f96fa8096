package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	MongoURI string
	Database string
	Storage  string // "mongo" or "memory"
	GinMode  string
}

// Load reads an optional .env file, then the environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:     getEnv("PORT", "8080"),
		MongoURI: getEnv("MONGODB_URI", "mongodb://127.0.0.1:27017"),
		Database: getEnv("MONGODB_DATABASE", "blog"),
		Storage:  getEnv("STORAGE", "mongo"),
		GinMode:  os.Getenv("GIN_MODE"),
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}
