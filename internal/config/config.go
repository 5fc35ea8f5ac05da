package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds everything the server reads from the environment.
type Config struct {
	Port        string
	MongoURI    string
	DBName      string
	JWTSecret   string
	TokenExpiry time.Duration

	// RedisAddr left empty disables the recommendation cache.
	RedisAddr    string
	RedisDB      int
	RecoCacheTTL time.Duration
}

// LoadConfig reads .env if present, then the process environment, falling
// back to development defaults.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	return &Config{
		Port:         getEnv("PORT", "8080"),
		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:       getEnv("DB_NAME", "social_circle"),
		JWTSecret:    getEnv("JWT_SECRET", "dev-secret"),
		TokenExpiry:  getEnvDuration("TOKEN_EXPIRY", 24*time.Hour),
		RedisAddr:    getEnv("REDIS_ADDR", ""),
		RedisDB:      getEnvInt("REDIS_DB", 0),
		RecoCacheTTL: getEnvDuration("RECO_CACHE_TTL", 5*time.Minute),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		logrus.WithField("key", key).Warnf("Invalid integer %q, using default", s)
		return def
	}
	return v
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		logrus.WithField("key", key).Warnf("Invalid duration %q, using default", s)
		return def
	}
	return v
}
