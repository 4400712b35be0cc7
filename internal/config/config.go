package config

import (
	"os"
	"strconv"
)

type Config struct {
	DBHost              string
	DBPort              string
	DBUser              string
	DBPassword          string
	DBName              string
	JWTSecret           string
	ServerPort          string
	Env                 string
	UploadDir           string
	AccessTokenTTLMin   int
	RefreshTokenTTLDays int
}

func Load() *Config {
	return &Config{
		DBHost:              getEnv("DB_HOST", "localhost"),
		DBPort:              getEnv("DB_PORT", "5432"),
		DBUser:              getEnv("DB_USER", "postgres"),
		DBPassword:          getEnv("DB_PASSWORD", "postgres"),
		DBName:              getEnv("DB_NAME", "studybuddy"),
		JWTSecret:           getEnv("JWT_SECRET", "super-secret-key-change-me"),
		ServerPort:          getEnv("SERVER_PORT", "8080"),
		Env:                 getEnv("APP_ENV", "dev"),
		UploadDir:           getEnv("UPLOAD_DIR", "./uploads"),
		AccessTokenTTLMin:   getEnvInt("ACCESS_TOKEN_TTL_MINUTES", 60),
		RefreshTokenTTLDays: getEnvInt("REFRESH_TOKEN_TTL_DAYS", 7),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
