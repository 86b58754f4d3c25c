package config

import (
	"os"
)

type Config struct {
	ServerPort string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	JWTSecret  string

	// Remote asset store (photo uploads live there, we only delete)
	AssetCloudName string
	AssetAPIKey    string
	AssetAPISecret string
}

func Load() *Config {
	return &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "reactivities"),
		DBPassword:     getEnv("DB_PASSWORD", "reactivities_dev_password"),
		DBName:         getEnv("DB_NAME", "reactivities"),
		JWTSecret:      getEnv("JWT_SECRET", "dev-secret-change-me"),
		AssetCloudName: getEnv("ASSET_CLOUD_NAME", ""),
		AssetAPIKey:    getEnv("ASSET_API_KEY", ""),
		AssetAPISecret: getEnv("ASSET_API_SECRET", ""),
	}
}

func getEnv(key, fallback string) string {
	val, exists := os.LookupEnv(key)

	if exists {
		return val
	}

	return fallback
}
