package config

import (
	"os"
)

type Config struct {
	DatabaseURL string
	SteamAPIKey string
	Port        string
	Environment string

	// Creator platform credentials
	YouTubeAPIKey      string
	TwitchClientID     string
	TwitchClientSecret string
}

func Load() *Config {
	// Default MySQL connection string
	defaultDSN := "root:gamepulse@tcp(127.0.0.1:3306)/gamepulse?charset=utf8mb4&parseTime=True&loc=Local"

	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", defaultDSN),
		SteamAPIKey: getEnv("STEAM_API_KEY", ""),
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),

		YouTubeAPIKey:      getEnv("YOUTUBE_API_KEY", ""),
		TwitchClientID:     getEnv("TWITCH_CLIENT_ID", ""),
		TwitchClientSecret: getEnv("TWITCH_CLIENT_SECRET", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
