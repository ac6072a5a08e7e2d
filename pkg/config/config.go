package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                string
	DatabaseDSN         string
	AdminPasswordHash   string
	GoogleClientIDs     []string
	AppleClientIDs      []string
	PushProvider        string // "expo" or "fcm"
	ExpoPushURL         string
	FirebaseCredentials string
	BlackoutFeedURL     string
	SchedulerInterval   time.Duration
	MaxSlotsPerUser     int
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	interval := 60 * time.Second
	if raw := os.Getenv("SCHEDULER_INTERVAL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			interval = parsed
		}
	}

	maxSlots := 5
	if raw := os.Getenv("MAX_SLOTS_PER_USER"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			maxSlots = parsed
		}
	}

	return &Config{
		Port:                getEnv("PORT", "8080"),
		DatabaseDSN:         getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=quotepush port=5432 sslmode=disable"),
		AdminPasswordHash:   getEnv("ADMIN_PASSWORD_HASH", ""),
		GoogleClientIDs:     getEnvList("GOOGLE_CLIENT_IDS"),
		AppleClientIDs:      getEnvList("APPLE_CLIENT_IDS"),
		PushProvider:        getEnv("PUSH_PROVIDER", "expo"),
		ExpoPushURL:         getEnv("EXPO_PUSH_URL", "https://exp.host/--/api/v2/push/send"),
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),
		BlackoutFeedURL:     getEnv("BLACKOUT_FEED_URL", ""),
		SchedulerInterval:   interval,
		MaxSlotsPerUser:     maxSlots,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvList reads a comma-separated environment variable into a slice,
// trimming whitespace and dropping empty entries.
func getEnvList(key string) []string {
	var values []string
	for _, entry := range strings.Split(os.Getenv(key), ",") {
		if trimmed := strings.TrimSpace(entry); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}
