package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process configuration, read once at startup.
type Config struct {
	HTTPAddr string

	UpbitBaseURL    string
	ScanInterval    time.Duration
	PacingDelay     time.Duration
	ListingCacheTTL time.Duration

	GeminiAPIKey string
	GeminiModel  string

	FirebaseCredentialsPath string
	NotifyCooldown          time.Duration
}

// Load reads .env (when present) and the environment. Missing values
// fall back to defaults, so a bare environment still boots.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	return Config{
		HTTPAddr: getString("HTTP_ADDR", ":8080"),

		UpbitBaseURL:    getString("UPBIT_BASE_URL", "https://api.upbit.com"),
		ScanInterval:    getDuration("SCAN_INTERVAL", 30*time.Minute),
		PacingDelay:     getDuration("PACING_DELAY", 100*time.Millisecond),
		ListingCacheTTL: getDuration("LISTING_CACHE_TTL", 5*time.Minute),

		GeminiAPIKey: getString("GEMINI_API_KEY", ""),
		GeminiModel:  getString("GEMINI_MODEL", "gemini-2.5-pro"),

		FirebaseCredentialsPath: getString("FIREBASE_CREDENTIALS_PATH", ""),
		NotifyCooldown:          getDuration("NOTIFY_COOLDOWN", 6*time.Hour),
	}
}

func getString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s, using default %s", key, def)
	}
	return def
}
