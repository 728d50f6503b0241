package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything the binary needs from its environment.
type Config struct {
	WebAddr           string
	TCPAddr           string
	BroadcastInterval time.Duration
	ReapInterval      time.Duration
	RoomMaxAge        time.Duration
	LogLevel          string
}

// Load reads .env if one exists, then the process environment, falling
// back to defaults suitable for local play.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		WebAddr:           getenv("PIGSTY_WEB_ADDR", ":8080"),
		TCPAddr:           getenv("PIGSTY_TCP_ADDR", ":8081"),
		BroadcastInterval: getdur("PIGSTY_BROADCAST_INTERVAL", 30*time.Second),
		ReapInterval:      getdur("PIGSTY_REAP_INTERVAL", time.Hour),
		RoomMaxAge:        getdur("PIGSTY_ROOM_MAX_AGE", 24*time.Hour),
		LogLevel:          getenv("PIGSTY_LOG_LEVEL", "info"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
