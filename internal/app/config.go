package app

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

type Config struct {
	Env       string
	HTTPAddr  string
	CORSAllow []string

	WSReadLimit int64 // max inbound frame size in bytes

	ProbePeriod time.Duration // liveness probe interval
	ReapPeriod  time.Duration // idle-room sweep interval
	RoomIdleTTL time.Duration // idle threshold before an empty room is reaped

	RateMax int // REST requests per minute per IP
}

func LoadConfig() Config {
	cfg := Config{
		Env:      getEnv("APP_ENV", "dev"),
		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
	}
	cfg.WSReadLimit = int64(getEnvInt("WS_READ_LIMIT", 128*1024))
	cfg.ProbePeriod = getEnvDuration("PROBE_PERIOD", 30*time.Second)
	cfg.ReapPeriod = getEnvDuration("REAP_PERIOD", 10*time.Minute)
	cfg.RoomIdleTTL = getEnvDuration("ROOM_IDLE_TTL", 24*time.Hour)
	cfg.RateMax = getEnvInt("RATE_MAX", 30)
	// CORS allowlist
	allow := getEnv("CORS_ALLOW", "http://localhost:4200")
	cfg.CORSAllow = splitCSV(allow)
	log.Printf("config: %+v\n", cfg)
	return cfg
}

// getEnv returns the env var or a default
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// getEnvInt parses an int env var with a fallback
func getEnvInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		var i int
		_, _ = fmt.Sscanf(v, "%d", &i)
		if i > 0 {
			return i
		}
	}
	return def
}

// getEnvDuration parses a duration env var (e.g. "30s") with a fallback
func getEnvDuration(k string, def time.Duration) time.Duration {
	if v := os.Getenv(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}

// splitCSV trims and filters a comma-separated list
func splitCSV(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
