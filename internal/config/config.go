package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	DatabaseURL string
	APIAddr     string
	HTTPAddr    string
	LogLevel    string
	Env         string // dev|prod
	SentryDSN   string
	Location    *time.Location

	JWTSecret []byte
	TokenTTL  time.Duration

	StorageDir  string
	CORSOrigins []string

	RedisURL        string
	SummaryCacheTTL time.Duration

	QREndpoint        string
	VerifyBaseURL     string
	ImageFetchTimeout time.Duration
	QRRatePerSec      float64

	BotToken     string
	AdminChatIDs []int64

	CleanupInterval time.Duration
}

func Load() (*Config, error) {
	tz := getenv("TZ", "UTC")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}

	dbURL, err := requireEnv("DATABASE_URL")
	if err != nil {
		return nil, err
	}
	secret, err := requireEnv("JWT_SECRET")
	if err != nil {
		return nil, err
	}

	chatIDs, err := parseIDs(os.Getenv("ADMIN_CHAT_IDS"))
	if err != nil {
		return nil, fmt.Errorf("ADMIN_CHAT_IDS: %w", err)
	}

	cfg := &Config{
		DatabaseURL:   dbURL,
		APIAddr:       getenv("API_ADDR", ":8080"),
		HTTPAddr:      getenv("HTTP_ADDR", ":9090"),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		Env:           getenv("ENV", "dev"),
		SentryDSN:     os.Getenv("SENTRY_DSN"),
		Location:      loc,
		JWTSecret:     []byte(secret),
		StorageDir:    getenv("STORAGE_DIR", "./data/storage"),
		RedisURL:      os.Getenv("REDIS_URL"),
		QREndpoint:    getenv("QR_ENDPOINT", "https://api.qrserver.com/v1/create-qr-code/"),
		VerifyBaseURL: getenv("VERIFY_BASE_URL", "https://example.org/verify"),
		BotToken:      os.Getenv("BOT_TOKEN"),
		AdminChatIDs:  chatIDs,
		CORSOrigins:   splitList(os.Getenv("CORS_ORIGINS")),
	}

	durations := []struct {
		key string
		def string
		dst *time.Duration
	}{
		{"TOKEN_TTL", "24h", &cfg.TokenTTL},
		{"SUMMARY_CACHE_TTL", "5m", &cfg.SummaryCacheTTL},
		{"IMAGE_FETCH_TIMEOUT", "10s", &cfg.ImageFetchTimeout},
		{"CLEANUP_INTERVAL", "24h", &cfg.CleanupInterval},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(getenv(d.key, d.def))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dst = v
	}

	rate, err := strconv.ParseFloat(getenv("QR_RATE_PER_SEC", "5"), 64)
	if err != nil || rate <= 0 {
		return nil, fmt.Errorf("QR_RATE_PER_SEC: bad value %q", os.Getenv("QR_RATE_PER_SEC"))
	}
	cfg.QRRatePerSec = rate

	return cfg, nil
}

func requireEnv(k string) (string, error) {
	v := os.Getenv(k)
	if v == "" {
		return "", fmt.Errorf("required env %s is empty", k)
	}
	return v, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
}

func parseIDs(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == ';' })
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad id %q: %w", p, err)
		}
		out = append(out, n)
	}
	return out, nil
}
