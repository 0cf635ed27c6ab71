package config

import (
	"os"
	"strconv"
)

// Config is built once at startup and passed by reference into the
// gateway and rate limiter. Nothing reads the environment after Load.
type Config struct {
	AppPort string

	// Session signing and lifetime.
	SessionSigningSecret string
	SessionMaxAgeSec     int
	AdminSessionTTLSec   int

	// Login credentials. The *Hash variants take precedence when set
	// and must contain a bcrypt hash.
	LoginUser         string
	LoginPassword     string
	LoginPasswordHash string
	AdminID           string
	AdminPassword     string
	AdminPasswordHash string

	// MaintenanceMode blocks everything outside the allow-list.
	MaintenanceMode bool

	// Rate limits. Each limit is independently overridable.
	ChatUser5mLimit     int
	ChatUserDayLimit    int
	ChatIP5mLimit       int
	ChatIPDayLimit      int
	AdminWrite1mLimit   int
	AdminWriteDayLimit  int
	AdminPreview1mLimit int

	// RateLimitFailClosed rejects requests when the counter store is
	// degraded instead of the default fail-open behavior.
	RateLimitFailClosed bool

	RedisAddr     string
	RedisPassword string

	// Object storage (S3-compatible).
	S3Endpoint        string
	S3Region          string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Bucket          string
	RagCSVKey         string
	ConfigKey         string
}

func Load() Config {

	cfg := Config{

		AppPort: getenvDefault("APP_PORT", "8080"),

		SessionSigningSecret: os.Getenv("SESSION_SIGNING_SECRET"),
		SessionMaxAgeSec:     getenvIntDefault("SESSION_MAX_AGE_SEC", 86400),
		AdminSessionTTLSec:   getenvIntDefault("ADMIN_SESSION_TTL_SEC", 3600),

		LoginUser:         os.Getenv("LOGIN_USER"),
		LoginPassword:     os.Getenv("LOGIN_PASSWORD"),
		LoginPasswordHash: os.Getenv("LOGIN_PASSWORD_HASH"),
		AdminID:           os.Getenv("ADMIN_ID"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),

		MaintenanceMode: os.Getenv("MAINTENANCE_MODE") == "1",

		ChatUser5mLimit:     getenvIntDefault("CHAT_USER_5M_LIMIT", 30),
		ChatUserDayLimit:    getenvIntDefault("CHAT_USER_DAY_LIMIT", 200),
		ChatIP5mLimit:       getenvIntDefault("CHAT_IP_5M_LIMIT", 60),
		ChatIPDayLimit:      getenvIntDefault("CHAT_IP_DAY_LIMIT", 500),
		AdminWrite1mLimit:   getenvIntDefault("ADMIN_WRITE_1M_LIMIT", 10),
		AdminWriteDayLimit:  getenvIntDefault("ADMIN_WRITE_DAY_LIMIT", 50),
		AdminPreview1mLimit: getenvIntDefault("ADMIN_PREVIEW_1M_LIMIT", 30),

		RateLimitFailClosed: getenvBoolDefault("RATE_LIMIT_FAIL_CLOSED", false),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		S3Region:          getenvDefault("S3_REGION", "auto"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		S3Bucket:          os.Getenv("S3_BUCKET"),
		RagCSVKey:         getenvDefault("RAG_CSV_KEY", "rag.csv"),
		ConfigKey:         getenvDefault("R2_CONFIG_KEY", "config.json"),
	}

	return cfg

}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
