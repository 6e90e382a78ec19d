package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Settings struct {
	Env        string
	Port       string
	Storage    string // mysql or memory
	DBDSN      string
	RedisAddr  string
	RedisPass  string
	RedisDB    int
	JWTSecret  string
	JWTTTL     time.Duration
	ImageDir   string
	PageSize   int
	MaxUpload  int64
	JournalCap int64
}

// Load reads .env into the environment (if present) and resolves settings
// with viper defaults. It fails on missing required values.
func Load() (*Settings, error) {
	// بارگذاری .env
	envFileLoaded := godotenv.Load() == nil

	v := viper.New()
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("STORAGE_DRIVER", "mysql")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("JWT_TTL", "1h")
	v.SetDefault("IMAGE_DIR", "images")
	v.SetDefault("POSTS_PER_PAGE", 2)
	v.SetDefault("MAX_UPLOAD_MB", 8)
	v.SetDefault("IMAGE_JOURNAL_SIZE", 1000)
	v.AutomaticEnv()

	s := &Settings{
		Env:        v.GetString("APP_ENV"),
		Port:       v.GetString("APP_PORT"),
		Storage:    v.GetString("STORAGE_DRIVER"),
		DBDSN:      v.GetString("DB_DSN"),
		RedisAddr:  v.GetString("REDIS_ADDR"),
		RedisPass:  v.GetString("REDIS_PASSWORD"),
		RedisDB:    v.GetInt("REDIS_DB"),
		JWTSecret:  v.GetString("JWT_SECRET"),
		JWTTTL:     parseDuration(v.GetString("JWT_TTL"), time.Hour),
		ImageDir:   v.GetString("IMAGE_DIR"),
		PageSize:   v.GetInt("POSTS_PER_PAGE"),
		MaxUpload:  v.GetInt64("MAX_UPLOAD_MB") << 20,
		JournalCap: v.GetInt64("IMAGE_JOURNAL_SIZE"),
	}

	if !envFileLoaded {
		fmt.Fprintln(os.Stderr, "No .env file found, using system environment variables")
	}
	if s.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}
	switch s.Storage {
	case "mysql":
		if s.DBDSN == "" {
			return nil, fmt.Errorf("DB_DSN is not set")
		}
	case "memory":
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", s.Storage)
	}
	if s.PageSize <= 0 {
		s.PageSize = 2
	}
	return s, nil
}

func parseDuration(s string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return def
}
