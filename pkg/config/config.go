package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is assembled once at startup and passed by reference into every
// component constructor. There is no package-level instance.
type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Academic AcademicConfig
	Files    FilesConfig
	Reports  ReportsConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Log      LogConfig
}

// AcademicConfig carries registrar business-rule knobs.
type AcademicConfig struct {
	MaxSemesterCredits int
	CurrentSemester    string
}

// FilesConfig controls the CSV import/export and backup layer.
type FilesConfig struct {
	DataDir        string
	BackupWorkers  int
	BackupRetries  int
	BackupInterval time.Duration
}

// ReportsConfig tunes caching of aggregate report queries.
type ReportsConfig struct {
	CacheTTL time.Duration
}

// RedisConfig configures the optional report cache backend.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from the environment and an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Academic = AcademicConfig{
		MaxSemesterCredits: v.GetInt("MAX_SEMESTER_CREDITS"),
		CurrentSemester:    v.GetString("CURRENT_SEMESTER"),
	}

	cfg.Files = FilesConfig{
		DataDir:        v.GetString("FILES_DATA_DIR"),
		BackupWorkers:  v.GetInt("FILES_BACKUP_WORKERS"),
		BackupRetries:  v.GetInt("FILES_BACKUP_RETRIES"),
		BackupInterval: parseDuration(v.GetString("FILES_BACKUP_RETRY_DELAY"), 2*time.Second),
	}

	cfg.Reports = ReportsConfig{
		CacheTTL: parseDuration(v.GetString("REPORTS_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Redis = RedisConfig{
		Enabled:  v.GetBool("REDIS_ENABLED"),
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("MAX_SEMESTER_CREDITS", 18)
	v.SetDefault("CURRENT_SEMESTER", "FALL_2025")

	v.SetDefault("FILES_DATA_DIR", "./data")
	v.SetDefault("FILES_BACKUP_WORKERS", 1)
	v.SetDefault("FILES_BACKUP_RETRIES", 3)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
