package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Layouts   LayoutsConfig
	Uploads   UploadsConfig
	MinIO     MinIOConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
}

type MongoDBConfig struct {
	URI                string
	Database           string
	TemplateCollection string
	HistoryCollection  string
	Timeout            time.Duration
	ConnectAttempts    int
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	DraftTTL time.Duration
}

type RateLimitConfig struct {
	Enabled       bool
	RPS           float64
	Burst         int
	UseRedis      bool
	WindowSeconds int
}

type LayoutsConfig struct {
	Dir      string
	Registry string
}

type UploadsConfig struct {
	Driver   string // minio | local
	MaxBytes int64
	Dir      string
	BaseURL  string
}

type MinIOConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	Bucket        string
	PublicBaseURL string
	PresignTTL    time.Duration
}

// LoadConfig loads configuration from environment variables and an optional .env file.
// MongoDB and Redis are optional: with no URI/host the service runs on
// in-memory stores.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "5000")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("MONGODB_DATABASE", "email-builder")
	v.SetDefault("MONGODB_COLLECTION", "emailtemplates")
	v.SetDefault("MONGODB_HISTORY_COLLECTION", "renders")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("MONGODB_CONNECT_ATTEMPTS", 5)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("DRAFT_TTL_MINUTES", 1440)
	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_RPS", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)
	v.SetDefault("LAYOUTS_DIR", "layouts")
	v.SetDefault("LAYOUTS_REGISTRY", "layouts.yaml")
	v.SetDefault("UPLOAD_DRIVER", "local")
	v.SetDefault("UPLOAD_MAX_BYTES", 5<<20)
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("UPLOAD_BASE_URL", "http://localhost:5000/uploads")
	v.SetDefault("MINIO_BUCKET", "email-builder")
	v.SetDefault("MINIO_PRESIGN_TTL_HOURS", 168)

	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("SERVER_PORT"),
			Host:         v.GetString("SERVER_HOST"),
			Environment:  v.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			CORSOrigins:  splitList(v.GetString("CORS_ORIGINS")),
		},
		MongoDB: MongoDBConfig{
			URI:                v.GetString("MONGODB_URI"),
			Database:           v.GetString("MONGODB_DATABASE"),
			TemplateCollection: v.GetString("MONGODB_COLLECTION"),
			HistoryCollection:  v.GetString("MONGODB_HISTORY_COLLECTION"),
			Timeout:            time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
			ConnectAttempts:    v.GetInt("MONGODB_CONNECT_ATTEMPTS"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			DraftTTL: time.Duration(v.GetInt("DRAFT_TTL_MINUTES")) * time.Minute,
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Layouts: LayoutsConfig{
			Dir:      v.GetString("LAYOUTS_DIR"),
			Registry: v.GetString("LAYOUTS_REGISTRY"),
		},
		Uploads: UploadsConfig{
			Driver:   strings.ToLower(v.GetString("UPLOAD_DRIVER")),
			MaxBytes: v.GetInt64("UPLOAD_MAX_BYTES"),
			Dir:      v.GetString("UPLOAD_DIR"),
			BaseURL:  v.GetString("UPLOAD_BASE_URL"),
		},
		MinIO: MinIOConfig{
			Endpoint:      v.GetString("MINIO_ENDPOINT"),
			AccessKey:     v.GetString("MINIO_ACCESS_KEY"),
			SecretKey:     v.GetString("MINIO_SECRET_KEY"),
			UseSSL:        v.GetBool("MINIO_USE_SSL"),
			Bucket:        v.GetString("MINIO_BUCKET"),
			PublicBaseURL: v.GetString("MINIO_PUBLIC_BASE_URL"),
			PresignTTL:    time.Duration(v.GetInt("MINIO_PRESIGN_TTL_HOURS")) * time.Hour,
		},
	}
	return cfg, nil
}

// RedisAddr is host:port, or "" when Redis is not configured.
func (c *Config) RedisAddr() string {
	if c.Redis.Host == "" {
		return ""
	}
	return c.Redis.Host + ":" + c.Redis.Port
}

func splitList(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
