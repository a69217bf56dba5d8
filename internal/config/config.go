package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the whole application configuration, populated from
// environment variables and validated once at startup.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	SMTP     SMTPConfig
	Storage  StorageConfig
	Media    MediaConfig
	Cache    CacheConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret             string
	AccessTokenExpiry  int // minutes
	RefreshTokenExpiry int // hours
}

type SMTPConfig struct {
	Host string
	Port string
	From string
}

// StorageConfig selects and configures the object storage backend.
// Backend is one of "local", "cdn", "s3"; each logical collection
// (images, videos) runs against exactly one active backend.
type StorageConfig struct {
	Backend string

	// local
	LocalRoot     string // disk directory served publicly
	PublicBaseURL string

	// cdn
	Zone               string
	Region             string
	AccessKey          string
	CDNBaseURL         string
	RegionEndpoints    map[string]string // region code -> storage host
	DefaultRegion      string
	InsecureSkipVerify bool // explicit opt-in, never derived from environment

	// s3
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3UseSSL    bool
}

// MediaConfig carries upload limits and the variant tier table.
type MediaConfig struct {
	MaxImageBytes     int64
	MaxVideoBytes     int64
	MaxWidth          int
	MaxHeight         int
	AllowedImageExts  []string
	AllowedImageMIMEs []string
	AllowedVideoExts  []string
	AllowedVideoMIMEs []string

	// Quality boost applies to boosted tiers when the source file is at
	// or under PreserveBytes. Progressive encoding kicks in above
	// InterlaceBytes.
	PreserveBytes  int64
	InterlaceBytes int64
	QualityBoost   int
	QualityCap     int

	Tiers []Tier
}

// Tier is one named resize target. Boost marks tiers eligible for the
// small-file quality bump.
type Tier struct {
	Name    string
	Width   int
	Height  int
	Quality int
	Format  string // "jpeg", "png", "webp" (webp falls back to jpeg)
	Boost   bool
}

type CacheConfig struct {
	ListingTTLMinutes  int
	TaxonomyTTLMinutes int
	SearchTTLMinutes   int
}

// DefaultTiers is the fixed fan-out: every accepted image produces one
// variant per tier.
func DefaultTiers() []Tier {
	return []Tier{
		{Name: "full", Width: 1920, Height: 1080, Quality: 90, Format: "jpeg", Boost: true},
		{Name: "large", Width: 1280, Height: 960, Quality: 85, Format: "jpeg"},
		{Name: "medium", Width: 800, Height: 600, Quality: 80, Format: "jpeg"},
		{Name: "thumbnail", Width: 400, Height: 300, Quality: 75, Format: "jpeg"},
		{Name: "small", Width: 200, Height: 150, Quality: 70, Format: "jpeg"},
	}
}

// defaultRegionEndpoints maps a storage region code to its upload host.
// Unrecognized codes fall back to DefaultRegion.
func defaultRegionEndpoints() map[string]string {
	return map[string]string{
		"de":  "storage.bunnycdn.com",
		"uk":  "uk.storage.bunnycdn.com",
		"ny":  "ny.storage.bunnycdn.com",
		"la":  "la.storage.bunnycdn.com",
		"sg":  "sg.storage.bunnycdn.com",
		"syd": "syd.storage.bunnycdn.com",
	}
}

// Load reads config from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Realty API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "realty"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			AccessTokenExpiry:  getEnvInt("JWT_ACCESS_EXPIRY", 15),
			RefreshTokenExpiry: getEnvInt("JWT_REFRESH_EXPIRY", 72),
		},
		SMTP: SMTPConfig{
			Host: getEnv("SMTP_HOST", "localhost"),
			Port: getEnv("SMTP_PORT", "1025"),
			From: getEnv("SMTP_FROM", "noreply@realty.dev"),
		},
		Storage: StorageConfig{
			Backend:            getEnv("STORAGE_BACKEND", "local"),
			LocalRoot:          getEnv("STORAGE_LOCAL_ROOT", "storage"),
			PublicBaseURL:      getEnv("STORAGE_PUBLIC_URL", "http://localhost:8080/storage"),
			Zone:               getEnv("STORAGE_ZONE", ""),
			Region:             getEnv("STORAGE_REGION", "de"),
			AccessKey:          getEnv("STORAGE_ACCESS_KEY", ""),
			CDNBaseURL:         getEnv("STORAGE_CDN_URL", ""),
			RegionEndpoints:    defaultRegionEndpoints(),
			DefaultRegion:      "de",
			InsecureSkipVerify: getEnvBool("STORAGE_INSECURE_SKIP_VERIFY", false),
			S3Endpoint:         getEnv("S3_ENDPOINT", "localhost:9000"),
			S3AccessKey:        getEnv("S3_ACCESS_KEY", "minioadmin"),
			S3SecretKey:        getEnv("S3_SECRET_KEY", "minioadmin"),
			S3Bucket:           getEnv("S3_BUCKET", "realty"),
			S3UseSSL:           getEnvBool("S3_USE_SSL", false),
		},
		Media: MediaConfig{
			MaxImageBytes:     getEnvInt64("MEDIA_MAX_IMAGE_BYTES", 5*1024*1024),
			MaxVideoBytes:     getEnvInt64("MEDIA_MAX_VIDEO_BYTES", 500*1024*1024),
			MaxWidth:          getEnvInt("MEDIA_MAX_WIDTH", 8000),
			MaxHeight:         getEnvInt("MEDIA_MAX_HEIGHT", 6000),
			AllowedImageExts:  getEnvList("MEDIA_IMAGE_EXTS", "jpg,jpeg,png,gif,webp"),
			AllowedImageMIMEs: getEnvList("MEDIA_IMAGE_MIMES", "image/jpeg,image/png,image/gif,image/webp"),
			AllowedVideoExts:  getEnvList("MEDIA_VIDEO_EXTS", "mp4,mov,webm"),
			AllowedVideoMIMEs: getEnvList("MEDIA_VIDEO_MIMES", "video/mp4,video/quicktime,video/webm"),
			PreserveBytes:     getEnvInt64("MEDIA_PRESERVE_BYTES", 2*1024*1024),
			InterlaceBytes:    getEnvInt64("MEDIA_INTERLACE_BYTES", 4*1024*1024),
			QualityBoost:      getEnvInt("MEDIA_QUALITY_BOOST", 3),
			QualityCap:        getEnvInt("MEDIA_QUALITY_CAP", 98),
			Tiers:             DefaultTiers(),
		},
		Cache: CacheConfig{
			ListingTTLMinutes:  getEnvInt("CACHE_LISTING_TTL", 15),
			TaxonomyTTLMinutes: getEnvInt("CACHE_TAXONOMY_TTL", 60),
			SearchTTLMinutes:   getEnvInt("CACHE_SEARCH_TTL", 5),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate rejects configurations that would fail at runtime.
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case "local", "cdn", "s3":
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	if c.Storage.Backend == "cdn" {
		if c.Storage.Zone == "" {
			return fmt.Errorf("STORAGE_ZONE must be set for the cdn backend")
		}
		if c.Storage.AccessKey == "" {
			return fmt.Errorf("STORAGE_ACCESS_KEY must be set for the cdn backend")
		}
		if c.Storage.CDNBaseURL == "" {
			return fmt.Errorf("STORAGE_CDN_URL must be set for the cdn backend")
		}
	}

	if len(c.Media.Tiers) == 0 {
		return fmt.Errorf("media tier table must not be empty")
	}
	for _, t := range c.Media.Tiers {
		if t.Width <= 0 || t.Height <= 0 {
			return fmt.Errorf("tier %q has non-positive dimensions", t.Name)
		}
		if t.Quality < 1 || t.Quality > 100 {
			return fmt.Errorf("tier %q quality out of range", t.Name)
		}
	}

	if c.App.Environment == "production" {
		if c.JWT.Secret == "your-secret-key-change-in-production" {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD must be set in production")
		}
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvList(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
