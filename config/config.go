package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	Env           string
	LogLevel      string
	JWTSecret     string
	AllowedOrigin string
	// Content store (Strapi)
	StrapiURL      string
	StrapiAPIToken string
	StrapiTimeout  time.Duration
	LookupPageSize int
	// Commerce platform (WooCommerce)
	WooURL                string
	WooConsumerKey        string
	WooConsumerSecret     string
	WooTimeout            time.Duration
	WooBrandAttributeID   int64
	WooImprintAttributeID int64
	StoreLocation         *time.Location
	// DB Config (optional, enables persistent links and the sync ledger)
	DBUrl             string
	DBMaxConns        int32
	DBMinConns        int32
	DBMaxConnIdleTime time.Duration
	// Cache
	LinkCacheTTL time.Duration
	// Rate limiting
	RateLimitRPS   float64
	RateLimitBurst int
	// R2 Storage
	R2AccountID       string
	R2AccessKeyID     string
	R2AccessKeySecret string
	R2BucketName      string
	R2PublicURL       string
	R2UploadTimeout   time.Duration
	MaxUploadSizeMB   int64
}

func LoadConfig() *Config {
	// 1. Check if a specific config file is requested via env var
	configFile := os.Getenv("CONFIG_FILE")
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			log.Printf("Warning: Failed to load config file '%s': %v", configFile, err)
		} else {
			log.Printf("Loaded configuration from %s", configFile)
		}
	} else {
		// 2. Default fallback: Try loading .env (standard local dev)
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found or error loading it, relying on system env vars")
		}
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		JWTSecret:     getEnv("JWT_SECRET", "default_secret_CHANGE_ME"),
		AllowedOrigin: getEnv("ALLOWED_ORIGIN", "http://localhost:3000"),

		StrapiURL:      getEnv("STRAPI_URL", ""),
		StrapiAPIToken: getEnv("STRAPI_API_TOKEN", ""),
		StrapiTimeout:  getDurationEnv("STRAPI_TIMEOUT", 15*time.Second),
		LookupPageSize: getIntEnv("LOOKUP_PAGE_SIZE", 1000),

		WooURL:                getEnv("WOO_URL", ""),
		WooConsumerKey:        getEnv("WOO_CONSUMER_KEY", ""),
		WooConsumerSecret:     getEnv("WOO_CONSUMER_SECRET", ""),
		WooTimeout:            getDurationEnv("WOO_TIMEOUT", 15*time.Second),
		WooBrandAttributeID:   getInt64Env("WOO_BRAND_ATTRIBUTE_ID", 0),
		WooImprintAttributeID: getInt64Env("WOO_IMPRINT_ATTRIBUTE_ID", 0),
		StoreLocation:         getLocationEnv("STORE_TIMEZONE", time.UTC),

		DBUrl:             getEnv("DB_DSN", ""),
		DBMaxConns:        getInt32Env("DB_MAX_CONNS", 10),
		DBMinConns:        getInt32Env("DB_MIN_CONNS", 2),
		DBMaxConnIdleTime: getDurationEnv("DB_MAX_CONN_IDLE_TIME", time.Minute*15),

		// Discovered external links are stable; a day is plenty
		LinkCacheTTL: getDurationEnv("LINK_CACHE_TTL", 24*time.Hour),

		RateLimitRPS:   getFloat64Env("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 40),

		R2AccountID:       getEnv("R2_ACCOUNT_ID", ""),
		R2AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
		R2AccessKeySecret: getEnv("R2_ACCESS_KEY_SECRET", ""),
		R2BucketName:      getEnv("R2_BUCKET_NAME", ""),
		R2PublicURL:       getEnv("R2_PUBLIC_URL", ""),
		R2UploadTimeout:   getDurationEnv("R2_UPLOAD_TIMEOUT", 30*time.Second),
		MaxUploadSizeMB:   getInt64Env("MAX_UPLOAD_SIZE_MB", 10),
	}

	cfg.Validate()
	return cfg
}

func (c *Config) Validate() {
	if c.StrapiURL == "" {
		log.Fatal("CRITICAL: STRAPI_URL environment variable is required")
	}
	if c.LookupPageSize <= 0 {
		log.Println("WARNING: LOOKUP_PAGE_SIZE must be positive, using 1000")
		c.LookupPageSize = 1000
	}
	if c.JWTSecret == "default_secret_CHANGE_ME" {
		log.Println("WARNING: Using default JWT secret. Setting up for failure in production.")
	}
	if !c.CommerceEnabled() {
		log.Println("WARNING: WooCommerce credentials missing, every write will be local-only")
	} else if c.WooBrandAttributeID == 0 || c.WooImprintAttributeID == 0 {
		log.Println("WARNING: WOO_BRAND_ATTRIBUTE_ID / WOO_IMPRINT_ATTRIBUTE_ID unset, brand and imprint sync will fail")
	}
}

// CommerceEnabled reports whether the WooCommerce side of reconciliation is configured.
func (c *Config) CommerceEnabled() bool {
	return c.WooURL != "" && c.WooConsumerKey != "" && c.WooConsumerSecret != ""
}

// StorageEnabled reports whether R2 media uploads are configured.
func (c *Config) StorageEnabled() bool {
	return c.R2AccountID != "" && c.R2AccessKeyID != "" && c.R2AccessKeySecret != "" && c.R2BucketName != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s, using fallback", key)
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		log.Printf("Invalid int for %s, using fallback", key)
	}
	return fallback
}

func getInt64Env(key string, fallback int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			return i
		}
		log.Printf("Invalid int64 for %s, using fallback", key)
	}
	return fallback
}
