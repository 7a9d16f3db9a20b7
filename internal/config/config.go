package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

const (
	BlobModeLocal = "local"
	BlobModeS3    = "s3"
	BlobModeAuto  = "auto"
)

type S3Config struct {
	Endpoint          string
	Region            string
	Bucket            string
	AccessKeyID       string
	SecretAccessKey   string
	PublicBaseURL     string
	PresignTTLSeconds int
}

func (c S3Config) MissingRequired() []string {
	missing := make([]string, 0, 5)
	if strings.TrimSpace(c.Endpoint) == "" {
		missing = append(missing, "S3_ENDPOINT")
	}
	if strings.TrimSpace(c.Region) == "" {
		missing = append(missing, "S3_REGION")
	}
	if strings.TrimSpace(c.Bucket) == "" {
		missing = append(missing, "S3_BUCKET")
	}
	if strings.TrimSpace(c.AccessKeyID) == "" {
		missing = append(missing, "S3_ACCESS_KEY_ID")
	}
	if strings.TrimSpace(c.SecretAccessKey) == "" {
		missing = append(missing, "S3_SECRET_ACCESS_KEY")
	}
	return missing
}

func (c S3Config) IsConfigured() bool {
	return len(c.MissingRequired()) == 0
}

// DiagnosticsSummary returns a loggable summary (no secrets).
func (c S3Config) DiagnosticsSummary() string {
	accessKeyStatus := "not set"
	if strings.TrimSpace(c.AccessKeyID) != "" {
		accessKeyStatus = "set"
	}
	secretKeyStatus := "not set"
	if strings.TrimSpace(c.SecretAccessKey) != "" {
		secretKeyStatus = "set"
	}

	return fmt.Sprintf("endpoint=%s region=%s bucket=%s presign_ttl=%ds access_key_id=%s secret_access_key=%s",
		nonEmptyOrDash(c.Endpoint),
		nonEmptyOrDash(c.Region),
		nonEmptyOrDash(c.Bucket),
		c.PresignTTLSeconds,
		accessKeyStatus,
		secretKeyStatus,
	)
}

func nonEmptyOrDash(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "-"
	}
	return v
}

type BlobConfig struct {
	Mode string // local|s3|auto
	S3   S3Config
}

// Config holds the application configuration.
type Config struct {
	Env      string // local | staging | production
	Port     int
	LogLevel string

	// Database
	DatabaseURL       string // runtime connection (resolved: pooled > url > direct)
	DatabaseURLRaw    string // DATABASE_URL as provided
	DatabaseURLPooled string // DATABASE_URL_POOLED as provided
	DatabaseURLDirect string // for migrations / DDL (may be empty)

	// CORS
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	// Rate Limiting
	RateLimitRPS   int
	RateLimitBurst int

	// Blob storage for exported reports
	Blob BlobConfig

	// Reports
	ReportsMaxPerPlan int

	// Authentication & Authorization
	AuthMode      string // none | dev
	AuthRequired  bool
	JWTSecret     string
	JWTIssuer     string
	JWTTTLMinutes int

	// Migrations
	RunMigrationsOnStartup bool
}

// Load reads the configuration from environment variables.
func Load() *Config {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "debug"
	}

	// ---------- Database ----------
	// Runtime priority: DATABASE_URL_POOLED > DATABASE_URL > DATABASE_URL_DIRECT
	dbPooled := strings.TrimSpace(os.Getenv("DATABASE_URL_POOLED"))
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	dbDirect := strings.TrimSpace(os.Getenv("DATABASE_URL_DIRECT"))

	runtimeDB := dbPooled
	if runtimeDB == "" {
		runtimeDB = dbURL
	}
	if runtimeDB == "" {
		runtimeDB = dbDirect
	}

	// ---------- CORS ----------
	corsOrigins := parseCORSOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"), env)

	// ---------- Blob / S3 ----------
	s3PresignTTL := envInt("S3_PRESIGN_TTL_SECONDS", 900)
	if s3PresignTTL <= 0 {
		s3PresignTTL = 900
	}

	blobCfg := BlobConfig{
		Mode: parseBlobMode("BLOB_MODE", BlobModeLocal),
		S3: S3Config{
			Endpoint:          strings.TrimSpace(os.Getenv("S3_ENDPOINT")),
			Region:            strings.TrimSpace(os.Getenv("S3_REGION")),
			Bucket:            strings.TrimSpace(os.Getenv("S3_BUCKET")),
			AccessKeyID:       strings.TrimSpace(os.Getenv("S3_ACCESS_KEY_ID")),
			SecretAccessKey:   strings.TrimSpace(os.Getenv("S3_SECRET_ACCESS_KEY")),
			PublicBaseURL:     strings.TrimSpace(os.Getenv("S3_PUBLIC_BASE_URL")),
			PresignTTLSeconds: s3PresignTTL,
		},
	}

	// ---------- Auth ----------
	authMode := strings.ToLower(strings.TrimSpace(os.Getenv("AUTH_MODE")))
	if authMode == "" {
		authMode = "dev"
	}
	if authMode != "none" && authMode != "dev" {
		log.Printf("WARNING: unknown AUTH_MODE=%q, fallback to dev", authMode)
		authMode = "dev"
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "change_me"
	}

	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "meal-plan-management-service"
	}

	return &Config{
		Env:                    env,
		Port:                   envInt("PORT", 8080),
		LogLevel:               logLevel,
		DatabaseURL:            runtimeDB,
		DatabaseURLRaw:         dbURL,
		DatabaseURLPooled:      dbPooled,
		DatabaseURLDirect:      dbDirect,
		CORSAllowedOrigins:     corsOrigins,
		CORSAllowCredentials:   os.Getenv("CORS_ALLOW_CREDENTIALS") == "1",
		RateLimitRPS:           envInt("RATE_LIMIT_RPS", 0),
		RateLimitBurst:         envInt("RATE_LIMIT_BURST", 0),
		Blob:                   blobCfg,
		ReportsMaxPerPlan:      envInt("REPORTS_MAX_PER_PLAN", 20),
		AuthMode:               authMode,
		AuthRequired:           os.Getenv("AUTH_REQUIRED") != "0" && authMode != "none",
		JWTSecret:              jwtSecret,
		JWTIssuer:              jwtIssuer,
		JWTTTLMinutes:          envInt("JWT_TTL_MINUTES", 43200),
		RunMigrationsOnStartup: parseBoolEnv("RUN_MIGRATIONS_ON_STARTUP"),
	}
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARNING: invalid %s=%q, using default %d", key, v, def)
		return def
	}
	return n
}

func parseBoolEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes"
}

func parseBlobMode(key, def string) string {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if v == "" {
		return def
	}
	if v != BlobModeLocal && v != BlobModeS3 && v != BlobModeAuto {
		log.Printf("WARNING: unknown %s=%q, fallback to %s", key, v, def)
		return def
	}
	return v
}

func parseCORSOrigins(raw string, env string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if env == "local" {
			return []string{"http://localhost:3000", "http://localhost:8080"}
		}
		return nil
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
