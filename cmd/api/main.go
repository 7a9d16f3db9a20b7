package main

import (
	"fmt"
	"log"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/config"
	"github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/dbmigrate"
	"github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/httpserver"
)

func main() {
	cfg := config.Load()

	printStartupBanner(cfg)

	if cfg.RunMigrationsOnStartup {
		dbURL, source, _, err := dbmigrate.SelectDatabaseURL(cfg, true)
		if err != nil {
			log.Fatalf("FATAL startup migrations: %v", err)
		}

		log.Printf("startup migrations: command=up using=%s", source)
		if err := dbmigrate.Run("up", dbURL, dbmigrate.DefaultMigrationsDir); err != nil {
			log.Fatalf("FATAL startup migrations failed: %v", err)
		}
		log.Printf("startup migrations: completed")
	}

	validateProductionConfig(cfg)

	server := httpserver.New(cfg)

	log.Fatal(server.Start())
}

// printStartupBanner logs a one-time summary of the resolved configuration.
// No secrets are ever printed, only masked indicators ("set" / "not set").
func printStartupBanner(cfg *config.Config) {
	log.Println("====== Meal Plan Management API ======")
	log.Printf("  env              = %s", cfg.Env)
	log.Printf("  port             = %d", cfg.Port)

	log.Println("---- database ----")
	log.Printf("  runtime_url      = %s", describeDBURL(cfg.DatabaseURL, cfg.DatabaseURLPooled))
	log.Printf("  pooled           = %s", setOrNot(cfg.DatabaseURLPooled))
	log.Printf("  direct           = %s", setOrNot(cfg.DatabaseURLDirect))
	log.Printf("  migrations_on_startup = %t", cfg.RunMigrationsOnStartup)
	if cfg.RunMigrationsOnStartup && cfg.DatabaseURLDirect == "" {
		log.Printf("  migrations_via   = (will fail, DATABASE_URL_DIRECT not set)")
	}

	log.Println("---- auth ----")
	log.Printf("  auth_mode        = %s", cfg.AuthMode)
	log.Printf("  auth_required    = %t", cfg.AuthRequired)
	log.Printf("  jwt_secret       = %s", secretStatus(cfg.JWTSecret, "change_me"))

	log.Println("---- blob ----")
	log.Printf("  blob_mode        = %s", cfg.Blob.Mode)
	if cfg.Blob.Mode != config.BlobModeLocal {
		log.Printf("  s3: %s", cfg.Blob.S3.DiagnosticsSummary())
	}
	log.Printf("  reports_max_per_plan = %d", cfg.ReportsMaxPerPlan)

	log.Println("======================================")
}

// validateProductionConfig performs fatal checks that only matter in non-local envs.
func validateProductionConfig(cfg *config.Config) {
	isProd := cfg.Env == "production" || cfg.Env == "staging"

	if cfg.Blob.Mode == config.BlobModeS3 {
		if missing := cfg.Blob.S3.MissingRequired(); len(missing) > 0 {
			log.Fatalf("FATAL blob: BLOB_MODE is 's3' but S3 config is incomplete, missing: %s", strings.Join(missing, ", "))
		}
	}

	if isProd && cfg.AuthRequired && cfg.JWTSecret == "change_me" {
		log.Fatalf("FATAL auth: JWT_SECRET must not be 'change_me' in %s with AUTH_REQUIRED=1", cfg.Env)
	}

	if isProd && cfg.DatabaseURL == "" {
		log.Fatalf("FATAL db: no DATABASE_URL configured in %s", cfg.Env)
	}
}

// ---- helpers (no secrets) ----

func setOrNot(v string) string {
	if strings.TrimSpace(v) == "" {
		return "not set"
	}
	return "set"
}

func secretStatus(v, insecureDefault string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "not set"
	}
	if v == insecureDefault {
		return fmt.Sprintf("set (DEFAULT, insecure '%s')", insecureDefault)
	}
	return "set (custom)"
}

func describeDBURL(runtime, pooled string) string {
	if runtime == "" {
		return "not set (will use in-memory storage)"
	}
	if pooled != "" && runtime == pooled {
		return "set (via DATABASE_URL_POOLED)"
	}
	return "set"
}
