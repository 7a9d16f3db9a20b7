package dbmigrate

import (
	"fmt"

	"github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/config"
)

const DefaultMigrationsDir = "migrations"

const pooledDDLWarning = "using pooled connection for DDL is not recommended; set DATABASE_URL_DIRECT"

// SelectDatabaseURL picks the connection URL migrations should run against.
//
// DDL wants a direct connection, so the priority is the reverse of the
// runtime one: DATABASE_URL_DIRECT, then DATABASE_URL, then the pooled URL
// as a last resort with a warning. With requireDirect set (startup
// migrations), only DATABASE_URL_DIRECT is accepted.
func SelectDatabaseURL(cfg *config.Config, requireDirect bool) (dbURL string, source string, warning string, err error) {
	candidates := []struct {
		url     string
		source  string
		warning string
	}{
		{cfg.DatabaseURLDirect, "DATABASE_URL_DIRECT", ""},
		{cfg.DatabaseURLRaw, "DATABASE_URL", ""},
		{cfg.DatabaseURLPooled, "DATABASE_URL_POOLED", pooledDDLWarning},
	}
	if requireDirect {
		candidates = candidates[:1]
	}

	for _, c := range candidates {
		if c.url != "" {
			return c.url, c.source, c.warning, nil
		}
	}

	if requireDirect {
		return "", "", "", fmt.Errorf("DATABASE_URL_DIRECT is required for DDL/migrations")
	}
	return "", "", "", fmt.Errorf("no database URL configured (set DATABASE_URL_DIRECT or DATABASE_URL)")
}
