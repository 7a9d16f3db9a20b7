package main

import (
	"fmt"
	"log"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/config"
	"github.com/Recipe-Web-App/meal-plan-management-service-sub000/internal/dbmigrate"
)

var allowedCommands = map[string]bool{"up": true, "status": true, "down": true}

func main() {
	command, err := parseArgs(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	cfg := config.Load()
	dbURL, source, warning, err := dbmigrate.SelectDatabaseURL(cfg, false)
	if err != nil {
		log.Fatal(err)
	}
	if warning != "" {
		log.Printf("WARN migrate: %s", warning)
	}

	log.Printf("migrate: command=%s using=%s", command, source)
	if err := dbmigrate.Run(command, dbURL, dbmigrate.DefaultMigrationsDir); err != nil {
		log.Fatal(err)
	}
	log.Printf("migrate: %s completed successfully", command)
}

func parseArgs(args []string) (string, error) {
	if len(args) < 1 {
		return "", fmt.Errorf("usage: go run ./cmd/migrate [up|status|down]")
	}
	if !allowedCommands[args[0]] {
		return "", fmt.Errorf("unsupported command %q (allowed: up, status, down)", args[0])
	}
	return args[0], nil
}
