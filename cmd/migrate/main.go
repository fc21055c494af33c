package main

import (
	"flag"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/ENuel20/sona-crypto-chat/internal/config"
	"github.com/ENuel20/sona-crypto-chat/internal/repository/postgres"
)

func main() {
	source := flag.String("source", "file://migrations", "migration source URL")
	flag.Parse()

	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	fmt.Printf("Migrating database at %s:%d...\n", cfg.Database.Host, cfg.Database.Port)

	if err := postgres.RunMigrations(cfg.Database.DSN(), *source); err != nil {
		panic(fmt.Sprintf("Migration failed: %v", err))
	}
}
