package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"ComexCore/internal/appmanager"
	"ComexCore/internal/config"
	"ComexCore/internal/store"
)

func main() {
	// Load .env for local dev
	_ = godotenv.Load("../.env")

	db, err := sql.Open("postgres", config.DSN())
	if err != nil {
		log.Fatal("failed to connect to DB:", err)
	}
	if err := store.EnsureSchema(db); err != nil {
		log.Fatal("failed to ensure schema:", err)
	}
	appmanager.SetDB(db)

	pool, err := pgxpool.New(context.Background(), config.DSN())
	if err != nil {
		log.Fatal("failed to create pgx pool:", err)
	}
	appmanager.SetPgxPool(pool)

	manager := appmanager.NewAppManager()

	// Load service configs from YAML
	servicesCfg, err := appmanager.LoadServiceSequence("../services.yaml")
	if err != nil {
		log.Fatal("failed to load service sequence:", err)
	}

	// Automatically register all services
	manager.AutoRegisterServices(servicesCfg)

	// Start all services
	if err := manager.StartAll(); err != nil {
		log.Fatal("failed to start:", err)
	}

	// Graceful shutdown handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	// Stop all services
	if err := manager.StopAll(); err != nil {
		log.Fatal("failed to stop:", err)
	}
	pool.Close()
	db.Close()
}
