package main

import (
	"log"
	"net/http"
	"os"

	"github.com/savia/posaudit/internal/api"
	"github.com/savia/posaudit/internal/config"
	"github.com/savia/posaudit/internal/repository"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	log.Printf("Initializing database at %s", cfg.DBPath)
	db, err := repository.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to init DB: %v", err)
	}
	defer db.Close()

	runRepo := repository.NewRunRepo(db)
	router := api.NewRouter(runRepo, cfg.BaseURL)

	log.Printf("POS Closure Audit Service")
	log.Printf("Listening on %s", cfg.Address)
	log.Printf("")
	log.Printf("Endpoints:")
	log.Printf("  POST   /api/v1/batches/validate")
	log.Printf("  GET    /api/v1/runs")
	log.Printf("  GET    /api/v1/runs/{id}")
	log.Printf("  GET    /api/v1/runs/{id}/report")
	log.Printf("  GET    /api/v1/dashboard")

	if err := http.ListenAndServe(cfg.Address, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
