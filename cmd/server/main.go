package main

import (
	"fmt"
	"log"

	"radlic/internal/config"
	"radlic/internal/extract"
	"radlic/internal/handler"
	"radlic/internal/repository/postgres"
	"radlic/internal/router"
	"radlic/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	recordRepo := postgres.NewLicenseRecordRepo(db)
	dict := extract.DefaultDictionary()

	licenseSvc := service.NewLicenseService(&cfg.Ingest, dict)

	licenseH := handler.NewLicenseHandler(licenseSvc)
	recordH := handler.NewRecordHandler(recordRepo)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(cfg, licenseH, recordH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
