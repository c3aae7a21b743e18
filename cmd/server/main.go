package main

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/wadjakorntonsri/go-link-bio/pkg/adapters/handler"
	"github.com/wadjakorntonsri/go-link-bio/pkg/adapters/repository/postgres"
	"github.com/wadjakorntonsri/go-link-bio/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/go-link-bio/pkg/config"
	"github.com/wadjakorntonsri/go-link-bio/pkg/core/services"
	"github.com/wadjakorntonsri/go-link-bio/pkg/ports"
)

func main() {
	cfg := config.Load()

	// Initialize Repository
	repo, err := openRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	// Initialize Services
	linkService := services.NewLinkService(repo)
	profileService := services.NewProfileService(repo)

	// Initialize Router
	mux := handler.NewRouter(cfg, linkService, profileService)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Printf("Server starting on port %s", cfg.Port)
	if err := server.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}

// openRepository picks the storage backend from the URL scheme:
// postgres:// for Postgres, anything else goes to the sqlite adapter
// (which itself handles libsql:// for Turso).
func openRepository(dbURL string) (ports.Repository, error) {
	if strings.HasPrefix(dbURL, "postgres://") || strings.HasPrefix(dbURL, "postgresql://") {
		return postgres.NewPostgresRepository(dbURL)
	}
	return sqlite.NewSQLiteRepository(dbURL)
}
