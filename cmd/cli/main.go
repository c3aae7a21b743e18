package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/wadjakorntonsri/go-link-bio/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/go-link-bio/pkg/config"
	"github.com/wadjakorntonsri/go-link-bio/pkg/core/domain"
)

// Admin tool: dump all link collections to JSON, or load a dump into a
// fresh database (skipping owners that already have links).

type exportedCollection struct {
	OwnerID string        `json:"owner_id"`
	Links   []domain.Link `json:"links"`
}

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	importCmd := flag.NewFlagSet("import", flag.ExitOnError)
	importFile := importCmd.String("file", "", "JSON file to import")

	if len(os.Args) < 2 {
		fmt.Println("expected 'export' or 'import' subcommands")
		os.Exit(1)
	}

	cfg := config.Load()
	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to db: %v", err)
	}

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		doExport(repo)
	case "import":
		importCmd.Parse(os.Args[2:])
		if *importFile == "" {
			importCmd.PrintDefaults()
			os.Exit(1)
		}
		doImport(repo, *importFile)
	default:
		fmt.Println("expected 'export' or 'import' subcommands")
		os.Exit(1)
	}
}

func doExport(repo *sqlite.SQLiteRepository) {
	collections, err := repo.Dump(context.Background())
	if err != nil {
		log.Fatalf("Export failed: %v", err)
	}

	out := make([]exportedCollection, 0, len(collections))
	for _, c := range collections {
		out = append(out, exportedCollection{OwnerID: c.OwnerID, Links: c.Links})
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(out); err != nil {
		log.Fatalf("Encode failed: %v", err)
	}
}

func doImport(repo *sqlite.SQLiteRepository, filename string) {
	file, err := os.Open(filename)
	if err != nil {
		log.Fatalf("Failed to open file: %v", err)
	}
	defer file.Close()

	var collections []exportedCollection
	if err := json.NewDecoder(file).Decode(&collections); err != nil {
		log.Fatalf("Decode failed: %v", err)
	}

	ctx := context.Background()
	count := 0
	for _, c := range collections {
		existing, err := repo.LoadCollection(ctx, c.OwnerID)
		if err != nil {
			log.Printf("Failed to load %s: %v", c.OwnerID, err)
			continue
		}
		if len(existing.Links) > 0 {
			log.Printf("Skipping owner with existing links: %s", c.OwnerID)
			continue
		}

		// Replace against the freshly loaded version so an import never
		// clobbers a concurrent write.
		existing.Links = c.Links
		if err := repo.ReplaceCollection(ctx, existing); err != nil {
			log.Printf("Failed to import %s: %v", c.OwnerID, err)
		} else {
			count++
		}
	}
	log.Printf("Imported %d collections", count)
}
