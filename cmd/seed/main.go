package main

import (
	"flag"
	"log"
	"os"

	"github.com/meur/iconforge/internal/catalog"
	"github.com/meur/iconforge/internal/storage"
)

func main() {
	dbPath := flag.String("db", "./catalog.db", "SQLite catalog database path")
	assets := flag.String("assets", "./assets.txt", "Dataset JSON file")
	flag.Parse()

	data, err := os.ReadFile(*assets)
	if err != nil {
		log.Fatalf("Failed to read dataset: %v", err)
	}

	items, err := catalog.ParseItems(data)
	if err != nil {
		log.Fatalf("Failed to parse dataset: %v", err)
	}

	store, err := storage.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	imp, err := store.ImportItems(*assets, items)
	if err != nil {
		log.Fatalf("Failed to import items: %v", err)
	}

	log.Printf("✓ Imported %d items from %s", imp.ItemCount, *assets)
	log.Printf("🌱 Seeding complete! import=%s", imp.ID)
}
