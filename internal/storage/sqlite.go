package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/meur/iconforge/internal/models"
)

// Store handles all database operations
type Store struct {
	db *sql.DB
}

// Import describes one run of the dataset importer
type Import struct {
	ID        string    `json:"id"`
	Source    string    `json:"source"`
	ItemCount int       `json:"item_count"`
	CreatedAt time.Time `json:"created_at"`
}

// New creates a new Store with SQLite
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate runs database migrations
func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS imports (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			item_count INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			import_id TEXT NOT NULL REFERENCES imports(id) ON DELETE CASCADE,
			item_id INTEGER NOT NULL,
			item_key TEXT NOT NULL,
			icon TEXT NOT NULL,
			rare TEXT NOT NULL,
			data TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_import ON items(import_id)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// --- Imports ---

// ImportItems stores items as a new import in a single transaction.
// Earlier imports are removed so the database always holds one dataset.
func (s *Store) ImportItems(source string, items []models.Item) (*Import, error) {
	imp := &Import{
		ID:        uuid.New().String(),
		Source:    source,
		ItemCount: len(items),
		CreatedAt: time.Now().UTC(),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM imports`); err != nil {
		return nil, err
	}
	_, err = tx.Exec(`
		INSERT INTO imports (id, source, item_count, created_at)
		VALUES (?, ?, ?, ?)
	`, imp.ID, imp.Source, imp.ItemCount, imp.CreatedAt)
	if err != nil {
		return nil, err
	}

	stmt, err := tx.Prepare(`
		INSERT INTO items (import_id, item_id, item_key, icon, rare, data)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	for _, item := range items {
		_, err := stmt.Exec(imp.ID, item.ItemID, item.Key, item.Icon,
			string(item.Rare), string(item.Raw))
		if err != nil {
			return nil, fmt.Errorf("insert item %s: %w", item.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return imp, nil
}

// LatestImport returns the most recent import, or nil when the database is empty
func (s *Store) LatestImport() (*Import, error) {
	var imp Import
	err := s.db.QueryRow(`
		SELECT id, source, item_count, created_at
		FROM imports ORDER BY created_at DESC LIMIT 1
	`).Scan(&imp.ID, &imp.Source, &imp.ItemCount, &imp.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &imp, nil
}

// --- Items ---

// GetItems returns the items of an import in the order they were written
func (s *Store) GetItems(importID string) ([]models.Item, error) {
	rows, err := s.db.Query(`
		SELECT item_id, item_key, icon, rare, data
		FROM items WHERE import_id = ? ORDER BY seq
	`, importID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		var rare, data string
		err := rows.Scan(&item.ItemID, &item.Key, &item.Icon, &rare, &data)
		if err != nil {
			return nil, err
		}
		item.Rare = models.Rarity(rare)
		item.Raw = []byte(data)
		items = append(items, item)
	}
	return items, rows.Err()
}
