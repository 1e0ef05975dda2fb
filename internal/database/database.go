package database

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

func Initialize(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func Migrate(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			bio TEXT NOT NULL DEFAULT '',
			profile_image_url TEXT,
			points_balance INTEGER NOT NULL DEFAULT 0 CHECK (points_balance >= 0),
			is_admin BOOLEAN NOT NULL DEFAULT FALSE,
			is_verified BOOLEAN NOT NULL DEFAULT FALSE,
			google_id TEXT UNIQUE,
			latitude REAL,
			longitude REAL,
			address TEXT,
			city TEXT,
			state TEXT,
			country TEXT,
			postal_code TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			owner_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			category TEXT NOT NULL,
			size TEXT NOT NULL,
			condition TEXT NOT NULL,
			image_url TEXT,
			status TEXT NOT NULL DEFAULT 'pending'
				CHECK (status IN ('pending', 'available', 'swapped', 'rejected')),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (owner_id) REFERENCES users(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS swaps (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			item_id INTEGER NOT NULL,
			from_user_id INTEGER NOT NULL,
			to_user_id INTEGER NOT NULL,
			type TEXT NOT NULL CHECK (type IN ('swap', 'redeem')),
			status TEXT NOT NULL DEFAULT 'pending'
				CHECK (status IN ('pending', 'accepted', 'rejected')),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (item_id) REFERENCES items(id) ON DELETE CASCADE,
			FOREIGN KEY (from_user_id) REFERENCES users(id) ON DELETE CASCADE,
			FOREIGN KEY (to_user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS wishlist (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			item_id INTEGER NOT NULL,
			notes TEXT NOT NULL DEFAULT '',
			priority TEXT NOT NULL DEFAULT 'medium'
				CHECK (priority IN ('low', 'medium', 'high')),
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE,
			FOREIGN KEY (item_id) REFERENCES items(id) ON DELETE CASCADE,
			UNIQUE(user_id, item_id)
		)`,
		`CREATE TABLE IF NOT EXISTS categories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT UNIQUE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sizes (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			label TEXT UNIQUE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS conditions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			label TEXT UNIQUE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tags (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT UNIQUE NOT NULL
		)`,
		// One pending request per user per item. This is what makes the
		// duplicate-request check race-free: concurrent inserts hit the
		// index, not the application check.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_swaps_pending_unique
			ON swaps(item_id, from_user_id) WHERE status = 'pending'`,
		`CREATE INDEX IF NOT EXISTS idx_items_owner_id ON items(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_items_status ON items(status)`,
		`CREATE INDEX IF NOT EXISTS idx_swaps_item_id ON swaps(item_id)`,
		`CREATE INDEX IF NOT EXISTS idx_swaps_from_user_id ON swaps(from_user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_swaps_to_user_id ON swaps(to_user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_wishlist_user_id ON wishlist(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_wishlist_item_id ON wishlist(item_id)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	if err := seedTaxonomy(db); err != nil {
		return fmt.Errorf("failed to seed taxonomy: %w", err)
	}

	return nil
}

func seedTaxonomy(db *sql.DB) error {
	seeds := map[string][]string{
		`INSERT OR IGNORE INTO categories (name) VALUES (?)`: {
			"tops", "bottoms", "dresses", "outerwear", "shoes", "accessories",
		},
		`INSERT OR IGNORE INTO sizes (label) VALUES (?)`: {
			"XS", "S", "M", "L", "XL", "XXL", "One Size",
		},
		`INSERT OR IGNORE INTO conditions (label) VALUES (?)`: {
			"new", "like-new", "good", "fair", "poor",
		},
		`INSERT OR IGNORE INTO tags (name) VALUES (?)`: {
			"casual", "formal", "vintage", "sportswear", "designer",
			"sustainable", "handmade", "winter", "summer",
		},
	}

	for query, values := range seeds {
		for _, value := range values {
			if _, err := db.Exec(query, value); err != nil {
				return err
			}
		}
	}

	return nil
}
