package storage

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"flowerboard/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS items (
  name TEXT PRIMARY KEY,
  kind TEXT NOT NULL,
  durationSec REAL NOT NULL,
  position INTEGER NOT NULL,
  importedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_items_position ON items(position);

CREATE TABLE IF NOT EXISTS secondary_prices (
  name TEXT PRIMARY KEY,
  secondaryPrice REAL NOT NULL,
  position INTEGER NOT NULL,
  importedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_secondary_position ON secondary_prices(position);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// ReplaceItems swaps the stored item catalog for items, keeping their order.
func (d *DB) ReplaceItems(items []internal.CatalogItem) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM items`); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
INSERT INTO items (name, kind, durationSec, position, importedAt)
VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(name) DO UPDATE SET
  kind=excluded.kind,
  durationSec=excluded.durationSec,
  importedAt=CURRENT_TIMESTAMP
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, item := range items {
		if _, err := stmt.Exec(item.Name, string(item.Kind), item.DurationSeconds, i); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) ListItems() ([]internal.CatalogItem, error) {
	rows, err := d.conn.Query(`SELECT name, kind, durationSec FROM items ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]internal.CatalogItem, 0)
	for rows.Next() {
		var item internal.CatalogItem
		var kind string
		if err := rows.Scan(&item.Name, &kind, &item.DurationSeconds); err != nil {
			return nil, err
		}
		item.Kind = internal.Kind(kind)
		out = append(out, item)
	}

	return out, rows.Err()
}

// ReplaceSecondary swaps the stored secondary price list, keeping its order.
func (d *DB) ReplaceSecondary(entries []internal.SecondaryItem) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM secondary_prices`); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
INSERT INTO secondary_prices (name, secondaryPrice, position, importedAt)
VALUES (?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(name) DO UPDATE SET
  secondaryPrice=excluded.secondaryPrice,
  importedAt=CURRENT_TIMESTAMP
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, entry := range entries {
		if _, err := stmt.Exec(entry.Name, entry.SecondaryPrice, i); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) ListSecondary() ([]internal.SecondaryItem, error) {
	rows, err := d.conn.Query(`SELECT name, secondaryPrice FROM secondary_prices ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]internal.SecondaryItem, 0)
	for rows.Next() {
		var entry internal.SecondaryItem
		if err := rows.Scan(&entry.Name, &entry.SecondaryPrice); err != nil {
			return nil, err
		}
		out = append(out, entry)
	}

	return out, rows.Err()
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

// GetMetadata returns nil when key was never set.
func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
