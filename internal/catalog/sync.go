package catalog

import (
	"errors"
	"log/slog"
	"time"

	"flowerboard/internal"
	"flowerboard/internal/storage"
)

const lastImportKey = "catalog.last_import"

type ImportResult struct {
	Items     int
	Secondary int
	At        time.Time
}

// Importer copies loaded catalogs into the catalog database.
type Importer struct {
	db     *storage.DB
	logger *slog.Logger
	now    func() time.Time
}

func NewImporter(db *storage.DB, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{db: db, logger: logger, now: time.Now}
}

func (im *Importer) Import(items []internal.CatalogItem, secondary []internal.SecondaryItem) (ImportResult, error) {
	if err := im.db.ReplaceItems(items); err != nil {
		return ImportResult{}, err
	}
	if err := im.db.ReplaceSecondary(secondary); err != nil {
		return ImportResult{}, err
	}

	at := im.now().UTC()
	if err := im.db.SetMetadata(lastImportKey, at.Format(time.RFC3339)); err != nil {
		return ImportResult{}, err
	}
	im.logger.Info("catalog imported", "items", len(items), "secondary", len(secondary))
	return ImportResult{Items: len(items), Secondary: len(secondary), At: at}, nil
}

// LastImport reports when Import last ran, or false if it never did.
func (im *Importer) LastImport() (time.Time, bool, error) {
	value, err := im.db.GetMetadata(lastImportKey)
	if err != nil || value == nil {
		return time.Time{}, false, err
	}
	at, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return time.Time{}, false, err
	}
	return at, true, nil
}

// LoadFromDB reads both catalogs back out of db. An empty item catalog means
// nothing was imported yet and is an error.
func LoadFromDB(db *storage.DB) ([]internal.CatalogItem, []internal.SecondaryItem, error) {
	items, err := db.ListItems()
	if err != nil {
		return nil, nil, err
	}
	if len(items) == 0 {
		return nil, nil, errors.New("catalog database is empty, run `catalog import` first")
	}
	secondary, err := db.ListSecondary()
	if err != nil {
		return nil, nil, err
	}
	return items, secondary, nil
}
