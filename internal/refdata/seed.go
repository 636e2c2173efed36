// This file implements seeding the reference tables from the embedded
// datasets and exporting them for local editing.
package refdata

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
)

//go:embed data/*.jsonl
var seedFS embed.FS

// seedEmptyTables fills every reference table that is still empty after
// loading the data directory from the embedded dataset. Seeding is
// idempotent: a table with rows is left alone.
func seedEmptyTables(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	for _, m := range jsonlTableMapping {
		var count int
		if err := tx.QueryRow("SELECT COUNT(*) FROM " + m.table).Scan(&count); err != nil {
			return fmt.Errorf("counting %s: %w", m.table, err)
		}
		if count > 0 {
			continue
		}

		records, err := embeddedRecords(m.file)
		if err != nil {
			return err
		}
		if err := insertRecords(tx, m, records); err != nil {
			return fmt.Errorf("seeding %s: %w", m.table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed transaction: %w", err)
	}
	return nil
}

func embeddedRecords(name string) ([]json.RawMessage, error) {
	f, err := seedFS.Open(path.Join("data", name))
	if err != nil {
		return nil, fmt.Errorf("opening embedded %s: %w", name, err)
	}
	defer f.Close()

	records, err := readJSONL(f)
	if err != nil {
		return nil, fmt.Errorf("reading embedded %s: %w", name, err)
	}
	return records, nil
}

// ExportSeed writes the embedded datasets into dir so they can be edited
// and picked up on the next Attach. Existing files are not overwritten.
// It returns the paths written.
func ExportSeed(dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	var written []string
	for _, m := range jsonlTableMapping {
		dst := filepath.Join(dir, m.file)
		if _, err := os.Stat(dst); err == nil {
			continue
		} else if !errors.Is(err, os.ErrNotExist) {
			return written, fmt.Errorf("stat %s: %w", dst, err)
		}

		records, err := embeddedRecords(m.file)
		if err != nil {
			return written, err
		}
		if err := writeJSONL(dst, records); err != nil {
			return written, fmt.Errorf("writing %s: %w", dst, err)
		}
		written = append(written, dst)
	}
	return written, nil
}
