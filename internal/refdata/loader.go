// This file implements loading reference data from JSONL into SQLite.
package refdata

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

// tableMapping ties a JSONL file to its SQLite table and columns.
type tableMapping struct {
	file    string
	table   string
	columns []string
}

// jsonlTableMapping lists every reference table. The file names are the
// same in the data directory and in the embedded seed set.
var jsonlTableMapping = []tableMapping{
	{"countries.jsonl", "countries", []string{"code", "name", "name_cy", "eu"}},
	{"codes.jsonl", "commodity_codes", []string{"code", "description"}},
}

// loadDataDir reads each JSONL file present in dataDir and inserts its
// records. Loading is transactional: all files load or none do. Malformed
// lines and records violating constraints are skipped, unknown fields are
// ignored.
func loadDataDir(db *sql.DB, dataDir string) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	for _, m := range jsonlTableMapping {
		records, err := readJSONLFile(filepath.Join(dataDir, m.file))
		if err != nil {
			return fmt.Errorf("reading %s: %w", m.file, err)
		}
		if len(records) == 0 {
			continue
		}
		if err := insertRecords(tx, m, records); err != nil {
			return fmt.Errorf("loading %s into %s: %w", m.file, m.table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

// insertRecords inserts parsed JSONL records into m.table. Only the mapped
// columns are read; booleans are stored as 0/1.
func insertRecords(tx *sql.Tx, m tableMapping, records []json.RawMessage) error {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(m.columns)), ", ")
	insertSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		m.table, strings.Join(m.columns, ", "), placeholders,
	)

	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		return fmt.Errorf("preparing insert for %s: %w", m.table, err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var obj map[string]any
		if err := json.Unmarshal(rec, &obj); err != nil {
			continue
		}

		args := make([]any, len(m.columns))
		for i, col := range m.columns {
			switch v := obj[col].(type) {
			case bool:
				if v {
					args[i] = 1
				} else {
					args[i] = 0
				}
			case nil:
				args[i] = nil
			default:
				args[i] = v
			}
		}

		if _, err := stmt.Exec(args...); err != nil {
			// Duplicate or incomplete rows are skipped.
			continue
		}
	}
	return nil
}
