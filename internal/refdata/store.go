// Package refdata holds the reference datasets the questionnaire checks
// answers against: the country list and the known commodity codes.
//
// Records live in JSONL files. On Attach they are loaded into SQLite, the
// query engine for every lookup; the embedded datasets fill any table the
// data directory does not provide. The store is read-only after Attach.
package refdata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/tradecheck/pkg/types"
)

// dbFileName is the SQLite file created inside a data directory.
const dbFileName = "refdata.db"

// Store answers country and commodity lookups.
type Store struct {
	mu       sync.RWMutex
	attached bool
	db       *sql.DB
	logger   *zap.Logger
}

// NewStore creates a detached store. Call Attach before any lookup.
func NewStore(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{logger: logger}
}

// Attach builds the reference database. With an empty dataDir the
// database is kept in memory and only the embedded datasets are used.
// Otherwise dataDir is created if needed, refdata.db is rebuilt from
// scratch, and any countries.jsonl or codes.jsonl found there take
// precedence over the embedded datasets.
func (s *Store) Attach(dataDir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attached {
		return types.ErrAlreadyAttached
	}

	db, err := openDB(dataDir)
	if err != nil {
		return err
	}

	for _, ddl := range append(append([]string{}, schemaDDL...), indexDDL...) {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	if dataDir != "" {
		if err := loadDataDir(db, dataDir); err != nil {
			db.Close()
			return fmt.Errorf("load JSONL: %w", err)
		}
	}
	if err := seedEmptyTables(db); err != nil {
		db.Close()
		return fmt.Errorf("seed: %w", err)
	}

	s.db = db
	s.attached = true

	countries, codes := s.countLocked()
	s.logger.Info("reference data attached",
		zap.String("data_dir", dataDir),
		zap.Int("countries", countries),
		zap.Int("commodity_codes", codes))
	return nil
}

func openDB(dataDir string) (*sql.DB, error) {
	if dataDir == "" {
		db, err := sql.Open("sqlite", ":memory:")
		if err != nil {
			return nil, err
		}
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
		return db, nil
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	dbPath := filepath.Join(dataDir, dbFileName)
	// JSONL is the source of truth; the database is rebuilt on each start.
	_ = os.Remove(dbPath)
	return sql.Open("sqlite", dbPath)
}

// Detach closes the database. Detach is idempotent.
func (s *Store) Detach() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.attached {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return err
	}
	s.db = nil
	s.attached = false
	return nil
}

func (s *Store) countLocked() (countries, codes int) {
	_ = s.db.QueryRow("SELECT COUNT(*) FROM countries").Scan(&countries)
	_ = s.db.QueryRow("SELECT COUNT(*) FROM commodity_codes").Scan(&codes)
	return countries, codes
}

// Country returns the country with the given code.
// Returns types.ErrNotFound for an unknown code.
func (s *Store) Country(ctx context.Context, code string) (types.Country, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return types.Country{}, types.ErrStoreDetached
	}

	row := s.db.QueryRowContext(ctx,
		"SELECT code, name, COALESCE(name_cy, ''), COALESCE(eu, 0) FROM countries WHERE code = ?", code)
	c, err := scanCountry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Country{}, types.ErrNotFound
	}
	if err != nil {
		return types.Country{}, fmt.Errorf("getting country %s: %w", code, err)
	}
	return c, nil
}

// Countries returns every country ordered by English name.
func (s *Store) Countries(ctx context.Context) ([]types.Country, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return nil, types.ErrStoreDetached
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT code, name, COALESCE(name_cy, ''), COALESCE(eu, 0) FROM countries ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing countries: %w", err)
	}
	defer rows.Close()

	var out []types.Country
	for rows.Next() {
		c, err := scanCountry(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning country: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// IsEU reports whether code is an EU member state. Unknown codes are not.
func (s *Store) IsEU(ctx context.Context, code string) (bool, error) {
	c, err := s.Country(ctx, code)
	if errors.Is(err, types.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return c.EU, nil
}

// Commodity returns the commodity with the given code.
// Returns types.ErrNotFound when the code is not in the dataset.
func (s *Store) Commodity(ctx context.Context, code string) (types.Commodity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.attached {
		return types.Commodity{}, types.ErrStoreDetached
	}

	var c types.Commodity
	err := s.db.QueryRowContext(ctx,
		"SELECT code, description FROM commodity_codes WHERE code = ?", code,
	).Scan(&c.Code, &c.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Commodity{}, types.ErrNotFound
	}
	if err != nil {
		return types.Commodity{}, fmt.Errorf("getting commodity %s: %w", code, err)
	}
	return c, nil
}

// HasCommodity reports whether code is in the local dataset.
func (s *Store) HasCommodity(ctx context.Context, code string) (bool, error) {
	_, err := s.Commodity(ctx, code)
	if errors.Is(err, types.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCountry(r rowScanner) (types.Country, error) {
	var c types.Country
	var eu int
	if err := r.Scan(&c.Code, &c.Name, &c.NameCY, &eu); err != nil {
		return types.Country{}, err
	}
	c.EU = eu != 0
	return c, nil
}
