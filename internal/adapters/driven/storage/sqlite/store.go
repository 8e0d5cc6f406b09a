package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/deskagent/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/deskagent/internal/core/domain"
	"github.com/custodia-labs/deskagent/internal/core/ports/driven"
)

// DatabaseFile is the database file name inside the data directory.
const DatabaseFile = "orders.db"

// Store wraps the SQLite database and hands out port implementations.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (creating if needed) the database in dataDir and applies
// pending migrations. If dataDir is empty, defaults to ~/.deskagent/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".deskagent", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DatabaseFile)

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: dbPath}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// OrderStore returns an OrderStore backed by this database. Closing it
// closes the database.
func (s *Store) OrderStore() driven.OrderStore {
	return &orderStore{store: s}
}

// migrate applies every NNN_*.up.sql newer than the recorded version, each
// in its own transaction.
func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("beginning migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Order Store ====================

// orderStore implements driven.OrderStore.
type orderStore struct {
	store *Store
}

var _ driven.OrderStore = (*orderStore)(nil)

// Replace deletes all rows and inserts records with increasing seq.
func (o *orderStore) Replace(ctx context.Context, records []domain.OrderRecord) error {
	tx, err := o.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning replace: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM order_records"); err != nil {
		return fmt.Errorf("clearing order records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO order_records (seq, customer_id, product, category,
			price, quantity, order_date, payment_method, attributes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		attrs, err := marshalAttributes(r.Attributes)
		if err != nil {
			return fmt.Errorf("marshalling attributes of record %d: %w", i, err)
		}
		_, err = stmt.ExecContext(ctx, i, r.CustomerID, domain.NormaliseKey(r.Product), r.Category, r.Price, r.Quantity, r.OrderDate,
			r.PaymentMethod, attrs)
		if err != nil {
			return fmt.Errorf("inserting record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing replace: %w", err)
	}
	return nil
}

// Find returns the lowest-seq record for the customer and product.
func (o *orderStore) Find(ctx context.Context, customerID, product string) (domain.OrderRecord, error) {
	row := o.store.db.QueryRowContext(ctx, `
		SELECT customer_id, product, category, price, quantity, order_date, payment_method, attributes
		FROM order_records
		WHERE customer_id = ? AND product = ?
		ORDER BY seq
		LIMIT 1
	`, customerID, domain.NormaliseKey(product))

	var (
		r     domain.OrderRecord
		attrs string
	)
	err := row.Scan(&r.CustomerID, &r.Product, &r.Category, &r.Price, &r.Quantity,
		&r.OrderDate, &r.PaymentMethod, &attrs)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.OrderRecord{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.OrderRecord{}, fmt.Errorf("finding order record: %w", err)
	}

	if err := json.Unmarshal([]byte(attrs), &r.Attributes); err != nil {
		return domain.OrderRecord{}, fmt.Errorf("unmarshalling attributes: %w", err)
	}
	return r, nil
}

// Count returns the number of stored records.
func (o *orderStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := o.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM order_records").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting order records: %w", err)
	}
	return n, nil
}

// Close closes the underlying database.
func (o *orderStore) Close() error {
	return o.store.Close()
}

func marshalAttributes(attrs map[string]string) (string, error) {
	if attrs == nil {
		return "{}", nil
	}
	data, err := json.Marshal(attrs)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
