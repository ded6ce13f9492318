package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	intconfig "spacify/internal/config"
	intdb "spacify/internal/db"
	"spacify/internal/storage"
)

const kvTable = "client_storage"

// KVRepository is a storage.Store backed by a MySQL table, one row per key.
type KVRepository struct {
	DB *sql.DB
	// Scope separates stores sharing a table, e.g. one per device.
	Scope string
}

var _ storage.Store = KVRepository{}

func (r KVRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// EnsureTable creates the backing table when missing.
func (r KVRepository) EnsureTable() error {
	db := r.db()
	if db == nil {
		return fmt.Errorf("db not available")
	}
	ddl := `
CREATE TABLE IF NOT EXISTS client_storage (
	scope VARCHAR(100) NOT NULL,
	k VARCHAR(100) NOT NULL,
	v MEDIUMTEXT NOT NULL,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	PRIMARY KEY (scope, k)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;
`
	return intdb.EnsureTable(db, kvTable, ddl)
}

func (r KVRepository) Load(key string) (string, bool, error) {
	var v string
	err := r.db().QueryRow(`SELECT v FROM client_storage WHERE scope=? AND k=? LIMIT 1`, r.Scope, key).Scan(&v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("load %s: %w", key, err)
	}
	return v, true, nil
}

func (r KVRepository) Save(key, value string) error {
	_, err := r.db().Exec(`
		INSERT INTO client_storage (scope, k, v) VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE v=VALUES(v)
	`, r.Scope, key, value)
	if err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func (r KVRepository) Clear(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	args := make([]any, 0, len(keys)+1)
	args = append(args, r.Scope)
	for _, k := range keys {
		args = append(args, k)
	}
	query := `DELETE FROM client_storage WHERE scope=? AND k IN (` + intdb.Placeholders(len(keys)) + `)`
	if _, err := r.db().Exec(query, args...); err != nil {
		return fmt.Errorf("clear keys: %w", err)
	}
	return nil
}
