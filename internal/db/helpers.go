package db

import (
	"database/sql"
	"strings"
)

type QueryRower interface {
	QueryRow(query string, args ...any) *sql.Row
}

type Execer interface {
	QueryRower
	Exec(query string, args ...any) (sql.Result, error)
}

// HasTable reports whether table exists in the current MySQL schema.
// Lookup errors are reported as a missing table.
func HasTable(q QueryRower, table string) bool {
	var name sql.NullString
	err := q.QueryRow(`
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		LIMIT 1
	`, table).Scan(&name)
	if err != nil {
		return false
	}
	return name.Valid && name.String != ""
}

// EnsureTable runs ddl unless table already exists.
func EnsureTable(db Execer, table, ddl string) error {
	if HasTable(db, table) {
		return nil
	}
	_, err := db.Exec(ddl)
	return err
}

// Placeholders returns "?,?,?" for n arguments.
func Placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
