package storage

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// SQL dialects.
const (
	DialectSQLite = "sqlite"
	DialectMySQL  = "mysql"
)

var dialects = map[string]struct {
	schema string
	upsert string
}{
	DialectSQLite: {
		schema: `CREATE TABLE IF NOT EXISTS kv (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		)`,
		upsert: `INSERT INTO kv (k, v) VALUES (?, ?) ON CONFLICT(k) DO UPDATE SET v = excluded.v`,
	},
	DialectMySQL: {
		schema: `CREATE TABLE IF NOT EXISTS kv (
			k VARCHAR(255) NOT NULL PRIMARY KEY,
			v LONGTEXT NOT NULL
		)`,
		upsert: `INSERT INTO kv (k, v) VALUES (?, ?) ON DUPLICATE KEY UPDATE v = VALUES(v)`,
	},
}

// SQL stores keys in a two-column kv table.
type SQL struct {
	db     *sql.DB
	upsert string
}

// OpenSQL opens the database with the driver registered for dialect and
// ensures the kv table exists.
func OpenSQL(dialect, dsn string) (*SQL, error) {
	d, ok := dialects[dialect]
	if !ok {
		return nil, fmt.Errorf("%w: sql dialect %q", ErrUnknownBackend, dialect)
	}
	db, err := sql.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec(d.schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create kv table: %w", err)
	}
	return &SQL{db: db, upsert: d.upsert}, nil
}

func (s *SQL) Get(key string) (string, bool, error) {
	var v string
	err := s.db.QueryRow(`SELECT v FROM kv WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select %s: %w", key, err)
	}
	return v, true, nil
}

func (s *SQL) Set(key, value string) error {
	if _, err := s.db.Exec(s.upsert, key, value); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (s *SQL) Remove(key string) error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE k = ?`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Close releases the database handle.
func (s *SQL) Close() error {
	return s.db.Close()
}
