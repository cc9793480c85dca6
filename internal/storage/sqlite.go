package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Cache namespaces used by venuerank.
const (
	NamespaceSearch = "search"
	NamespacePerson = "person"
)

// Cache is a namespaced key-value store of JSON values.
type Cache interface {
	Get(namespace, key string, maxAge time.Duration, v any) (bool, error)
	Put(namespace, key string, v any) error
}

// DB wraps a SQLite database connection used as a key-value cache.
type DB struct {
	db  *sql.DB
	now func() time.Time
}

var _ Cache = (*DB)(nil)

// NamespaceStats summarizes one namespace.
type NamespaceStats struct {
	Namespace string    `json:"namespace"`
	Entries   int       `json:"entries"`
	Oldest    time.Time `json:"oldest"`
	Newest    time.Time `json:"newest"`
}

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db, now: time.Now}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS cache (
			namespace TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL,
			stored_at INTEGER NOT NULL,
			PRIMARY KEY (namespace, key)
		);

		CREATE INDEX IF NOT EXISTS idx_cache_stored_at ON cache(namespace, stored_at);
	`

	_, err := db.Exec(schema)
	return err
}

// Get decodes the value stored under namespace/key into v. It reports false
// when there is no entry or the entry is older than maxAge. A maxAge of zero
// accepts any age.
func (d *DB) Get(namespace, key string, maxAge time.Duration, v any) (bool, error) {
	var value string
	var storedAt int64
	err := d.db.QueryRow(
		`SELECT value, stored_at FROM cache WHERE namespace = ? AND key = ?`,
		namespace, key,
	).Scan(&value, &storedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("reading cache %s/%s: %w", namespace, key, err)
	}

	if maxAge > 0 && d.now().Sub(time.Unix(storedAt, 0)) > maxAge {
		return false, nil
	}

	if err := json.Unmarshal([]byte(value), v); err != nil {
		return false, fmt.Errorf("decoding cache %s/%s: %w", namespace, key, err)
	}
	return true, nil
}

// Put stores v as JSON under namespace/key, replacing any previous value.
func (d *DB) Put(namespace, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding cache %s/%s: %w", namespace, key, err)
	}

	_, err = d.db.Exec(`
		INSERT INTO cache (namespace, key, value, stored_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value, stored_at = excluded.stored_at
	`, namespace, key, string(data), d.now().Unix())
	if err != nil {
		return fmt.Errorf("writing cache %s/%s: %w", namespace, key, err)
	}
	return nil
}

// Delete removes one entry. Deleting a missing entry is not an error.
func (d *DB) Delete(namespace, key string) error {
	if _, err := d.db.Exec(`DELETE FROM cache WHERE namespace = ? AND key = ?`, namespace, key); err != nil {
		return fmt.Errorf("deleting cache %s/%s: %w", namespace, key, err)
	}
	return nil
}

// Purge removes every entry of namespace, or of all namespaces when
// namespace is empty, and returns how many were removed.
func (d *DB) Purge(namespace string) (int64, error) {
	var res sql.Result
	var err error
	if namespace == "" {
		res, err = d.db.Exec(`DELETE FROM cache`)
	} else {
		res, err = d.db.Exec(`DELETE FROM cache WHERE namespace = ?`, namespace)
	}
	if err != nil {
		return 0, fmt.Errorf("purging cache: %w", err)
	}
	return res.RowsAffected()
}

// Stats returns per-namespace entry counts, ordered by namespace.
func (d *DB) Stats() ([]NamespaceStats, error) {
	rows, err := d.db.Query(`
		SELECT namespace, COUNT(*), MIN(stored_at), MAX(stored_at)
		FROM cache GROUP BY namespace ORDER BY namespace
	`)
	if err != nil {
		return nil, fmt.Errorf("querying cache stats: %w", err)
	}
	defer rows.Close()

	var stats []NamespaceStats
	for rows.Next() {
		var s NamespaceStats
		var oldest, newest int64
		if err := rows.Scan(&s.Namespace, &s.Entries, &oldest, &newest); err != nil {
			return nil, fmt.Errorf("scanning cache stats: %w", err)
		}
		s.Oldest = time.Unix(oldest, 0).UTC()
		s.Newest = time.Unix(newest, 0).UTC()
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
