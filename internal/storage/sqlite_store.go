package storage

import (
	"database/sql"
	"fmt"
	"sobriety/internal/models"
	"sobriety/internal/providers"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS addictions (
	position       INTEGER PRIMARY KEY,
	name           TEXT    NOT NULL UNIQUE,
	schema_version INTEGER NOT NULL,
	payload        TEXT    NOT NULL
)`

// SQLiteStore keeps one row per record. The payload column holds the JSON
// slot list, schema_version the layout it was written with.
type SQLiteStore struct {
	db     *sql.DB
	logger providers.Logger
}

func NewSQLiteStore(dsn string, logger providers.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{db: db, logger: logger}, nil
}

// Save replaces the stored collection in a single transaction.
func (s *SQLiteStore) Save(records []*models.Addiction) error {
	encoded, err := encodeRecords(records)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM addictions"); err != nil {
		return fmt.Errorf("failed to clear addictions: %w", err)
	}

	stmt, err := tx.Prepare("INSERT INTO addictions (position, name, schema_version, payload) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, raw := range encoded {
		payload, err := json.Marshal(raw)
		if err != nil {
			return fmt.Errorf("encode %q: %w", records[i].Name(), err)
		}
		if _, err := stmt.Exec(i, records[i].Name(), models.SchemaCurrent, string(payload)); err != nil {
			return fmt.Errorf("failed to insert %q: %w", records[i].Name(), err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) Load() ([]*models.Addiction, error) {
	rows, err := s.db.Query("SELECT name, schema_version, payload FROM addictions ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query addictions: %w", err)
	}
	defer rows.Close()

	var out []*models.Addiction
	for rows.Next() {
		var (
			name    string
			version int
			payload string
		)
		if err := rows.Scan(&name, &version, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan addiction: %w", err)
		}
		var raw slots
		if err := json.Unmarshal([]byte(payload), &raw); err != nil {
			return nil, fmt.Errorf("%w: payload of %q: %v", models.ErrData, name, err)
		}
		if version != models.SchemaCurrent {
			s.logger.Warnf(providers.TypeStore, "Migrating %q from schema version %d", name, version)
		}
		a, err := decodeRecord(raw, version)
		if err != nil {
			return nil, fmt.Errorf("record %q: %w", name, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
