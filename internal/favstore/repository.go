// Package favstore is the server side of the favorites store: an SQLite
// repository holding one record per user, and the HTTP handlers exposing it
// together with a pass-through proxy to the station directory.
package favstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/adrg/xdg"

	"github.com/llehouerou/airwaves/internal/db"
	"github.com/llehouerou/airwaves/internal/favorites"
)

const schema = `
CREATE TABLE IF NOT EXISTS favorite_users (
	user_id TEXT PRIMARY KEY,
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS favorite_stations (
	user_id TEXT NOT NULL REFERENCES favorite_users(user_id) ON DELETE CASCADE,
	station_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	added_at INTEGER NOT NULL,
	PRIMARY KEY (user_id, station_id)
);

CREATE INDEX IF NOT EXISTS idx_favorite_stations_position
	ON favorite_stations(user_id, position);
`

// DefaultPath returns the database location under the XDG data directory.
func DefaultPath() (string, error) {
	return xdg.DataFile("airwaves/favorites.db")
}

// Repository stores favorites records. Each mutation runs in its own
// transaction, so concurrent calls for one user never interleave.
type Repository struct {
	db *sql.DB
}

// Open opens the database at path and ensures the schema.
func Open(path string) (*Repository, error) {
	conn, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open favorites db: %w", err)
	}
	repo, err := NewRepository(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return repo, nil
}

// NewRepository wraps an open database and ensures the schema.
func NewRepository(conn *sql.DB) (*Repository, error) {
	if _, err := conn.Exec(schema); err != nil {
		return nil, fmt.Errorf("create favorites schema: %w", err)
	}
	return &Repository{db: conn}, nil
}

// Close closes the database.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Get returns the record of userID, or favorites.ErrNotFound.
func (r *Repository) Get(ctx context.Context, userID string) (favorites.Record, error) {
	var rec favorites.Record
	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var err error
		rec, err = readRecord(ctx, tx, userID)
		return err
	})
	return rec, err
}

// Add inserts stationID into the record of userID, creating the record on
// first use. Adding a present station changes nothing.
func (r *Repository) Add(ctx context.Context, userID, stationID string) (favorites.Record, error) {
	if stationID == "" {
		return favorites.Record{}, favorites.ErrInvalidStationID
	}

	var rec favorites.Record
	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		now := time.Now().Unix()
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO favorite_users (user_id, created_at) VALUES (?, ?)
		`, userID, now); err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO favorite_stations (user_id, station_id, position, added_at)
			VALUES (?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM favorite_stations WHERE user_id = ?), ?)
		`, userID, stationID, userID, now); err != nil {
			return fmt.Errorf("insert station: %w", err)
		}

		var err error
		rec, err = readRecord(ctx, tx, userID)
		return err
	})
	return rec, err
}

// Remove deletes stationID from the record of userID. A missing record is
// favorites.ErrNotFound; a missing station changes nothing.
func (r *Repository) Remove(ctx context.Context, userID, stationID string) (favorites.Record, error) {
	if stationID == "" {
		return favorites.Record{}, favorites.ErrInvalidStationID
	}

	var rec favorites.Record
	err := db.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := requireUser(ctx, tx, userID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM favorite_stations WHERE user_id = ? AND station_id = ?
		`, userID, stationID); err != nil {
			return fmt.Errorf("delete station: %w", err)
		}

		var err error
		rec, err = readRecord(ctx, tx, userID)
		return err
	})
	return rec, err
}

func requireUser(ctx context.Context, tx *sql.Tx, userID string) error {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM favorite_users WHERE user_id = ?`, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return favorites.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("query user: %w", err)
	}
	return nil
}

func readRecord(ctx context.Context, tx *sql.Tx, userID string) (favorites.Record, error) {
	if err := requireUser(ctx, tx, userID); err != nil {
		return favorites.Record{}, err
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT station_id FROM favorite_stations
		WHERE user_id = ?
		ORDER BY position
	`, userID)
	if err != nil {
		return favorites.Record{}, fmt.Errorf("query stations: %w", err)
	}
	defer rows.Close()

	rec := favorites.Record{UserID: userID, StationIDs: []string{}}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return favorites.Record{}, fmt.Errorf("scan station: %w", err)
		}
		rec.StationIDs = append(rec.StationIDs, id)
	}
	return rec, rows.Err()
}

// Verify Repository implements favorites.Store at compile time.
var _ favorites.Store = (*Repository)(nil)
