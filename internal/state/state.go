// Package state persists per-device settings (user identifier, volume) in a
// small SQLite database under the XDG data directory.
package state

import (
	"database/sql"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/llehouerou/airwaves/internal/db"
)

const (
	appName    = "airwaves"
	dbFileName = "airwaves.db"
)

// Manager owns the local state database.
type Manager struct {
	db *sql.DB
}

// Open opens the state database at its XDG location.
func Open() (*Manager, error) {
	dbPath, err := getDBPath()
	if err != nil {
		return nil, err
	}
	return OpenPath(dbPath)
}

// OpenPath opens the state database at path (":memory:" for tests).
func OpenPath(path string) (*Manager, error) {
	conn, err := db.Open(path)
	if err != nil {
		return nil, err
	}

	if err := initSchema(conn); err != nil {
		conn.Close()
		return nil, err
	}

	return &Manager{db: conn}, nil
}

func (m *Manager) Close() error {
	return m.db.Close()
}

func (m *Manager) DB() *sql.DB {
	return m.db
}

func getDBPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}
