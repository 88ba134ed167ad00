// Package state persists playback state between sessions in a small
// SQLite database: last position and volume per media path.
package state

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName      = "mp"
	dbFileName   = "mp.db"
	saveDebounce = 500 * time.Millisecond
)

// Resume is the saved playback state for one media path.
type Resume struct {
	Path     string
	Position time.Duration
	Volume   float64
}

type Manager struct {
	db        *sql.DB
	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   *Resume
}

func Open() (*Manager, error) {
	dbPath, err := xdg.DataFile(filepath.Join(appName, dbFileName))
	if err != nil {
		return nil, err
	}
	return open(dbPath)
}

func open(dbPath string) (*Manager, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Manager{db: db}, nil
}

// Close flushes any debounced save and closes the database.
func (m *Manager) Close() error {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	pending := m.pending
	m.pending = nil
	m.saveMu.Unlock()

	if pending != nil {
		_ = saveResume(m.db, *pending)
	}
	return m.db.Close()
}

// Resume returns the saved state for a path, or nil when none was saved.
func (m *Manager) Resume(path string) (*Resume, error) {
	var r Resume
	row := m.db.QueryRow(
		`SELECT path, position_ns, volume FROM resume_state WHERE path = ?`, path)
	var posNS int64
	err := row.Scan(&r.Path, &posNS, &r.Volume)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.Position = time.Duration(posNS)
	return &r, nil
}

// Save schedules a debounced write of the given state. Rapid position
// updates collapse into one write; Close flushes the last one.
func (m *Manager) Save(r Resume) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.pending = &r

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	m.saveTimer = time.AfterFunc(saveDebounce, func() {
		m.saveMu.Lock()
		pending := m.pending
		m.pending = nil
		m.saveMu.Unlock()

		if pending != nil {
			_ = saveResume(m.db, *pending)
		}
	})
}

// Forget removes the saved state for a path. Called when an entry plays
// through to the end.
func (m *Manager) Forget(path string) error {
	_, err := m.db.Exec(`DELETE FROM resume_state WHERE path = ?`, path)
	return err
}

func saveResume(db *sql.DB, r Resume) error {
	_, err := db.Exec(`
		INSERT INTO resume_state (path, position_ns, volume, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			position_ns = excluded.position_ns,
			volume = excluded.volume,
			updated_at = excluded.updated_at
	`, r.Path, int64(r.Position), r.Volume, time.Now().Unix())
	return err
}
