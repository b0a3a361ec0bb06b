package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	log "github.com/sirupsen/logrus"

	"github.com/tensorflow/tensorboard-sub001/internal/migrations"
	"github.com/tensorflow/tensorboard-sub001/internal/shape"
)

const timestampLayout = "2006-01-02 15:04:05"

// Manager stores the last slicing spec of every tensor viewed, keyed by
// source file and tensor name.
type Manager struct {
	db *sql.DB
}

func NewManager(dbPath string) (*Manager, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create spec store directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open spec database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to spec database: %w", err)
	}

	// Run database migrations
	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Manager{db: db}, nil
}

// Save records spec as the latest one for a tensor, replacing any earlier
// entry.
func (m *Manager) Save(sourcePath, tensorName string, s shape.Shape, spec shape.SlicingSpec) error {
	shapeJSON, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal shape: %w", err)
	}
	specJSON, err := json.Marshal(spec)
	if err != nil {
		return fmt.Errorf("failed to marshal slicing spec: %w", err)
	}

	query := `
		INSERT INTO slicing_specs (source_path, tensor_name, shape, tensor_rank, spec, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_path, tensor_name) DO UPDATE SET
			shape = excluded.shape,
			tensor_rank = excluded.tensor_rank,
			spec = excluded.spec,
			updated_at = excluded.updated_at
	`

	// Format timestamp for SQLite in local time
	timestampStr := time.Now().Local().Format(timestampLayout)

	_, err = m.db.Exec(query, sourcePath, tensorName, string(shapeJSON), s.Rank(), string(specJSON), timestampStr)
	if err != nil {
		return fmt.Errorf("failed to save slicing spec: %w", err)
	}
	return nil
}

// Load returns the stored spec for a tensor, or nil when there is none.
// A stored spec is only returned when it was saved for the same shape and
// still validates against it.
func (m *Manager) Load(sourcePath, tensorName string, s shape.Shape) (*shape.SlicingSpec, error) {
	var shapeJSON, specJSON string
	err := m.db.QueryRow(
		"SELECT shape, spec FROM slicing_specs WHERE source_path = ? AND tensor_name = ?",
		sourcePath, tensorName,
	).Scan(&shapeJSON, &specJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load slicing spec: %w", err)
	}

	var stored shape.Shape
	if err := json.Unmarshal([]byte(shapeJSON), &stored); err != nil || !stored.Equal(s) {
		log.Debugf("ignoring stored spec for %s:%s, shape changed", sourcePath, tensorName)
		return nil, nil
	}

	var spec shape.SlicingSpec
	if err := json.Unmarshal([]byte(specJSON), &spec); err != nil {
		log.Debugf("ignoring unreadable stored spec for %s:%s: %v", sourcePath, tensorName, err)
		return nil, nil
	}
	if err := spec.Validate(s); err != nil {
		log.Debugf("ignoring invalid stored spec for %s:%s: %v", sourcePath, tensorName, err)
		return nil, nil
	}
	return &spec, nil
}

// List returns all stored specs, most recently updated first.
func (m *Manager) List() ([]Entry, error) {
	query := `
		SELECT id, source_path, tensor_name, shape, spec, updated_at
		FROM slicing_specs
		ORDER BY updated_at DESC, source_path, tensor_name
	`

	rows, err := m.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list slicing specs: %w", err)
	}
	defer rows.Close()

	return m.scanEntries(rows)
}

func (m *Manager) scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry

	for rows.Next() {
		var entry Entry
		var shapeJSON, specJSON, timestamp string

		if err := rows.Scan(&entry.ID, &entry.SourcePath, &entry.TensorName, &shapeJSON, &specJSON, &timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan slicing spec: %w", err)
		}

		if err := json.Unmarshal([]byte(shapeJSON), &entry.Shape); err != nil {
			return nil, fmt.Errorf("failed to parse stored shape of %s: %w", entry.TensorName, err)
		}
		if err := json.Unmarshal([]byte(specJSON), &entry.Spec); err != nil {
			return nil, fmt.Errorf("failed to parse stored spec of %s: %w", entry.TensorName, err)
		}

		// Parse timestamp as local time
		parsedTime, err := time.ParseInLocation(timestampLayout, timestamp, time.Local)
		if err != nil {
			// Try RFC3339 format as fallback
			parsedTime, err = time.Parse(time.RFC3339, timestamp)
			if err != nil {
				parsedTime = time.Time{}
			}
		}
		entry.UpdatedAt = parsedTime

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (m *Manager) Delete(id int64) error {
	_, err := m.db.Exec("DELETE FROM slicing_specs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete slicing spec: %w", err)
	}
	return nil
}

// DeleteSource removes every spec stored for a source file.
func (m *Manager) DeleteSource(sourcePath string) (int64, error) {
	res, err := m.db.Exec("DELETE FROM slicing_specs WHERE source_path = ?", sourcePath)
	if err != nil {
		return 0, fmt.Errorf("failed to delete slicing specs: %w", err)
	}
	return res.RowsAffected()
}

func (m *Manager) Clear() error {
	_, err := m.db.Exec("DELETE FROM slicing_specs")
	if err != nil {
		return fmt.Errorf("failed to clear slicing specs: %w", err)
	}
	return nil
}

func (m *Manager) GetCount() (int, error) {
	var count int
	err := m.db.QueryRow("SELECT COUNT(*) FROM slicing_specs").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get slicing spec count: %w", err)
	}
	return count, nil
}

func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
