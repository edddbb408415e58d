package planner

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

const designSchema = `
CREATE TABLE IF NOT EXISTS designs (
    name       TEXT PRIMARY KEY,
    document   TEXT NOT NULL,
    walls      INTEGER NOT NULL,
    entities   INTEGER NOT NULL,
    updated_at TEXT NOT NULL
);`

// DesignInfo summarizes a stored design
type DesignInfo struct {
	Name      string    `json:"name"`
	Walls     int       `json:"walls"`
	Entities  int       `json:"entities"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SQLiteStore keeps named designs in a SQLite database
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens the sqlite database at dbPath, creating its directory
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// NewSQLiteStore wraps db and creates the schema
func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.ExecContext(ctx, designSchema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// OpenStore opens or creates the design store at path
func OpenStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := OpenSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("open design store: %w", err)
	}
	s, err := NewSQLiteStore(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Save stores the design under name, replacing any previous version
func (s *SQLiteStore) Save(ctx context.Context, name string, d Design) error {
	if name == "" {
		return fmt.Errorf("design name is required")
	}
	d.Name = name
	doc, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshaling design: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO designs (name, document, walls, entities, updated_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(name) DO UPDATE SET
            document = excluded.document,
            walls = excluded.walls,
            entities = excluded.entities,
            updated_at = excluded.updated_at
    `, name, string(doc), len(d.Walls), len(d.Entities), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save design %q: %w", name, err)
	}
	return nil
}

// Load fetches a design by name
func (s *SQLiteStore) Load(ctx context.Context, name string) (Design, error) {
	var d Design
	var doc string
	row := s.db.QueryRowContext(ctx, `SELECT document FROM designs WHERE name = ?`, name)
	if err := row.Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return d, fmt.Errorf("%w: %s", ErrDesignNotFound, name)
		}
		return d, fmt.Errorf("load design %q: %w", name, err)
	}
	if err := json.Unmarshal([]byte(doc), &d); err != nil {
		return d, fmt.Errorf("parsing design %q: %w", name, err)
	}
	return d, nil
}

// List returns stored designs ordered by name
func (s *SQLiteStore) List(ctx context.Context) ([]DesignInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT name, walls, entities, updated_at
        FROM designs
        ORDER BY name
    `)
	if err != nil {
		return nil, fmt.Errorf("list designs: %w", err)
	}
	defer rows.Close()

	out := []DesignInfo{}
	for rows.Next() {
		var info DesignInfo
		var updated string
		if err := rows.Scan(&info.Name, &info.Walls, &info.Entities, &updated); err != nil {
			return nil, err
		}
		info.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updated)
		out = append(out, info)
	}
	return out, rows.Err()
}

// Delete removes a stored design
func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM designs WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete design %q: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrDesignNotFound, name)
	}
	return nil
}
