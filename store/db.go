package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Generation is one recorded run of the QR generator.
type Generation struct {
	ID        int64  `json:"id"`
	Path      string `json:"path"`
	Payload   string `json:"payload"`
	Engine    string `json:"engine"`
	Level     string `json:"level"`
	Version   int    `json:"version"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Checksum  string `json:"checksum"`
	CreatedAt int64  `json:"created_at"`
}

// HistoryStore manages SQLite storage for generation history.
type HistoryStore struct {
	db *sql.DB
}

const createGenerationsTable = `
CREATE TABLE IF NOT EXISTS generations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL,
    payload TEXT NOT NULL DEFAULT '',
    engine TEXT NOT NULL,
    level TEXT NOT NULL,
    version INTEGER NOT NULL,
    width INTEGER NOT NULL,
    height INTEGER NOT NULL,
    checksum TEXT NOT NULL,
    created_at INTEGER NOT NULL
);
`

const createIndexes = `
CREATE INDEX IF NOT EXISTS idx_generations_created_at ON generations(created_at);
`

// NewHistoryStore opens (or creates) the SQLite database at dbPath and
// initialises the schema.
func NewHistoryStore(dbPath string) (*HistoryStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	for _, stmt := range []string{
		createGenerationsTable,
		createIndexes,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec schema statement: %w", err)
		}
	}

	return &HistoryStore{db: db}, nil
}

// Record appends g to the history and sets g.ID.
func (s *HistoryStore) Record(ctx context.Context, g *Generation) error {
	const query = `
		INSERT INTO generations
			(path, payload, engine, level, version, width, height, checksum, created_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	res, err := s.db.ExecContext(ctx, query,
		g.Path,
		g.Payload,
		g.Engine,
		g.Level,
		g.Version,
		g.Width,
		g.Height,
		g.Checksum,
		g.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("record generation: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("record generation: %w", err)
	}
	g.ID = id
	return nil
}

// List returns the most recent generations, newest first.
func (s *HistoryStore) List(ctx context.Context, limit int) ([]Generation, error) {
	const query = `
		SELECT id, path, payload, engine, level, version, width, height, checksum, created_at
		FROM generations
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}
	defer rows.Close()

	var gens []Generation
	for rows.Next() {
		var g Generation
		if err := rows.Scan(
			&g.ID, &g.Path, &g.Payload, &g.Engine, &g.Level,
			&g.Version, &g.Width, &g.Height, &g.Checksum, &g.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan generation row: %w", err)
		}
		gens = append(gens, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate generation rows: %w", err)
	}

	return gens, nil
}

// Close closes the underlying database connection.
func (s *HistoryStore) Close() error {
	return s.db.Close()
}
