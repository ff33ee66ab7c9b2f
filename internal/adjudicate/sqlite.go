package adjudicate

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/structcost/takeoff/internal/common"
)

// sqliteStore implements Store on an embedded SQLite database.
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) a SQLite payload store with WAL mode
// enabled.
func OpenSQLite(ctx context.Context, path string) (Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS parsed_payloads (
	doc_id TEXT PRIMARY KEY,
	body TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// Put upserts the schema-validated payload snapshot.
func (s *sqliteStore) Put(ctx context.Context, payload *ParsedPayload) error {
	body, err := MarshalPayload(payload)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
INSERT INTO parsed_payloads (doc_id, body, updated_at) VALUES (?, ?, ?)
ON CONFLICT(doc_id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		payload.DocID, string(body), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("put payload %s: %w", payload.DocID, err)
	}
	return nil
}

func (s *sqliteStore) Get(ctx context.Context, docID string) (*ParsedPayload, error) {
	var body string
	err := s.db.QueryRowContext(ctx,
		`SELECT body FROM parsed_payloads WHERE doc_id = ?`, docID).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewAppError("PAYLOAD_NOT_FOUND", docID, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get payload %s: %w", docID, err)
	}

	var p ParsedPayload
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		return nil, fmt.Errorf("decode payload %s: %w", docID, err)
	}
	return &p, nil
}
