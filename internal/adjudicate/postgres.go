package adjudicate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/structcost/takeoff/internal/common"
)

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// OpenPostgres creates a tuned pgx pool and ensures the payload table
// exists.
func OpenPostgres(ctx context.Context, cfg common.StoreConfig, logger *slog.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("connecting to payload store", "dsn", cfg.DSN)

	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pc.MaxConns = cfg.MaxConns
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.RuntimeParams["application_name"] = "takeoff-engine"
	if cfg.StatementTimeout > 0 {
		pc.ConnConfig.RuntimeParams["statement_timeout"] = cfg.StatementTimeout.String()
	}

	dialCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		logger.Error("failed to connect to payload store", "error", err)
		return nil, err
	}

	if _, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS parsed_payloads (
	doc_id TEXT PRIMARY KEY,
	body JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`); err != nil {
		pool.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	logger.Info("payload store connected")
	return &PostgresStore{pool: pool, logger: logger}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// HealthCheck pings the pool to catch DSN issues early.
func (s *PostgresStore) HealthCheck(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Put(ctx context.Context, payload *ParsedPayload) error {
	body, err := MarshalPayload(payload)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx, `
INSERT INTO parsed_payloads (doc_id, body, updated_at) VALUES ($1, $2, now())
ON CONFLICT (doc_id) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`,
		payload.DocID, body)
	if err != nil {
		return fmt.Errorf("put payload %s: %w", payload.DocID, err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, docID string) (*ParsedPayload, error) {
	var body []byte
	err := s.pool.QueryRow(ctx,
		`SELECT body FROM parsed_payloads WHERE doc_id = $1`, docID).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NewAppError("PAYLOAD_NOT_FOUND", docID, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get payload %s: %w", docID, err)
	}

	var p ParsedPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("decode payload %s: %w", docID, err)
	}
	return &p, nil
}
