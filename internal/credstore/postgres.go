package credstore

import (
	"context"
	"errors"
	"fmt"

	go_json "github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS garmin_credentials (
	name       TEXT PRIMARY KEY,
	payload    JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore keeps the credential pair in Postgres.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore ensures the credentials table exists and returns a store
// backed by the pool. The pool's lifecycle stays with the caller.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("initializing credentials schema: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Load(ctx context.Context) (*OAuth1Token, *OAuth2Token, error) {
	var oauth1 OAuth1Token
	if err := s.readToken(ctx, credOAuth1, &oauth1); err != nil {
		return nil, nil, err
	}

	var oauth2 OAuth2Token
	if err := s.readToken(ctx, credOAuth2, &oauth2); err != nil {
		return nil, nil, err
	}

	return &oauth1, &oauth2, nil
}

func (s *PostgresStore) Save(ctx context.Context, oauth1 *OAuth1Token, oauth2 *OAuth2Token) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if oauth1 != nil {
		if err := s.upsertToken(ctx, tx, credOAuth1, oauth1); err != nil {
			return err
		}
	}
	if oauth2 != nil {
		if err := s.upsertToken(ctx, tx, credOAuth2, oauth2); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) readToken(ctx context.Context, name string, dst any) error {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM garmin_credentials WHERE name = $1`, name,
	).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("reading %s credential: %w", name, err)
	}

	if err := go_json.Unmarshal(payload, dst); err != nil {
		return fmt.Errorf("%s: %w: %v", name, ErrCorrupt, err)
	}
	return nil
}

func (s *PostgresStore) upsertToken(ctx context.Context, tx pgx.Tx, name string, src any) error {
	payload, err := go_json.Marshal(src)
	if err != nil {
		return fmt.Errorf("encoding %s credential: %w", name, err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO garmin_credentials (name, payload, updated_at) VALUES ($1, $2, now())
		 ON CONFLICT (name) DO UPDATE SET payload = EXCLUDED.payload, updated_at = now()`,
		name, payload,
	)
	if err != nil {
		return fmt.Errorf("storing %s credential: %w", name, err)
	}
	return nil
}
