package credstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	go_json "github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3"
)

const (
	sqliteSchema = `CREATE TABLE IF NOT EXISTS credentials (
	name    TEXT PRIMARY KEY,
	payload TEXT NOT NULL
)`

	credOAuth1 = "oauth1"
	credOAuth2 = "oauth2"
)

// SQLiteStore keeps the credential pair in a local SQLite database, one row
// per token.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if needed) the database at path and ensures the
// credentials table exists.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing credentials schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Load(ctx context.Context) (*OAuth1Token, *OAuth2Token, error) {
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

func (s *SQLiteStore) Save(ctx context.Context, oauth1 *OAuth1Token, oauth2 *OAuth2Token) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if oauth1 != nil {
		if err := upsertToken(ctx, tx, credOAuth1, oauth1); err != nil {
			return err
		}
	}
	if oauth2 != nil {
		if err := upsertToken(ctx, tx, credOAuth2, oauth2); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) readToken(ctx context.Context, name string, dst any) error {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM credentials WHERE name = ?`, name,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("reading %s credential: %w", name, err)
	}

	if err := go_json.Unmarshal([]byte(payload), dst); err != nil {
		return fmt.Errorf("%s: %w: %v", name, ErrCorrupt, err)
	}
	return nil
}

func upsertToken(ctx context.Context, tx *sql.Tx, name string, src any) error {
	payload, err := go_json.Marshal(src)
	if err != nil {
		return fmt.Errorf("encoding %s credential: %w", name, err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO credentials (name, payload) VALUES (?, ?)
		 ON CONFLICT(name) DO UPDATE SET payload = excluded.payload`,
		name, string(payload),
	)
	if err != nil {
		return fmt.Errorf("storing %s credential: %w", name, err)
	}
	return nil
}
