package credstore

import (
	"context"
	"errors"
	"fmt"

	go_json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

const (
	redisOAuth1Key = "gconnect:token:oauth1"
	redisOAuth2Key = "gconnect:token:oauth2"
)

// RedisStore keeps the credential pair in Redis. Handy when several hosts
// share one Garmin session and the file store would drift.
type RedisStore struct {
	client *redis.Client
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Load(ctx context.Context) (*OAuth1Token, *OAuth2Token, error) {
	var oauth1 OAuth1Token
	if err := s.readToken(ctx, redisOAuth1Key, &oauth1); err != nil {
		return nil, nil, err
	}

	var oauth2 OAuth2Token
	if err := s.readToken(ctx, redisOAuth2Key, &oauth2); err != nil {
		return nil, nil, err
	}

	return &oauth1, &oauth2, nil
}

func (s *RedisStore) Save(ctx context.Context, oauth1 *OAuth1Token, oauth2 *OAuth2Token) error {
	pipe := s.client.TxPipeline()

	if oauth1 != nil {
		payload, err := go_json.Marshal(oauth1)
		if err != nil {
			return fmt.Errorf("encoding oauth1 credential: %w", err)
		}
		pipe.Set(ctx, redisOAuth1Key, payload, 0)
	}
	if oauth2 != nil {
		payload, err := go_json.Marshal(oauth2)
		if err != nil {
			return fmt.Errorf("encoding oauth2 credential: %w", err)
		}
		pipe.Set(ctx, redisOAuth2Key, payload, 0)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("storing credentials: %w", err)
	}
	return nil
}

func (s *RedisStore) readToken(ctx context.Context, key string, dst any) error {
	payload, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", key, err)
	}

	if err := go_json.Unmarshal(payload, dst); err != nil {
		return fmt.Errorf("%s: %w: %v", key, ErrCorrupt, err)
	}
	return nil
}
