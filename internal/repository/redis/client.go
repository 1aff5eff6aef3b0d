package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const sessionKeyPrefix = "session:"

// Connect dials redis and pings it. When redis is unreachable it returns
// nil so the caller runs without a session mirror.
func Connect(ctx context.Context, addr, password string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn().Err(err).Msg("could not connect to redis, live sessions are kept in memory only")
		client.Close()
		return nil
	}

	log.Info().Str("addr", addr).Msg("redis connected successfully")
	return client
}

// SessionStore mirrors live game sessions as JSON under session:<gameID>.
// A store without a client is disabled and every call is a no-op.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Enabled() bool {
	return s != nil && s.client != nil
}

func SessionKey(gameID string) string {
	return sessionKeyPrefix + gameID
}

func (s *SessionStore) Save(ctx context.Context, gameID string, snapshot any) error {
	if !s.Enabled() {
		return nil
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", gameID, err)
	}
	return s.client.Set(ctx, SessionKey(gameID), data, s.ttl).Err()
}

// Load decodes the snapshot into dest. found is false when the key is
// missing, expired or the store is disabled.
func (s *SessionStore) Load(ctx context.Context, gameID string, dest any) (found bool, err error) {
	if !s.Enabled() {
		return false, nil
	}
	data, err := s.client.Get(ctx, SessionKey(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("unmarshal session %s: %w", gameID, err)
	}
	return true, nil
}

func (s *SessionStore) Delete(ctx context.Context, gameID string) error {
	if !s.Enabled() {
		return nil
	}
	return s.client.Del(ctx, SessionKey(gameID)).Err()
}
