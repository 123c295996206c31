package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned by Load when no record exists for the login.
var ErrNotFound = errors.New("session record not found")

// ErrCorruptRecord is returned by Load when a stored blob cannot be decoded.
var ErrCorruptRecord = errors.New("session record corrupt")

// ErrRedisUnavailable wraps Redis round-trip failures.
var ErrRedisUnavailable = errors.New("redis unavailable")

// Store persists session records in Redis under a configurable prefix.
// The key TTL tracks the token expiry, so Redis garbage-collects dead
// sessions on its own.
type Store struct {
	client *redis.Client
	prefix string
}

// NewStore creates a store over the given Redis client.
func NewStore(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "ctm"
	}
	return &Store{
		client: client,
		prefix: prefix,
	}
}

// key hashes the login so credentials never appear in the Redis keyspace.
func (s *Store) key(login string) string {
	sum := sha256.Sum256([]byte(login))
	return s.prefix + ":session:" + hex.EncodeToString(sum[:])
}

// Save persists the record with a TTL derived from its expiry. Records
// already expired are not written; any stale entry for the login is
// removed instead.
func (s *Store) Save(ctx context.Context, login string, rec Record) error {
	ttl := time.Until(rec.ExpiresAt)
	if ttl <= 0 {
		return s.Delete(ctx, login)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, s.key(login), data, ttl).Err(); err != nil {
		return errors.Join(ErrRedisUnavailable, err)
	}
	return nil
}

// Load retrieves the record for the login. Expired records are deleted and
// reported as not found.
func (s *Store) Load(ctx context.Context, login string) (Record, error) {
	data, err := s.client.Get(ctx, s.key(login)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, errors.Join(ErrRedisUnavailable, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, errors.Join(ErrCorruptRecord, err)
	}
	if rec.Token == "" || rec.ExpiresAt.IsZero() {
		return Record{}, ErrCorruptRecord
	}
	if rec.Expired(time.Now()) {
		_ = s.Delete(ctx, login)
		return Record{}, ErrNotFound
	}

	return rec, nil
}

// Delete removes the record for the login. Deleting a missing record is
// not an error.
func (s *Store) Delete(ctx context.Context, login string) error {
	if err := s.client.Del(ctx, s.key(login)).Err(); err != nil {
		return errors.Join(ErrRedisUnavailable, err)
	}
	return nil
}
