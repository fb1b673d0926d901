package verifier

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces code records in Redis.
const DefaultKeyPrefix = "ofchat:sms:"

// Hash fields of a code record.
const (
	fieldID        = "id"
	fieldHash      = "hash"
	fieldIssuedAt  = "issued_at"
	fieldExpiresAt = "expires_at"
	fieldAttempts  = "attempts"
)

// incrAttemptsLua bumps the attempt counter only if the record still
// exists, so a record that expired meanwhile is not recreated without TTL.
// KEYS[1] = record key
var incrAttemptsLua = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
  return -1
end
return redis.call('HINCRBY', KEYS[1], 'attempts', 1)
`)

// RedisCodeStore keeps each record in a hash at <prefix><phone>, expired by
// Redis at the end of its retention.
type RedisCodeStore struct {
	client redis.UniversalClient
	prefix string
}

var _ CodeStore = (*RedisCodeStore)(nil)

// NewRedisCodeStore creates a store on client. An empty prefix means
// DefaultKeyPrefix.
func NewRedisCodeStore(client redis.UniversalClient, prefix string) *RedisCodeStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisCodeStore{client: client, prefix: prefix}
}

func (s *RedisCodeStore) key(phone string) string {
	return s.prefix + phone
}

// Save implements CodeStore.
func (s *RedisCodeStore) Save(ctx context.Context, phone string, rec CodeRecord, retain time.Duration) error {
	key := s.key(phone)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key,
			fieldID, rec.VerificationID,
			fieldHash, rec.CodeHash,
			fieldIssuedAt, rec.IssuedAt.UnixNano(),
			fieldExpiresAt, rec.ExpiresAt.UnixNano(),
			fieldAttempts, rec.Attempts,
		)
		pipe.PExpire(ctx, key, retain)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save code record: %w", err)
	}
	return nil
}

// Get implements CodeStore.
func (s *RedisCodeStore) Get(ctx context.Context, phone string) (*CodeRecord, error) {
	fields, err := s.client.HGetAll(ctx, s.key(phone)).Result()
	if err != nil {
		return nil, fmt.Errorf("load code record: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrNoRecord
	}

	issued, err1 := strconv.ParseInt(fields[fieldIssuedAt], 10, 64)
	expires, err2 := strconv.ParseInt(fields[fieldExpiresAt], 10, 64)
	attempts, err3 := strconv.Atoi(fields[fieldAttempts])
	if err := errors.Join(err1, err2, err3); err != nil {
		return nil, fmt.Errorf("decode code record: %w", err)
	}

	return &CodeRecord{
		VerificationID: fields[fieldID],
		CodeHash:       fields[fieldHash],
		IssuedAt:       time.Unix(0, issued),
		ExpiresAt:      time.Unix(0, expires),
		Attempts:       attempts,
	}, nil
}

// IncrAttempts implements CodeStore.
func (s *RedisCodeStore) IncrAttempts(ctx context.Context, phone string) (int, error) {
	n, err := incrAttemptsLua.Run(ctx, s.client, []string{s.key(phone)}).Int()
	if err != nil {
		return 0, fmt.Errorf("count attempt: %w", err)
	}
	if n < 0 {
		return 0, ErrNoRecord
	}
	return n, nil
}

// Delete implements CodeStore.
func (s *RedisCodeStore) Delete(ctx context.Context, phone string) error {
	if err := s.client.Del(ctx, s.key(phone)).Err(); err != nil {
		return fmt.Errorf("delete code record: %w", err)
	}
	return nil
}
