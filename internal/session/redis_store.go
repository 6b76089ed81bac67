package session

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists the session as a Redis hash, for deployments where
// several terminals on a shared workstation use one profile. All keys are
// namespaced by profile so multiple profiles coexist on one Redis server.
//
// Key pattern: idcscan:{profile}:session
type RedisStore struct {
	rdb     *redis.Client
	profile string
}

// SessionKey returns the Redis key for a profile's session hash.
func SessionKey(profile string) string {
	return fmt.Sprintf("idcscan:%s:session", profile)
}

// NewRedisStore creates a Redis-backed session store scoped to the given
// profile. Returns an error if profile is empty.
func NewRedisStore(redisOpts *redis.Options, profile string) (*RedisStore, error) {
	if profile == "" {
		return nil, fmt.Errorf("profile cannot be empty")
	}
	return &RedisStore{
		rdb:     redis.NewClient(redisOpts),
		profile: profile,
	}, nil
}

// Close closes the Redis connection. Implements io.Closer.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

// Ping verifies Redis connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *RedisStore) Get(ctx context.Context) (Session, error) {
	fields, err := s.rdb.HGetAll(ctx, SessionKey(s.profile)).Result()
	if err != nil {
		return Session{}, fmt.Errorf("failed to read session from Redis: %w", err)
	}
	if len(fields) == 0 {
		// Absent session: unauthenticated.
		return Session{}, nil
	}

	verified, _ := strconv.ParseBool(fields["verified"])
	return Session{
		Verified: verified,
		Username: fields["username"],
		Email:    fields["email"],
		Phone:    fields["phone"],
	}, nil
}

func (s *RedisStore) SetPending(ctx context.Context, username, email, phone string) error {
	return s.write(ctx, Session{Verified: false, Username: username, Email: email, Phone: phone})
}

func (s *RedisStore) SetVerified(ctx context.Context, username, email, phone string) error {
	return s.write(ctx, Session{Verified: true, Username: username, Email: email, Phone: phone})
}

// Clear removes the whole session hash with a single DEL, so no reader can
// observe a partially-cleared session.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, SessionKey(s.profile)).Err(); err != nil {
		return fmt.Errorf("failed to clear session in Redis: %w", err)
	}
	return nil
}

func (s *RedisStore) write(ctx context.Context, sess Session) error {
	hash := map[string]any{
		"verified": strconv.FormatBool(sess.Verified),
		"username": sess.Username,
		"email":    sess.Email,
		"phone":    sess.Phone,
	}
	if err := s.rdb.HSet(ctx, SessionKey(s.profile), hash).Err(); err != nil {
		return fmt.Errorf("failed to write session to Redis: %w", err)
	}
	return nil
}
