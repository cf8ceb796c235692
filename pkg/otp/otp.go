package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTL is how long an issued code stays valid.
const TTL = 5 * time.Minute

var ErrNotFound = errors.New("otp not found or expired")

// Store issues and redeems one-time passwords. A code is bound to a single
// username; the caller deletes it once it has been matched so a redeemed
// code cannot be replayed, while a wrong guess leaves it in place.
type Store interface {
	Save(ctx context.Context, username, code string, ttl time.Duration) error
	Get(ctx context.Context, username string) (string, error)
	Delete(ctx context.Context, username string) error
}

// GenerateCode returns a random six digit numeric code.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%06d", n.Int64()), nil
}

type redisStore struct {
	client *redis.Client
}

func (s *redisStore) Save(ctx context.Context, username, code string, ttl time.Duration) error {
	return s.client.Set(ctx, key(username), code, ttl).Err()
}

func (s *redisStore) Get(ctx context.Context, username string) (string, error) {
	code, err := s.client.Get(ctx, key(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", err
	}

	return code, nil
}

func (s *redisStore) Delete(ctx context.Context, username string) error {
	return s.client.Del(ctx, key(username)).Err()
}

func key(username string) string {
	return "otp:" + username
}

func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}
