package nullifier

import (
	"context"
	"fmt"

	"github.com/Akhil-2310/arkanon/types"
	"github.com/redis/go-redis/v9"
)

// RedisStore is a Store over a shared redis instance, for deployments where
// several replicas must agree on the used-nullifier set. SETNX makes the
// check-then-set atomic on the server side. Keys are written without
// expiration: a used nullifier stays used.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Store connected to the redis instance at url.
func NewRedisStore(url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &RedisStore{client: redis.NewClient(opts)}, nil
}

func redisKey(registryID uint64, nullifier *types.BigInt) string {
	return fmt.Sprintf("arkanon:nullifier:%d:%s", registryID, nullifier.String())
}

func (s *RedisStore) Seen(registryID uint64, nullifier *types.BigInt) (bool, error) {
	n, err := s.client.Exists(context.Background(), redisKey(registryID, nullifier)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisStore) CheckAndSet(registryID uint64, nullifier *types.BigInt) (bool, error) {
	return s.client.SetNX(context.Background(), redisKey(registryID, nullifier), "1", 0).Result()
}

// Close closes the redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
