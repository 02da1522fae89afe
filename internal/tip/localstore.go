package tip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/tipjar-labs/tipjar/internal/profile"
)

const (
	addressKeyPrefix = "tipper:walletAddress_"
	statsKeyPrefix   = "tipper:walletStats_"
)

// LocalStore is the device-local cache: the last known recipient address per handle
// and the donor's locally tracked stats. Absent values are returned as zero values.
type LocalStore interface {
	Address(ctx context.Context, handle string) (string, error)
	SetAddress(ctx context.Context, handle, address string) error
	Stats(ctx context.Context, handle string) (profile.WalletStats, error)
	SaveStats(ctx context.Context, handle string, stats profile.WalletStats) error
}

type memoryLocalStore struct {
	mu        sync.RWMutex
	addresses map[string]string
	stats     map[string]profile.WalletStats
}

// NewMemoryLocalStore returns a LocalStore that lives as long as the process.
func NewMemoryLocalStore() LocalStore {
	return &memoryLocalStore{addresses: make(map[string]string), stats: make(map[string]profile.WalletStats)}
}

func (s *memoryLocalStore) Address(_ context.Context, handle string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addresses[strings.ToLower(handle)], nil
}

func (s *memoryLocalStore) SetAddress(_ context.Context, handle, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addresses[strings.ToLower(handle)] = address
	return nil
}

func (s *memoryLocalStore) Stats(_ context.Context, handle string) (profile.WalletStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats[strings.ToLower(handle)], nil
}

func (s *memoryLocalStore) SaveStats(_ context.Context, handle string, stats profile.WalletStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats[strings.ToLower(handle)] = stats
	return nil
}

// RedisLocalStore persists the device cache in Redis so it survives restarts.
type RedisLocalStore struct {
	client *redis.Client
}

// NewRedisLocalStore builds a Redis-backed LocalStore.
func NewRedisLocalStore(client *redis.Client) *RedisLocalStore {
	return &RedisLocalStore{client: client}
}

// Address returns the cached address for handle.
func (s *RedisLocalStore) Address(ctx context.Context, handle string) (string, error) {
	v, err := s.client.Get(ctx, addressKeyPrefix+strings.ToLower(handle)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read cached address: %w", err)
	}
	return v, nil
}

// SetAddress caches address for handle.
func (s *RedisLocalStore) SetAddress(ctx context.Context, handle, address string) error {
	if err := s.client.Set(ctx, addressKeyPrefix+strings.ToLower(handle), address, 0).Err(); err != nil {
		return fmt.Errorf("cache address: %w", err)
	}
	return nil
}

// Stats returns the locally tracked stats for handle.
func (s *RedisLocalStore) Stats(ctx context.Context, handle string) (profile.WalletStats, error) {
	raw, err := s.client.Get(ctx, statsKeyPrefix+strings.ToLower(handle)).Bytes()
	if errors.Is(err, redis.Nil) {
		return profile.WalletStats{}, nil
	}
	if err != nil {
		return profile.WalletStats{}, fmt.Errorf("read local stats: %w", err)
	}
	var stored profile.StatsResponse
	if err := json.Unmarshal(raw, &stored); err != nil {
		return profile.WalletStats{}, fmt.Errorf("decode local stats: %w", err)
	}
	return profile.WalletStats{Earnings: stored.Earnings, Balance: stored.Balance, Donations: stored.Donations}, nil
}

// SaveStats persists stats for handle.
func (s *RedisLocalStore) SaveStats(ctx context.Context, handle string, stats profile.WalletStats) error {
	payload, err := json.Marshal(profile.StatsResponse{Earnings: stats.Earnings, Balance: stats.Balance, Donations: stats.Donations})
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, statsKeyPrefix+strings.ToLower(handle), payload, 0).Err(); err != nil {
		return fmt.Errorf("save local stats: %w", err)
	}
	return nil
}
