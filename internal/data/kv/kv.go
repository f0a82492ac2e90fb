// Package kv is the small key-value store for per-browser state: the user's model API key
// and the in-progress stream buffers of the open note.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/noteeline-backend/internal/config"
	"github.com/yungbote/noteeline-backend/internal/platform/logger"
)

const (
	KeyAPIKey           = "gptKey"
	pointStreamsPrefix  = "pointStreams:"
	redisConnectTimeout = 5 * time.Second
)

// PointStreamsKey names the stream-buffer array of a note.
func PointStreamsKey(noteName string) string { return pointStreamsPrefix + noteName }

// Store reports a missing key through ok, not through err.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

func Open(cfg config.KVConfig, log *logger.Logger) (Store, error) {
	switch cfg.Type {
	case "", "memory":
		return NewMemory(cfg.Prefix), nil
	case "redis":
		rdb := goredis.NewClient(&goredis.Options{
			Addr:        cfg.Addr,
			DB:          cfg.DB,
			DialTimeout: redisConnectTimeout,
		})
		ctx, cancel := context.WithTimeout(context.Background(), redisConnectTimeout)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		if log != nil {
			log.Info("kv store connected", "type", "redis", "addr", cfg.Addr)
		}
		return NewRedis(rdb, cfg.Prefix), nil
	default:
		return nil, fmt.Errorf("unsupported kv type %q", cfg.Type)
	}
}

type memory struct {
	prefix string
	mu     sync.RWMutex
	m      map[string]string
}

func NewMemory(prefix string) Store {
	return &memory{prefix: prefix, m: map[string]string{}}
}

func (s *memory) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[s.prefix+key]
	return v, ok, nil
}

func (s *memory) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	s.m[s.prefix+key] = value
	s.mu.Unlock()
	return nil
}

func (s *memory) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.m, s.prefix+key)
	s.mu.Unlock()
	return nil
}

func (s *memory) Close() error { return nil }

// Redis stores keys under prefix in one redis database.
type Redis struct {
	rdb    goredis.UniversalClient
	prefix string
}

func NewRedis(rdb goredis.UniversalClient, prefix string) *Redis {
	return &Redis{rdb: rdb, prefix: prefix}
}

// Client exposes the connection so the SSE bus can share it.
func (s *Redis) Client() goredis.UniversalClient { return s.rdb }

func (s *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.rdb.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *Redis) Set(ctx context.Context, key, value string) error {
	return s.rdb.Set(ctx, s.prefix+key, value, 0).Err()
}

func (s *Redis) Delete(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, s.prefix+key).Err()
}

func (s *Redis) Close() error { return s.rdb.Close() }

// APIKeys serves the stored model credential to the gateway.
type APIKeys struct {
	Store Store
}

func (k APIKeys) APIKey(ctx context.Context) (string, error) {
	if k.Store == nil {
		return "", nil
	}
	v, _, err := k.Store.Get(ctx, KeyAPIKey)
	return strings.TrimSpace(v), err
}

// StreamBuffers persists the per-bullet stream buffers of a note as a JSON array.
type StreamBuffers struct {
	Store Store
}

func (b StreamBuffers) Save(ctx context.Context, noteName string, buffers []string) error {
	if buffers == nil {
		buffers = []string{}
	}
	raw, err := json.Marshal(buffers)
	if err != nil {
		return err
	}
	return b.Store.Set(ctx, PointStreamsKey(noteName), string(raw))
}

func (b StreamBuffers) Load(ctx context.Context, noteName string) ([]string, error) {
	raw, ok, err := b.Store.Get(ctx, PointStreamsKey(noteName))
	if err != nil || !ok {
		return []string{}, err
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", PointStreamsKey(noteName), err)
	}
	return out, nil
}

func (b StreamBuffers) Reset(ctx context.Context, noteName string) error {
	return b.Store.Delete(ctx, PointStreamsKey(noteName))
}
