package keystore

import (
	"context"
	"encoding/json"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/pharmyrus/pharmyrus/internal/domain/credential"
	"github.com/pharmyrus/pharmyrus/pkg/errors"
)

// RedisConfig holds connection parameters for the Redis-backed store.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	StateKey     string        `mapstructure:"state_key"`
}

// RedisStore keeps the pool state as one JSON value under a single key so
// that every process in a deployment draws from the same quota counters.
// Load and Save are individually atomic but the load→modify→save cycle is
// not: writers race last-writer-wins, same as the file store.
type RedisStore struct {
	rdb *goredis.Client
	key string
}

// NewRedisStore returns a RedisStore using cfg.  The state key defaults to
// "pharmyrus:serpapi:pool".
func NewRedisStore(cfg RedisConfig) *RedisStore {
	key := cfg.StateKey
	if key == "" {
		key = "pharmyrus:serpapi:pool"
	}
	return &RedisStore{
		rdb: goredis.NewClient(&goredis.Options{
			Addr:         cfg.Addr,
			Password:     cfg.Password,
			DB:           cfg.DB,
			DialTimeout:  cfg.DialTimeout,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		}),
		key: key,
	}
}

// Load implements credential.StateStore.
func (s *RedisStore) Load(ctx context.Context) (*credential.PoolState, bool, error) {
	data, err := s.rdb.Get(ctx, s.key).Bytes()
	if err == goredis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, errors.ErrCodePoolStateLoad, "redis get pool state")
	}
	state := &credential.PoolState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, false, errors.Wrap(err, errors.ErrCodePoolStateInvalid, "decode pool state")
	}
	return state, true, nil
}

// Save implements credential.StateStore.  The value has no TTL: quota state
// must outlive any process.
func (s *RedisStore) Save(ctx context.Context, state *credential.PoolState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "encode pool state")
	}
	if err := s.rdb.Set(ctx, s.key, data, 0).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodePoolStateSave, "redis set pool state")
	}
	return nil
}

// Name identifies the store in health checks.
func (s *RedisStore) Name() string { return "keystore-redis" }

// Check implements the health-check probe.
func (s *RedisStore) Check(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error { return s.rdb.Close() }
