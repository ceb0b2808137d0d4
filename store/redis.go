package store

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures the Redis connection.
type RedisOptions struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379").
	URL string

	// DB selects the logical database. Zero keeps the database encoded in
	// the URL.
	DB int

	// TLS configuration for secure connections.
	TLS *tls.Config

	// ConnectTimeout is the maximum time to wait for connection establishment.
	ConnectTimeout time.Duration

	// ReadTimeout is the maximum time to wait for read operations.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait for write operations.
	WriteTimeout time.Duration
}

// RedisStore implements the Store interface using go-redis/v9.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to Redis with the given options and verifies the
// connection with a ping before returning.
func NewRedisStore(opts RedisOptions) (*RedisStore, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}

	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}

	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 30 * time.Second
	}

	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 5 * time.Second
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	if opts.DB != 0 {
		redisOpts.DB = opts.DB
	}
	redisOpts.TLSConfig = opts.TLS
	redisOpts.DialTimeout = opts.ConnectTimeout
	redisOpts.ReadTimeout = opts.ReadTimeout
	redisOpts.WriteTimeout = opts.WriteTimeout

	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to connect to Redis: %v", ErrUnavailable, err)
	}

	return &RedisStore{client: client}, nil
}

// Get reads a string value.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: GET %s: %v", ErrCommand, key, err)
	}
	return value, true, nil
}

// Set writes a string value with no expiry.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return fmt.Errorf("%w: SET %s: %v", ErrCommand, key, err)
	}
	return nil
}

// MGet reads several string values in one round trip.
func (s *RedisStore) MGet(ctx context.Context, keys ...string) ([]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	raw, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: MGET: %v", ErrCommand, err)
	}
	values := make([]string, len(raw))
	for i, v := range raw {
		if str, ok := v.(string); ok {
			values[i] = str
		}
	}
	return values, nil
}

// IncrBy atomically increments an integer value.
func (s *RedisStore) IncrBy(ctx context.Context, key string, delta int64) (int64, error) {
	value, err := s.client.IncrBy(ctx, key, delta).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: INCRBY %s: %v", ErrCommand, key, err)
	}
	return value, nil
}

// ZIncrBy atomically increments a sorted-set member's score.
func (s *RedisStore) ZIncrBy(ctx context.Context, key string, delta float64, member string) (float64, error) {
	score, err := s.client.ZIncrBy(ctx, key, delta, member).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: ZINCRBY %s: %v", ErrCommand, key, err)
	}
	return score, nil
}

// ZAdd writes a sorted-set member's score.
func (s *RedisStore) ZAdd(ctx context.Context, key string, score float64, member string) error {
	if err := s.client.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Err(); err != nil {
		return fmt.Errorf("%w: ZADD %s: %v", ErrCommand, key, err)
	}
	return nil
}

// ZCard returns a sorted set's cardinality.
func (s *RedisStore) ZCard(ctx context.Context, key string) (int64, error) {
	n, err := s.client.ZCard(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: ZCARD %s: %v", ErrCommand, key, err)
	}
	return n, nil
}

// ZScore reads one member's score.
func (s *RedisStore) ZScore(ctx context.Context, key, member string) (float64, bool, error) {
	score, err := s.client.ZScore(ctx, key, member).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("%w: ZSCORE %s: %v", ErrCommand, key, err)
	}
	return score, true, nil
}

// ZRangeWithScores returns members ordered by ascending score.
func (s *RedisStore) ZRangeWithScores(ctx context.Context, key string, start, stop int64) ([]Z, error) {
	raw, err := s.client.ZRangeWithScores(ctx, key, start, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: ZRANGE %s: %v", ErrCommand, key, err)
	}
	return fromRedisZ(raw), nil
}

// ZRevRangeWithScores returns members ordered by descending score.
func (s *RedisStore) ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) ([]Z, error) {
	raw, err := s.client.ZRevRangeWithScores(ctx, key, start, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: ZREVRANGE %s: %v", ErrCommand, key, err)
	}
	return fromRedisZ(raw), nil
}

// Keys enumerates keys matching a wildcard pattern.
func (s *RedisStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	matches, err := s.client.Keys(ctx, pattern).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: KEYS %s: %v", ErrCommand, pattern, err)
	}
	return matches, nil
}

// MultiRead executes the read commands inside MULTI/EXEC so the returned
// values form one consistent snapshot.
func (s *RedisStore) MultiRead(ctx context.Context, cmds []ReadCmd) ([]ReadResult, error) {
	if len(cmds) == 0 {
		return nil, nil
	}

	cmders := make([]redis.Cmder, len(cmds))
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, c := range cmds {
			switch c.Op {
			case OpGet:
				cmders[i] = pipe.Get(ctx, c.Key)
			case OpZCard:
				cmders[i] = pipe.ZCard(ctx, c.Key)
			case OpZScore:
				cmders[i] = pipe.ZScore(ctx, c.Key, c.Member)
			default:
				return fmt.Errorf("unknown read op %d", c.Op)
			}
		}
		return nil
	})
	// TxPipelined surfaces the first command error, including the nil
	// reply of a missing key, which is not a failure here.
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: MULTI read: %v", ErrCommand, err)
	}

	results := make([]ReadResult, len(cmds))
	for i, cmder := range cmders {
		switch cmd := cmder.(type) {
		case *redis.StringCmd:
			raw, err := cmd.Result()
			if errors.Is(err, redis.Nil) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("%w: MULTI read %s: %v", ErrCommand, cmds[i].Key, err)
			}
			value, _ := strconv.ParseFloat(raw, 64)
			results[i] = ReadResult{Value: value, Found: true}
		case *redis.IntCmd:
			n, err := cmd.Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				return nil, fmt.Errorf("%w: MULTI read %s: %v", ErrCommand, cmds[i].Key, err)
			}
			results[i] = ReadResult{Value: float64(n), Found: true}
		case *redis.FloatCmd:
			score, err := cmd.Result()
			if errors.Is(err, redis.Nil) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("%w: MULTI read %s: %v", ErrCommand, cmds[i].Key, err)
			}
			results[i] = ReadResult{Value: score, Found: true}
		}
	}
	return results, nil
}

// Batch executes the queued increments through one pipelined round trip.
func (s *RedisStore) Batch(ctx context.Context, fn func(b WriteBatch)) error {
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		fn(&redisBatch{ctx: ctx, pipe: pipe})
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: batched write: %v", ErrCommand, err)
	}
	return nil
}

// Ping verifies connectivity to the backing store.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

type redisBatch struct {
	ctx  context.Context
	pipe redis.Pipeliner
}

func (b *redisBatch) IncrBy(key string, delta int64) {
	b.pipe.IncrBy(b.ctx, key, delta)
}

func (b *redisBatch) ZIncrBy(key string, delta float64, member string) {
	b.pipe.ZIncrBy(b.ctx, key, delta, member)
}

func fromRedisZ(raw []redis.Z) []Z {
	zs := make([]Z, 0, len(raw))
	for _, z := range raw {
		member, ok := z.Member.(string)
		if !ok {
			member = fmt.Sprint(z.Member)
		}
		zs = append(zs, Z{Member: member, Score: z.Score})
	}
	return zs
}
