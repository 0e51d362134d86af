// Package redis adapts redis/go-redis as a tiercache remote tier.
//
// Entries are stored as hashes so sliding expiry survives the wire:
//
//	<key> => { data: <payload>, sld: <idle millis, sliding entries only> }
//
// Absolute entries get PEXPIREAT; sliding entries get PEXPIRE on write and a
// PEXPIRE refresh on every Get, so the idle window is enforced server-side.
package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	rm "github.com/unkn0wn-root/tiercache/remote"
)

var ErrNilClient = errors.New("redis remote: nil client")

const (
	fieldData    = "data"
	fieldSliding = "sld"
)

type Store struct {
	rdb         goredis.UniversalClient
	closeClient bool
}

var _ rm.Store = (*Store)(nil)

type Config struct {
	Client      goredis.UniversalClient
	CloseClient bool // set true only if this store exclusively owns the client
}

func New(cfg Config) (*Store, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	return &Store{rdb: cfg.Client, closeClient: cfg.CloseClient}, nil
}

// NewFromAddr dials a single-node redis at addr (host:port or redis:// URL)
// and returns a Store that owns the client. Pairs with config.RemoteAddr.
func NewFromAddr(addr string) (*Store, error) {
	if addr == "" {
		return nil, errors.New("redis remote: empty address")
	}
	opts := &goredis.Options{Addr: addr}
	if u, err := goredis.ParseURL(addr); err == nil {
		opts = u
	}
	return &Store{rdb: goredis.NewClient(opts), closeClient: true}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	vals, err := s.rdb.HMGet(ctx, key, fieldData, fieldSliding).Result()
	if err != nil {
		if err == goredis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}
	data, ok := vals[0].(string)
	if !ok {
		return nil, false, nil // absent (HMGET yields nils for missing keys)
	}
	if sld, ok := vals[1].(string); ok {
		if ms, perr := strconv.ParseInt(sld, 10, 64); perr == nil && ms > 0 {
			// Best-effort idle-window refresh; a failed refresh only
			// shortens the entry's life, never corrupts it.
			_ = s.rdb.PExpire(ctx, key, time.Duration(ms)*time.Millisecond).Err()
		}
	}
	return []byte(data), true, nil
}

func (s *Store) Set(ctx context.Context, key string, payload []byte, p rm.Policy) error {
	pipe := s.rdb.TxPipeline()
	// DEL first so a policy change doesn't leave a stale sld field behind.
	pipe.Del(ctx, key)
	switch {
	case p.SlidingIdle > 0:
		pipe.HSet(ctx, key,
			fieldData, payload,
			fieldSliding, strconv.FormatInt(p.SlidingIdle.Milliseconds(), 10))
		pipe.PExpire(ctx, key, p.SlidingIdle)
	case !p.AbsoluteAt.IsZero():
		pipe.HSet(ctx, key, fieldData, payload)
		pipe.PExpireAt(ctx, key, p.AbsoluteAt)
	default:
		pipe.HSet(ctx, key, fieldData, payload)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) Del(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}

// Close releases the underlying client only when this store owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (s *Store) Close(context.Context) error {
	if s.closeClient {
		if err := s.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}
