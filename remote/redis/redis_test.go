package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rm "github.com/unkn0wn-root/tiercache/remote"
)

func setup(t *testing.T) (*miniredis.Miniredis, *Store) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	s, err := New(Config{Client: client, CloseClient: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return mr, s
}

func TestNewRequiresClient(t *testing.T) {
	_, err := New(Config{})
	assert.ErrorIs(t, err, ErrNilClient)
}

func TestGetMiss(t *testing.T) {
	_, s := setup(t)
	_, ok, err := s.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSetGetRoundTrip(t *testing.T) {
	_, s := setup(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte(`{"name":"Ann"}`), rm.Policy{}))
	b, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte(`{"name":"Ann"}`), b)
}

func TestAbsoluteExpiry(t *testing.T) {
	mr, s := setup(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), rm.Policy{
		AbsoluteAt: time.Now().Add(time.Hour),
	}))

	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Hour)
	_, ok, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok, "entry must be gone after its absolute expiry")
}

// TestSlidingExpiry: reads push the deadline; inactivity expires the entry.
func TestSlidingExpiry(t *testing.T) {
	mr, s := setup(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), rm.Policy{
		SlidingIdle: time.Minute,
	}))

	for i := 0; i < 3; i++ {
		mr.FastForward(40 * time.Second)
		_, ok, err := s.Get(ctx, "k")
		require.NoError(t, err)
		require.True(t, ok, "read within the idle window must refresh the entry")
	}

	mr.FastForward(70 * time.Second)
	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok, "entry must expire after a full idle window without reads")
}

func TestPolicyChangeDropsSlidingField(t *testing.T) {
	mr, s := setup(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v1"), rm.Policy{SlidingIdle: time.Minute}))
	require.NoError(t, s.Set(ctx, "k", []byte("v2"), rm.Policy{AbsoluteAt: time.Now().Add(time.Hour)}))

	assert.False(t, mr.Exists("k") && mr.HGet("k", "sld") != "",
		"absolute rewrite must not keep the old sliding field")

	b, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v2"), b)
}

func TestDel(t *testing.T) {
	_, s := setup(t)
	ctx := context.Background()

	require.NoError(t, s.Set(ctx, "k", []byte("v"), rm.Policy{}))
	require.NoError(t, s.Del(ctx, "k"))
	_, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewFromAddr(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	s, err := NewFromAddr(mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "k", []byte("v"), rm.Policy{}))
	b, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v"), b)

	_, err = NewFromAddr("")
	assert.Error(t, err)
}

func TestCloseIdempotent(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	s, err := NewFromAddr(mr.Addr())
	require.NoError(t, err)
	require.NoError(t, s.Close(context.Background()))
	require.NoError(t, s.Close(context.Background()))
}
