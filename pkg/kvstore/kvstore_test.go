package kvstore

import (
	"context"
	"os"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/require"
)

func exercise(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, SlotGrouping)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, s.Put(ctx, SlotGrouping, []byte(`{"Sales":"Commercial"}`)))
	v, ok, err := s.Get(ctx, SlotGrouping)
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `{"Sales":"Commercial"}`, string(v))

	require.NoError(t, s.Put(ctx, SlotGrouping, []byte(`{}`)))
	v, _, err = s.Get(ctx, SlotGrouping)
	require.NoError(t, err)
	require.Equal(t, "{}", string(v))
}

func TestMemory(t *testing.T) {
	exercise(t, NewMemory())
}

func TestMemory_CopiesValues(t *testing.T) {
	m := NewMemory()
	buf := []byte("abc")
	require.NoError(t, m.Put(context.Background(), SlotRoster, buf))
	buf[0] = 'x'
	v, _, _ := m.Get(context.Background(), SlotRoster)
	require.Equal(t, "abc", string(v))
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFile(dir)
	require.NoError(t, err)
	exercise(t, s)

	reopened, err := NewFile(dir)
	require.NoError(t, err)
	v, ok, err := reopened.Get(context.Background(), SlotGrouping)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "{}", string(v))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestRedis(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	s, err := New(Options{Backend: "redis", RedisURL: url, Prefix: "orgportal:test:" + t.Name()})
	require.NoError(t, err)
	r := s.(*Redis)
	t.Cleanup(func() {
		_ = r.client.Del(context.Background(), r.key).Err()
		_ = r.Close()
	})
	exercise(t, s)
}

func TestNew(t *testing.T) {
	s, err := New(Options{})
	require.NoError(t, err)
	require.IsType(t, &Memory{}, s)

	s, err = New(Options{Backend: "FILE", Dir: t.TempDir()})
	require.NoError(t, err)
	require.IsType(t, &File{}, s)

	_, err = New(Options{Backend: "etcd"})
	require.True(t, errors.Is(err, ErrUnknownBackend))

	_, err = New(Options{Backend: "redis", RedisURL: "not a url"})
	require.Error(t, err)
}
