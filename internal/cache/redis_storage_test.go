package cache

import (
	"os"
	"testing"
	"time"
)

// Runs against a real server: REDIS_URL=redis://localhost:6379/15 go test ./internal/cache
func newTestStorage(t *testing.T) *RedisStorage {
	t.Helper()
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	s, err := NewRedisStorage(url, "todo-test:"+t.Name()+":")
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Reset()
		_ = s.Close()
	})
	return s
}

func TestRedisStorageRoundTrip(t *testing.T) {
	s := newTestStorage(t)

	got, err := s.Get("missing")
	if err != nil || got != nil {
		t.Fatalf("Get(missing) = %q, %v; want nil, nil", got, err)
	}

	if err := s.Set("k", []byte("v"), time.Minute); err != nil {
		t.Fatal(err)
	}
	got, err = s.Get("k")
	if err != nil || string(got) != "v" {
		t.Fatalf("Get(k) = %q, %v", got, err)
	}

	if err := s.Delete("k"); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.Get("k"); got != nil {
		t.Errorf("Get after Delete = %q", got)
	}
}

func TestRedisStorageReset(t *testing.T) {
	s := newTestStorage(t)
	for _, k := range []string{"a", "b", "c"} {
		if err := s.Set(k, []byte("1"), time.Minute); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.Reset(); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if got, _ := s.Get(k); got != nil {
			t.Errorf("%s survived Reset", k)
		}
	}
}

func TestNewRedisStorageBadURL(t *testing.T) {
	if _, err := NewRedisStorage("://nope", "x:"); err == nil {
		t.Error("expected a parse error")
	}
}
