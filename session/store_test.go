package session

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewStore(client, "ctm"), mr
}

func TestStoreSaveAndLoad(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	rec := Record{Token: "abc", ExpiresAt: time.Now().Add(time.Hour).UTC()}
	if err := store.Save(ctx, "alice@example.com", rec); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := store.Load(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Token != "abc" {
		t.Fatalf("expected token abc, got %q", loaded.Token)
	}
	if !loaded.ExpiresAt.Equal(rec.ExpiresAt) {
		t.Fatalf("expiry mismatch: %v vs %v", loaded.ExpiresAt, rec.ExpiresAt)
	}
}

func TestStoreKeyTTLTracksExpiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	rec := Record{Token: "abc", ExpiresAt: time.Now().Add(time.Hour)}
	if err := store.Save(ctx, "alice@example.com", rec); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	ttl := mr.TTL(store.key("alice@example.com"))
	if ttl <= 0 || ttl > time.Hour {
		t.Fatalf("expected TTL within the hour, got %v", ttl)
	}
}

func TestStoreSaveExpiredRecordDeletes(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	live := Record{Token: "abc", ExpiresAt: time.Now().Add(time.Hour)}
	if err := store.Save(ctx, "alice@example.com", live); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	stale := Record{Token: "old", ExpiresAt: time.Now().Add(-time.Minute)}
	if err := store.Save(ctx, "alice@example.com", stale); err != nil {
		t.Fatalf("Save of expired record failed: %v", err)
	}

	if _, err := store.Load(ctx, "alice@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after stale save, got %v", err)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	store, _ := newTestStore(t)

	if _, err := store.Load(context.Background(), "nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestStoreLoadCorruptRecord(t *testing.T) {
	store, mr := newTestStore(t)

	if err := mr.Set(store.key("alice@example.com"), "not json"); err != nil {
		t.Fatalf("seed corrupt blob failed: %v", err)
	}

	if _, err := store.Load(context.Background(), "alice@example.com"); !errors.Is(err, ErrCorruptRecord) {
		t.Fatalf("expected ErrCorruptRecord, got %v", err)
	}
}

func TestStoreDeleteIdempotent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	if err := store.Delete(ctx, "alice@example.com"); err != nil {
		t.Fatalf("Delete of missing record failed: %v", err)
	}

	rec := Record{Token: "abc", ExpiresAt: time.Now().Add(time.Hour)}
	if err := store.Save(ctx, "alice@example.com", rec); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Delete(ctx, "alice@example.com"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := store.Delete(ctx, "alice@example.com"); err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
	if _, err := store.Load(ctx, "alice@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestStoreKeysNeverContainLogin(t *testing.T) {
	store, mr := newTestStore(t)

	rec := Record{Token: "abc", ExpiresAt: time.Now().Add(time.Hour)}
	if err := store.Save(context.Background(), "alice@example.com", rec); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	for _, key := range mr.Keys() {
		if strings.Contains(key, "alice") || strings.Contains(key, "@") {
			t.Fatalf("login leaked into keyspace: %q", key)
		}
		if !strings.HasPrefix(key, "ctm:session:") {
			t.Fatalf("unexpected key %q", key)
		}
	}
}
