package redis

import (
	"context"
	"os"
	"testing"
	"time"

	types "github.com/yungbote/procuremind-backend/internal/domain"
	"github.com/yungbote/procuremind-backend/internal/platform/logger"
)

func testStore(t *testing.T) *DraftStore {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	s, err := NewDraftStore(context.Background(), Config{
		Addr:      addr,
		KeyPrefix: "procuremind:test:" + t.Name() + ":",
		TTL:       time.Minute,
	}, logger.Nop())
	if err != nil {
		t.Fatalf("NewDraftStore: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestDraftStoreRoundTrip(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	got, err := s.Get(ctx, 7)
	if err != nil || got != nil {
		t.Fatalf("missing draft: %+v %v", got, err)
	}

	want := types.EmailDraft{RFQID: 7, Body: "Dear buyer", Revision: 2, UpdatedAt: time.Now().UTC().Truncate(time.Second)}
	if err := s.Put(ctx, want); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err = s.Get(ctx, 7)
	if err != nil || got == nil || got.Body != want.Body || got.Revision != 2 {
		t.Fatalf("Get: %+v %v", got, err)
	}
	ttl, err := s.rdb.TTL(ctx, s.key(7)).Result()
	if err != nil || ttl <= 0 || ttl > time.Minute {
		t.Fatalf("ttl: %v %v", ttl, err)
	}

	if err := s.Delete(ctx, 7); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

func TestNewDraftStoreRequiresAddr(t *testing.T) {
	if _, err := NewDraftStore(context.Background(), Config{}, logger.Nop()); err == nil {
		t.Fatalf("expected error for missing addr")
	}
}
