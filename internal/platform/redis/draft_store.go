package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	types "github.com/yungbote/procuremind-backend/internal/domain"
	"github.com/yungbote/procuremind-backend/internal/platform/logger"
)

const (
	defaultKeyPrefix = "procuremind:draft:"
	defaultTTL       = 7 * 24 * time.Hour
)

type Config struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	TTL       time.Duration
}

// DraftStore keeps one email draft per RFQ under <prefix><rfq id>.
type DraftStore struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
}

func NewDraftStore(ctx context.Context, cfg Config, log *logger.Logger) (*DraftStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = defaultTTL
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &DraftStore{
		log:    log.With("service", "RedisDraftStore"),
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
	}, nil
}

func (s *DraftStore) key(rfqID uint) string {
	return fmt.Sprintf("%s%d", s.prefix, rfqID)
}

func (s *DraftStore) Get(ctx context.Context, rfqID uint) (*types.EmailDraft, error) {
	raw, err := s.rdb.Get(ctx, s.key(rfqID)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get draft: %w", err)
	}
	var d types.EmailDraft
	if err := json.Unmarshal(raw, &d); err != nil {
		s.log.Warn("Dropping unreadable draft", "rfq_id", rfqID, "error", err.Error())
		return nil, nil
	}
	return &d, nil
}

// Put replaces the draft and restarts its TTL.
func (s *DraftStore) Put(ctx context.Context, d types.EmailDraft) error {
	raw, err := json.Marshal(d)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, s.key(d.RFQID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set draft: %w", err)
	}
	return nil
}

func (s *DraftStore) Delete(ctx context.Context, rfqID uint) error {
	if err := s.rdb.Del(ctx, s.key(rfqID)).Err(); err != nil {
		return fmt.Errorf("redis del draft: %w", err)
	}
	return nil
}

func (s *DraftStore) Close() error {
	if s == nil || s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
