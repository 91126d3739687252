package drafting

import (
	"context"
	"sync"

	types "github.com/yungbote/procuremind-backend/internal/domain"
)

// DraftStore holds the current draft per RFQ. Get returns nil, nil when
// there is none.
type DraftStore interface {
	Get(ctx context.Context, rfqID uint) (*types.EmailDraft, error)
	Put(ctx context.Context, d types.EmailDraft) error
	Delete(ctx context.Context, rfqID uint) error
}

// MemoryStore is the DraftStore used when no Redis is configured.
// Drafts are lost on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	drafts map[uint]types.EmailDraft
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{drafts: map[uint]types.EmailDraft{}}
}

func (m *MemoryStore) Get(_ context.Context, rfqID uint) (*types.EmailDraft, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.drafts[rfqID]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (m *MemoryStore) Put(_ context.Context, d types.EmailDraft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[d.RFQID] = d
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, rfqID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, rfqID)
	return nil
}
