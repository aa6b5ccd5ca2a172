package shortlink

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/mario-aq/quotelink/internal/model"
	"github.com/mario-aq/quotelink/internal/store"
)

// memStore 测试用内存 LinkStore，支持按操作注入故障
type memStore struct {
	mu    sync.Mutex
	links map[string]model.ShortLink

	getErr    error
	putErr    error
	updateErr error
	queryErr  error
	deleteErr map[string]error

	getCalls         int
	updateCacheCalls int
}

func newMemStore() *memStore {
	return &memStore{
		links:     make(map[string]model.ShortLink),
		deleteErr: make(map[string]error),
	}
}

func (m *memStore) get(slug string) (model.ShortLink, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	link, ok := m.links[slug]
	return link, ok
}

func (m *memStore) GetBySlug(ctx context.Context, slug string) (*model.ShortLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalls++
	if m.getErr != nil {
		return nil, m.getErr
	}
	link, ok := m.links[slug]
	if !ok {
		return nil, store.ErrNotFound
	}
	cp := link
	return &cp, nil
}

func (m *memStore) GetByDocumentAndLocale(ctx context.Context, documentID, locale string) (*model.ShortLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	for _, link := range m.links {
		if link.DocumentID == documentID && link.Locale == locale {
			cp := link
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) Put(ctx context.Context, link *model.ShortLink) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.links[link.Slug] = *link
	return nil
}

func (m *memStore) UpdateArtifact(ctx context.Context, slug, artifactKey string, invalidateCache bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return m.updateErr
	}
	link, ok := m.links[slug]
	if !ok {
		return nil
	}
	link.ArtifactKey = artifactKey
	if invalidateCache {
		link.CachedSignedURL = nil
		link.CachedExpiresAt = nil
	}
	link.UpdatedAt = time.Now()
	m.links[slug] = link
	return nil
}

func (m *memStore) UpdateCache(ctx context.Context, slug, signedURL string, expiresAt int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCacheCalls++
	if m.updateErr != nil {
		return m.updateErr
	}
	link, ok := m.links[slug]
	if !ok {
		return nil
	}
	link.CachedSignedURL = &signedURL
	link.CachedExpiresAt = &expiresAt
	link.UpdatedAt = time.Now()
	m.links[slug] = link
	return nil
}

func (m *memStore) QueryByDocument(ctx context.Context, documentID string) ([]model.ShortLink, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	var out []model.ShortLink
	for _, link := range m.links {
		if link.DocumentID == documentID {
			out = append(out, link)
		}
	}
	return out, nil
}

func (m *memStore) Delete(ctx context.Context, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.deleteErr[slug]; err != nil {
		return err
	}
	delete(m.links, slug)
	return nil
}

func (m *memStore) IncrementHits(ctx context.Context, slug string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	link, ok := m.links[slug]
	if !ok {
		return nil
	}
	link.HitCount++
	now := time.Now()
	link.LastAccessAt = &now
	m.links[slug] = link
	return nil
}

func (m *memStore) Totals(ctx context.Context) (int64, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var hits int64
	for _, link := range m.links {
		hits += link.HitCount
	}
	return int64(len(m.links)), hits, nil
}

// stubSigner 返回可预测地址并计数的 Provider 假实现
type stubSigner struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (s *stubSigner) Issue(ctx context.Context, artifactKey string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return "https://storage.example.com/" + artifactKey + "?sig=" + strconv.Itoa(s.calls), nil
}

func (s *stubSigner) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
