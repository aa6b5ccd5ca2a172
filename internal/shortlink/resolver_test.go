package shortlink

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mario-aq/quotelink/internal/model"
)

var testBase = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestResolver(st *memStore, sg *stubSigner, cfg ResolverConfig) *Resolver {
	r := NewResolver(st, sg, cfg, zap.NewNop())
	r.nowFn = func() time.Time { return testBase }
	return r
}

// seedLink 预置一条记录，expiresIn 为零表示无缓存
func seedLink(st *memStore, slug string, expiresIn time.Duration) {
	link := model.ShortLink{
		Slug:        slug,
		DocumentID:  "doc-1001",
		Locale:      "en-US",
		ArtifactKey: "quotes/doc-1001/en-US.pdf",
	}
	if expiresIn != 0 {
		cached := "https://storage.example.com/cached.pdf?sig=old"
		exp := testBase.Add(expiresIn).Unix()
		link.CachedSignedURL = &cached
		link.CachedExpiresAt = &exp
	}
	st.links[slug] = link
}

func TestResolveFreshCacheServedDirectly(t *testing.T) {
	st := newMemStore()
	sg := &stubSigner{}
	seedLink(st, "aB3x9kQ2", 61*time.Second)
	r := newTestResolver(st, sg, ResolverConfig{})

	url, err := r.Resolve(context.Background(), "aB3x9kQ2")
	require.NoError(t, err)
	assert.Equal(t, "https://storage.example.com/cached.pdf?sig=old", url, "距过期还有 61 秒, 直接复用缓存")
	assert.Equal(t, 0, sg.callCount(), "缓存新鲜时不应触发签名")
	assert.Equal(t, 0, st.updateCacheCalls, "缓存新鲜时不应回写存储")
}

func TestResolveStaleCacheRefreshed(t *testing.T) {
	st := newMemStore()
	sg := &stubSigner{}
	seedLink(st, "aB3x9kQ2", 59*time.Second)
	r := newTestResolver(st, sg, ResolverConfig{})

	url, err := r.Resolve(context.Background(), "aB3x9kQ2")
	require.NoError(t, err)
	assert.Equal(t, 1, sg.callCount(), "距过期只剩 59 秒, 必须重签")
	assert.Contains(t, url, "quotes/doc-1001/en-US.pdf", "新地址指向当前产物")

	got, ok := st.get("aB3x9kQ2")
	require.True(t, ok)
	require.NotNil(t, got.CachedSignedURL)
	require.NotNil(t, got.CachedExpiresAt)
	assert.Equal(t, url, *got.CachedSignedURL)
	assert.Equal(t, testBase.Unix()+86400-300, *got.CachedExpiresAt,
		"记录的过期时间 = now + 签名有效期 - 安全提前量")
}

func TestResolveExactBufferBoundaryIsStale(t *testing.T) {
	st := newMemStore()
	sg := &stubSigner{}
	seedLink(st, "aB3x9kQ2", 60*time.Second)
	r := newTestResolver(st, sg, ResolverConfig{})

	_, err := r.Resolve(context.Background(), "aB3x9kQ2")
	require.NoError(t, err)
	assert.Equal(t, 1, sg.callCount(), "剩余有效期必须严格大于缓冲, 恰好相等按过期处理")
}

func TestResolveFirstResolutionPopulatesCache(t *testing.T) {
	st := newMemStore()
	sg := &stubSigner{}
	seedLink(st, "aB3x9kQ2", 0)
	r := newTestResolver(st, sg, ResolverConfig{})

	url, err := r.Resolve(context.Background(), "aB3x9kQ2")
	require.NoError(t, err)
	assert.Equal(t, 1, sg.callCount())

	got, ok := st.get("aB3x9kQ2")
	require.True(t, ok)
	require.NotNil(t, got.CachedSignedURL, "首次解析后缓存应落库")
	assert.Equal(t, url, *got.CachedSignedURL)
	assert.Equal(t, testBase.Unix()+86400-300, *got.CachedExpiresAt)
}

func TestResolveUnknownSlug(t *testing.T) {
	st := newMemStore()
	sg := &stubSigner{}
	r := newTestResolver(st, sg, ResolverConfig{})

	_, err := r.Resolve(context.Background(), "00000000")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, sg.callCount(), "未知 slug 不应触发签名")
}

func TestResolveMalformedSlug(t *testing.T) {
	st := newMemStore()
	r := newTestResolver(st, &stubSigner{}, ResolverConfig{})

	for _, bad := range []string{"", "abc", "aB3x9kQ2X", "aB3x9kQ!", "aB3x9kQ "} {
		_, err := r.Resolve(context.Background(), bad)
		assert.ErrorIs(t, err, ErrValidation, "slug %q 应被拒绝", bad)
	}
	assert.Equal(t, 0, st.getCalls, "格式非法不应查库")
}

func TestResolveStoreLookupFailure(t *testing.T) {
	st := newMemStore()
	st.getErr = errors.New("connection refused")
	r := newTestResolver(st, &stubSigner{}, ResolverConfig{})

	_, err := r.Resolve(context.Background(), "aB3x9kQ2")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.NotErrorIs(t, err, ErrNotFound, "存储故障不能伪装成不存在")
}

func TestResolveSignerFailure(t *testing.T) {
	st := newMemStore()
	sg := &stubSigner{err: errors.New("credentials expired")}
	seedLink(st, "aB3x9kQ2", 0)
	r := newTestResolver(st, sg, ResolverConfig{})

	_, err := r.Resolve(context.Background(), "aB3x9kQ2")
	assert.ErrorIs(t, err, ErrSigner)

	got, _ := st.get("aB3x9kQ2")
	assert.Nil(t, got.CachedSignedURL, "签名失败不能把坏数据写进缓存")
}

func TestResolveCacheWriteFailure(t *testing.T) {
	st := newMemStore()
	st.updateErr = errors.New("deadlock detected")
	sg := &stubSigner{}
	seedLink(st, "aB3x9kQ2", 0)
	r := newTestResolver(st, sg, ResolverConfig{})

	_, err := r.Resolve(context.Background(), "aB3x9kQ2")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.Equal(t, 1, sg.callCount(), "回写失败发生在签名之后")
}

func TestResolveCustomTiming(t *testing.T) {
	cfg := ResolverConfig{
		PresignTTL:    time.Hour,
		RefreshBuffer: 30 * time.Second,
		SafetyMargin:  2 * time.Minute,
	}

	st := newMemStore()
	sg := &stubSigner{}
	seedLink(st, "aB3x9kQ2", 31*time.Second)
	r := newTestResolver(st, sg, cfg)

	_, err := r.Resolve(context.Background(), "aB3x9kQ2")
	require.NoError(t, err)
	assert.Equal(t, 0, sg.callCount(), "31 秒 > 30 秒缓冲, 仍算新鲜")

	st2 := newMemStore()
	sg2 := &stubSigner{}
	seedLink(st2, "aB3x9kQ2", 29*time.Second)
	r2 := newTestResolver(st2, sg2, cfg)

	_, err = r2.Resolve(context.Background(), "aB3x9kQ2")
	require.NoError(t, err)
	assert.Equal(t, 1, sg2.callCount())
	got, _ := st2.get("aB3x9kQ2")
	assert.Equal(t, testBase.Add(time.Hour-2*time.Minute).Unix(), *got.CachedExpiresAt)
}

func TestResolverConfigDefaults(t *testing.T) {
	r := NewResolver(newMemStore(), &stubSigner{}, ResolverConfig{}, nil)
	assert.Equal(t, 24*time.Hour, r.cfg.PresignTTL)
	assert.Equal(t, 60*time.Second, r.cfg.RefreshBuffer)
	assert.Equal(t, 5*time.Minute, r.cfg.SafetyMargin)
}

func TestResolveConcurrentStaleRequests(t *testing.T) {
	st := newMemStore()
	sg := &stubSigner{}
	seedLink(st, "aB3x9kQ2", 10*time.Second)
	r := newTestResolver(st, sg, ResolverConfig{})

	const n = 8
	urls := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			url, err := r.Resolve(context.Background(), "aB3x9kQ2")
			assert.NoError(t, err)
			urls[i] = url
		}(i)
	}
	wg.Wait()

	for _, url := range urls {
		assert.True(t, strings.HasPrefix(url, "https://"), "并发刷新时每个请求都要拿到有效地址")
	}
	assert.GreaterOrEqual(t, sg.callCount(), 1)
	assert.LessOrEqual(t, sg.callCount(), n, "重复签名有上界, 不会雪崩放大")

	got, _ := st.get("aB3x9kQ2")
	require.NotNil(t, got.CachedExpiresAt)
	assert.Equal(t, testBase.Unix()+86400-300, *got.CachedExpiresAt, "并发回写彼此等价, 终态一致")
}
