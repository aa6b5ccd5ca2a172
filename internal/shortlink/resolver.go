package shortlink

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/mario-aq/quotelink/internal/metrics"
	"github.com/mario-aq/quotelink/internal/signer"
	"github.com/mario-aq/quotelink/internal/store"
)

// 懒刷新的三个时间参数默认值
const (
	DefaultPresignTTL    = 24 * time.Hour   // 预签名有效期
	DefaultRefreshBuffer = 60 * time.Second // 距过期小于该值按过期处理
	DefaultSafetyMargin  = 5 * time.Minute  // 记录的过期时间比真实签名提前量
)

var slugPattern = regexp.MustCompile(`^[0-9a-zA-Z]{8}$`)

// ResolverConfig 懒刷新时间参数，零值字段取默认
type ResolverConfig struct {
	PresignTTL    time.Duration
	RefreshBuffer time.Duration
	SafetyMargin  time.Duration
}

func (c ResolverConfig) withDefaults() ResolverConfig {
	if c.PresignTTL <= 0 {
		c.PresignTTL = DefaultPresignTTL
	}
	if c.RefreshBuffer <= 0 {
		c.RefreshBuffer = DefaultRefreshBuffer
	}
	if c.SafetyMargin <= 0 {
		c.SafetyMargin = DefaultSafetyMargin
	}
	return c
}

// Resolver 把 slug 解析成当前有效的签名下载地址，按需就地重签。
// 实例不持有任何可变状态，不加锁；并发刷新同一条记录时后写覆盖先写，
// 各请求拿到的地址都有效，只是多签了几次。
type Resolver struct {
	store  store.LinkStore
	signer signer.Provider
	cfg    ResolverConfig
	logger *zap.Logger

	nowFn func() time.Time // 测试注入
}

func NewResolver(st store.LinkStore, sp signer.Provider, cfg ResolverConfig, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		store:  st,
		signer: sp,
		cfg:    cfg.withDefaults(),
		logger: logger,
		nowFn:  time.Now,
	}
}

// Resolve 查记录、判新鲜度、必要时重签并回写，返回可直接 302 的地址。
// 缓存新鲜的标准是剩余有效期严格大于 RefreshBuffer；重签后记录的
// 过期时间取 now + PresignTTL - SafetyMargin，提前让缓存失效，
// 避免把一个即将过期的地址发给下载方。
func (r *Resolver) Resolve(ctx context.Context, slug string) (string, error) {
	if !slugPattern.MatchString(slug) {
		metrics.ResolutionsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return "", fmt.Errorf("%w: slug 格式非法: %q", ErrValidation, slug)
	}

	link, err := r.store.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.ResolutionsTotal.WithLabelValues(metrics.OutcomeNotFound).Inc()
			return "", fmt.Errorf("%w: %s", ErrNotFound, slug)
		}
		metrics.ResolutionsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return "", fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	now := r.nowFn()
	if link.CachedSignedURL != nil && link.CachedExpiresAt != nil &&
		*link.CachedExpiresAt > now.Unix()+int64(r.cfg.RefreshBuffer/time.Second) {
		metrics.ResolutionsTotal.WithLabelValues(metrics.OutcomeCacheHit).Inc()
		return *link.CachedSignedURL, nil
	}

	start := time.Now()
	signedURL, err := r.signer.Issue(ctx, link.ArtifactKey, r.cfg.PresignTTL)
	metrics.SignerIssueDurationSeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SignerIssueTotal.WithLabelValues("error").Inc()
		metrics.ResolutionsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return "", fmt.Errorf("%w: %w", ErrSigner, err)
	}
	metrics.SignerIssueTotal.WithLabelValues("ok").Inc()

	newExpiresAt := now.Add(r.cfg.PresignTTL - r.cfg.SafetyMargin).Unix()
	if err := r.store.UpdateCache(ctx, slug, signedURL, newExpiresAt); err != nil {
		metrics.ResolutionsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return "", fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	metrics.ResolutionsTotal.WithLabelValues(metrics.OutcomeRefreshed).Inc()
	r.logger.Debug("签名缓存已刷新",
		zap.String("slug", slug),
		zap.Int64("expires_at", newExpiresAt))
	return signedURL, nil
}
