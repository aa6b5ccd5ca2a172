package shortlink

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.uber.org/zap"

	"github.com/mario-aq/quotelink/internal/model"
	"github.com/mario-aq/quotelink/internal/slug"
	"github.com/mario-aq/quotelink/internal/store"
)

const maxArtifactKeyLen = 1024

var localePattern = regexp.MustCompile(`^[a-z]{2}(-[A-Z]{2})?$`)

// Lifecycle 让短链记录跟随父文档的生命周期：
// 渲染完成后登记 (Upsert)，文档删除后清理 (DeleteAllForDocument)。
type Lifecycle struct {
	store  store.LinkStore
	logger *zap.Logger

	nowFn func() time.Time // 测试注入
}

func NewLifecycle(st store.LinkStore, logger *zap.Logger) *Lifecycle {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Lifecycle{store: st, logger: logger, nowFn: time.Now}
}

// Upsert 为 (documentID, locale) 登记或更新短链，返回 slug，可重复调用。
// slug 由二元组确定性导出；该 slug 已被其他二元组占用时报冲突且不碰原记录。
// artifactKey 变化时同步作废旧签名缓存，重渲染生效后不会再发旧产物的地址。
func (l *Lifecycle) Upsert(ctx context.Context, documentID, locale, artifactKey string) (string, error) {
	if err := validateUpsert(documentID, locale, artifactKey); err != nil {
		return "", err
	}
	code := slug.Generate(documentID, locale)

	existing, err := l.store.GetBySlug(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		now := l.nowFn()
		link := &model.ShortLink{
			Slug:        code,
			DocumentID:  documentID,
			Locale:      locale,
			ArtifactKey: artifactKey,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := l.store.Put(ctx, link); err != nil {
			return "", fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
		l.logger.Info("短链已登记",
			zap.String("slug", code),
			zap.String("document_id", documentID),
			zap.String("locale", locale))
		return code, nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	if existing.DocumentID != documentID || existing.Locale != locale {
		return "", fmt.Errorf("%w: slug %s 属于 (%s, %s)",
			ErrSlugCollision, code, existing.DocumentID, existing.Locale)
	}

	invalidate := existing.ArtifactKey != artifactKey
	if err := l.store.UpdateArtifact(ctx, code, artifactKey, invalidate); err != nil {
		return "", fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	if invalidate {
		l.logger.Info("产物已更换, 旧签名缓存作废",
			zap.String("slug", code),
			zap.String("artifact_key", artifactKey))
	}
	return code, nil
}

// DeleteAllForDocument 尽力清理一个文档名下的全部短链，返回删掉的条数。
// 任何存储错误只记日志不上抛，文档删除流程不因清理失败而中断；
// 漏掉的记录指向已不存在的产物，解析时会在签名或下载环节自然失败。
func (l *Lifecycle) DeleteAllForDocument(ctx context.Context, documentID string) int {
	links, err := l.store.QueryByDocument(ctx, documentID)
	if err != nil {
		l.logger.Warn("清理短链时枚举失败",
			zap.String("document_id", documentID),
			zap.Error(err))
		return 0
	}

	deleted := 0
	for _, link := range links {
		if err := l.store.Delete(ctx, link.Slug); err != nil {
			l.logger.Warn("清理短链失败",
				zap.String("slug", link.Slug),
				zap.Error(err))
			continue
		}
		deleted++
	}
	if deleted > 0 {
		l.logger.Info("文档短链已清理",
			zap.String("document_id", documentID),
			zap.Int("deleted", deleted))
	}
	return deleted
}

func validateUpsert(documentID, locale, artifactKey string) error {
	if documentID == "" {
		return fmt.Errorf("%w: document_id 不能为空", ErrValidation)
	}
	if !localePattern.MatchString(locale) {
		return fmt.Errorf("%w: locale 格式非法: %q", ErrValidation, locale)
	}
	if artifactKey == "" {
		return fmt.Errorf("%w: artifact_key 不能为空", ErrValidation)
	}
	if len(artifactKey) > maxArtifactKeyLen {
		return fmt.Errorf("%w: artifact_key 超长 (%d > %d)", ErrValidation, len(artifactKey), maxArtifactKeyLen)
	}
	return nil
}
