package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mario-aq/quotelink/internal/model"
)

// GormLinkStore 基于 GORM 的 LinkStore 实现，生产环境走 MySQL，测试走 sqlite
type GormLinkStore struct {
	db *gorm.DB
}

func NewGormLinkStore(db *gorm.DB) *GormLinkStore {
	return &GormLinkStore{db: db}
}

func (s *GormLinkStore) GetBySlug(ctx context.Context, slug string) (*model.ShortLink, error) {
	var link model.ShortLink
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("查询短链记录失败: %w", err)
	}
	return &link, nil
}

func (s *GormLinkStore) GetByDocumentAndLocale(ctx context.Context, documentID, locale string) (*model.ShortLink, error) {
	var link model.ShortLink
	err := s.db.WithContext(ctx).
		Where("document_id = ? AND locale = ?", documentID, locale).
		First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("查询短链记录失败: %w", err)
	}
	return &link, nil
}

func (s *GormLinkStore) Put(ctx context.Context, link *model.ShortLink) error {
	// slug 冲突时整条覆盖，保证 Put 的"插入或覆盖"语义
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(link).Error
	if err != nil {
		return fmt.Errorf("写入短链记录失败: %w", err)
	}
	return nil
}

func (s *GormLinkStore) UpdateArtifact(ctx context.Context, slug, artifactKey string, invalidateCache bool) error {
	fields := map[string]interface{}{
		"artifact_key": artifactKey,
		"updated_at":   time.Now(),
	}
	if invalidateCache {
		fields["cached_signed_url"] = nil
		fields["cached_expires_at"] = nil
	}
	err := s.db.WithContext(ctx).
		Model(&model.ShortLink{}).
		Where("slug = ?", slug).
		Updates(fields).Error
	if err != nil {
		return fmt.Errorf("更新产物键失败: %w", err)
	}
	return nil
}

func (s *GormLinkStore) UpdateCache(ctx context.Context, slug, signedURL string, expiresAt int64) error {
	err := s.db.WithContext(ctx).
		Model(&model.ShortLink{}).
		Where("slug = ?", slug).
		Updates(map[string]interface{}{
			"cached_signed_url": signedURL,
			"cached_expires_at": expiresAt,
			"updated_at":        time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("更新签名缓存失败: %w", err)
	}
	return nil
}

func (s *GormLinkStore) QueryByDocument(ctx context.Context, documentID string) ([]model.ShortLink, error) {
	var links []model.ShortLink
	err := s.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("locale ASC").
		Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("查询文档短链失败: %w", err)
	}
	return links, nil
}

func (s *GormLinkStore) Delete(ctx context.Context, slug string) error {
	err := s.db.WithContext(ctx).
		Where("slug = ?", slug).
		Delete(&model.ShortLink{}).Error
	if err != nil {
		return fmt.Errorf("删除短链记录失败: %w", err)
	}
	return nil
}

func (s *GormLinkStore) IncrementHits(ctx context.Context, slug string) error {
	// UpdateColumns 跳过时间戳回写，统计不污染 updated_at
	err := s.db.WithContext(ctx).
		Model(&model.ShortLink{}).
		Where("slug = ?", slug).
		UpdateColumns(map[string]interface{}{
			"hit_count":      gorm.Expr("hit_count + 1"),
			"last_access_at": time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("更新解析计数失败: %w", err)
	}
	return nil
}

func (s *GormLinkStore) Totals(ctx context.Context) (links int64, hits int64, err error) {
	if err = s.db.WithContext(ctx).Model(&model.ShortLink{}).Count(&links).Error; err != nil {
		return 0, 0, fmt.Errorf("统计链接总数失败: %w", err)
	}
	err = s.db.WithContext(ctx).
		Model(&model.ShortLink{}).
		Select("COALESCE(SUM(hit_count), 0)").
		Scan(&hits).Error
	if err != nil {
		return 0, 0, fmt.Errorf("统计解析次数失败: %w", err)
	}
	return links, hits, nil
}
