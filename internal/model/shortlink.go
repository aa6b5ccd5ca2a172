package model

import (
	"time"
)

// ShortLink 短链记录，每个 (document_id, locale) 组合一条。
// slug 由 (document_id, locale) 确定性推导，作主键；重新渲染只改
// artifact_key，不换 slug。cached_signed_url 与 cached_expires_at
// 要么同时有值、要么同时为空，首次解析之前都是空。
type ShortLink struct {
	Slug            string     `gorm:"primaryKey;size:8" json:"slug"`
	DocumentID      string     `gorm:"size:128;not null;uniqueIndex:idx_document_locale,priority:1" json:"document_id"`
	Locale          string     `gorm:"size:16;not null;uniqueIndex:idx_document_locale,priority:2" json:"locale"`
	ArtifactKey     string     `gorm:"size:1024;not null" json:"artifact_key"`
	CachedSignedURL *string    `gorm:"type:text" json:"cached_signed_url,omitempty"`
	CachedExpiresAt *int64     `json:"cached_expires_at,omitempty"` // epoch 秒
	HitCount        int64      `gorm:"default:0" json:"hit_count"`
	LastAccessAt    *time.Time `json:"last_access_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TableName 指定表名
func (ShortLink) TableName() string {
	return "short_links"
}

// CacheValid 返回缓存字段是否成对出现（数据一致性自检用）
func (s *ShortLink) CacheValid() bool {
	return (s.CachedSignedURL == nil) == (s.CachedExpiresAt == nil)
}
