package store

import (
	"context"
	"errors"

	"github.com/mario-aq/quotelink/internal/model"
)

// ErrNotFound 表示目标短链记录不存在。这是正常业务分支，不是存储故障，
// 调用方用 errors.Is 与其他存储错误区分。
var ErrNotFound = errors.New("store: short link not found")

// LinkStore 是短链记录的持久化契约，所有操作都是单条记录原子的。
// 存储层故障以包装错误返回；部分写入对调用方不可见。
type LinkStore interface {
	// GetBySlug 按主键取记录，不存在返回 ErrNotFound
	GetBySlug(ctx context.Context, slug string) (*model.ShortLink, error)
	// GetByDocumentAndLocale 走 (document_id, locale) 二级索引取记录
	GetByDocumentAndLocale(ctx context.Context, documentID, locale string) (*model.ShortLink, error)
	// Put 无条件写入：不存在则插入，存在则整条覆盖
	Put(ctx context.Context, link *model.ShortLink) error
	// UpdateArtifact 只更新 artifact_key（invalidateCache 为真时连带清空
	// 两个缓存字段），其余字段不动，updated_at 总是刷新
	UpdateArtifact(ctx context.Context, slug, artifactKey string, invalidateCache bool) error
	// UpdateCache 只更新缓存两字段，其余字段不动，updated_at 总是刷新
	UpdateCache(ctx context.Context, slug, signedURL string, expiresAt int64) error
	// QueryByDocument 枚举一个文档现存的全部语言版本
	QueryByDocument(ctx context.Context, documentID string) ([]model.ShortLink, error)
	// Delete 按主键删除，目标本来就不存在也算成功
	Delete(ctx context.Context, slug string) error
	// IncrementHits 解析计数 +1 并记录最近访问时间。统计字段的变动
	// 不刷新 updated_at，updated_at 只反映记录本身的语义变化
	IncrementHits(ctx context.Context, slug string) error
	// Totals 返回链接总数与累计解析次数（统计接口用）
	Totals(ctx context.Context) (links int64, hits int64, err error)
}
