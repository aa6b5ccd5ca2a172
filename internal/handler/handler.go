package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mario-aq/quotelink/internal/shortlink"
	"github.com/mario-aq/quotelink/internal/stats"
	"github.com/mario-aq/quotelink/internal/store"
)

// LinkHandler 短链相关接口的处理器
type LinkHandler struct {
	resolver  *shortlink.Resolver
	lifecycle *shortlink.Lifecycle
	store     store.LinkStore
	recorder  *stats.Recorder // 可以为 nil, 此时不记解析事件
	baseURL   string
}

// NewLinkHandler 创建处理器实例
func NewLinkHandler(resolver *shortlink.Resolver, lifecycle *shortlink.Lifecycle, st store.LinkStore, recorder *stats.Recorder, baseURL string) *LinkHandler {
	return &LinkHandler{
		resolver:  resolver,
		lifecycle: lifecycle,
		store:     st,
		recorder:  recorder,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
	}
}

// HealthCheck 存活探针
func (h *LinkHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
}

// Redirect godoc
// @Summary 短链跳转
// @Description 把 slug 解析成带签名的产物地址并 302 跳转
// @Tags Link
// @Produce  json
// @Param   slug  path  string  true  "8 位短码"
// @Success 302 "跳转到签名地址"
// @Failure 400 {object} gin.H "slug 格式非法"
// @Failure 404 {object} gin.H "短链不存在"
// @Failure 500 {object} gin.H "服务器内部错误"
// @Router /link/{slug} [get]
func (h *LinkHandler) Redirect(c *gin.Context) {
	slug := c.Param("slug")

	target, err := h.resolver.Resolve(c.Request.Context(), slug)
	if err != nil {
		// 格式非法的 slug 是垃圾流量, 不进统计
		if !errors.Is(err, shortlink.ErrValidation) {
			outcome := stats.OutcomeError
			if errors.Is(err, shortlink.ErrNotFound) {
				outcome = stats.OutcomeNotFound
			}
			h.record(c, slug, outcome)
		}
		respondError(c, err)
		return
	}

	h.record(c, slug, stats.OutcomeResolved)

	// 签名地址随缓存刷新而变, 不能让中间层缓存住跳转
	c.Header("Cache-Control", "no-cache")
	c.Redirect(http.StatusFound, target)
}

// UpsertLinkRequest 注册或更新一条短链
type UpsertLinkRequest struct {
	DocumentID  string `json:"document_id" binding:"required" example:"quote-2025-000137"`
	Locale      string `json:"locale" binding:"required" example:"de-CH"`
	ArtifactKey string `json:"artifact_key" binding:"required" example:"renders/quote-2025-000137/de-CH/v12.pdf"`
}

// UpsertLinkResponse 注册结果
type UpsertLinkResponse struct {
	Slug     string `json:"slug" example:"fR7xK2qa"`
	ShortURL string `json:"short_url" example:"https://q.example.com/link/fR7xK2qa"`
}

// UpsertLink godoc
// @Summary 注册短链
// @Description 为 (document_id, locale) 注册产物；已存在则换掉 artifact_key 并作废旧缓存
// @Tags Link
// @Security ApiKeyAuth
// @Accept  json
// @Produce  json
// @Param   link  body   UpsertLinkRequest  true  "文档与产物信息"
// @Success 200 {object} UpsertLinkResponse "成功响应"
// @Failure 400 {object} gin.H "请求无效"
// @Failure 409 {object} gin.H "slug 冲突"
// @Failure 500 {object} gin.H "服务器内部错误"
// @Router /api/links [put]
func (h *LinkHandler) UpsertLink(c *gin.Context) {
	var req UpsertLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": KindValidation, "message": "无效的请求数据: " + err.Error()})
		return
	}

	slug, err := h.lifecycle.Upsert(c.Request.Context(), req.DocumentID, req.Locale, req.ArtifactKey)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, UpsertLinkResponse{Slug: slug, ShortURL: h.shortURL(slug)})
}

// LookupLink godoc
// @Summary 查询短链记录
// @Description 按 (document_id, locale) 取完整记录, 渲染管线查回填结果用
// @Tags Link
// @Security ApiKeyAuth
// @Produce  json
// @Param   document_id  query  string  true  "文档标识"
// @Param   locale       query  string  true  "语言区域"
// @Success 200 {object} model.ShortLink "短链记录"
// @Failure 400 {object} gin.H "缺少查询参数"
// @Failure 404 {object} gin.H "短链不存在"
// @Router /api/links/lookup [get]
func (h *LinkHandler) LookupLink(c *gin.Context) {
	documentID := c.Query("document_id")
	locale := c.Query("locale")
	if documentID == "" || locale == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": KindValidation, "message": "document_id 和 locale 均不能为空"})
		return
	}

	link, err := h.store.GetByDocumentAndLocale(c.Request.Context(), documentID, locale)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			err = fmt.Errorf("%w: %w", shortlink.ErrStoreUnavailable, err)
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, link)
}

// ListDocumentLinks godoc
// @Summary 枚举文档的全部短链
// @Description 列出一个文档现存的所有语言版本, 按 locale 排序
// @Tags Link
// @Security ApiKeyAuth
// @Produce  json
// @Param   id  path  string  true  "文档标识"
// @Success 200 {object} gin.H "短链列表"
// @Failure 500 {object} gin.H "服务器内部错误"
// @Router /api/documents/{id}/links [get]
func (h *LinkHandler) ListDocumentLinks(c *gin.Context) {
	documentID := c.Param("id")

	links, err := h.store.QueryByDocument(c.Request.Context(), documentID)
	if err != nil {
		respondError(c, fmt.Errorf("%w: %w", shortlink.ErrStoreUnavailable, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"document_id": documentID,
		"count":       len(links),
		"links":       links,
	})
}

// DeleteDocumentLinks godoc
// @Summary 删除文档的全部短链
// @Description 文档归档或删除时调用。尽力而为, 删不掉的下次再删, 永远返回 200
// @Tags Link
// @Security ApiKeyAuth
// @Produce  json
// @Param   id  path  string  true  "文档标识"
// @Success 200 {object} gin.H "删除条数"
// @Router /api/documents/{id}/links [delete]
func (h *LinkHandler) DeleteDocumentLinks(c *gin.Context) {
	documentID := c.Param("id")

	deleted := h.lifecycle.DeleteAllForDocument(c.Request.Context(), documentID)

	c.JSON(http.StatusOK, gin.H{
		"document_id": documentID,
		"deleted":     deleted,
	})
}

// StatsResponse 运营统计
type StatsResponse struct {
	TotalLinks       int64 `json:"total_links" example:"1024"`
	TotalHits        int64 `json:"total_hits" example:"53100"`
	TodayResolutions int64 `json:"today_resolutions" example:"420"`
}

// GetStats godoc
// @Summary 运营统计
// @Description 链接总数、累计解析次数与当日成功解析数
// @Tags Stats
// @Security ApiKeyAuth
// @Produce  json
// @Success 200 {object} StatsResponse "统计数据"
// @Failure 500 {object} gin.H "服务器内部错误"
// @Router /api/stats [get]
func (h *LinkHandler) GetStats(c *gin.Context) {
	links, hits, err := h.store.Totals(c.Request.Context())
	if err != nil {
		respondError(c, fmt.Errorf("%w: %w", shortlink.ErrStoreUnavailable, err))
		return
	}

	var today int64
	if h.recorder != nil {
		today = h.recorder.TodayCount(c.Request.Context())
	}

	c.JSON(http.StatusOK, StatsResponse{
		TotalLinks:       links,
		TotalHits:        hits,
		TodayResolutions: today,
	})
}

func (h *LinkHandler) shortURL(slug string) string {
	return h.baseURL + "/link/" + slug
}

func (h *LinkHandler) record(c *gin.Context, slug, outcome string) {
	if h.recorder == nil {
		return
	}
	h.recorder.Record(stats.Event{
		Slug:      slug,
		Outcome:   outcome,
		ClientIP:  c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Referer:   c.Request.Referer(),
		At:        time.Now(),
	})
}
