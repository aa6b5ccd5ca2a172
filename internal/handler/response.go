package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mario-aq/quotelink/internal/shortlink"
	"github.com/mario-aq/quotelink/internal/store"
)

// 错误响应里 error 字段的取值, 给调用方程序判断用, message 才是给人看的
const (
	KindValidation       = "ValidationError"
	KindNotFound         = "ShortLinkNotFound"
	KindSlugCollision    = "SlugCollision"
	KindStoreUnavailable = "StoreUnavailable"
	KindSigner           = "SignerError"
	KindUnauthorized     = "Unauthorized"
	KindRateLimited      = "RateLimited"
	KindInternal         = "InternalError"
)

// respondError 把业务错误翻译成 HTTP 状态码和统一的错误格式。
// 4xx 把具体原因带给调用方, 5xx 只给笼统说法, 细节留在日志里
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, shortlink.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": KindValidation, "message": err.Error()})
	case errors.Is(err, shortlink.ErrNotFound), errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": KindNotFound, "message": "短链不存在"})
	case errors.Is(err, shortlink.ErrSlugCollision):
		c.JSON(http.StatusConflict, gin.H{"error": KindSlugCollision, "message": err.Error()})
	case errors.Is(err, shortlink.ErrSigner):
		c.JSON(http.StatusInternalServerError, gin.H{"error": KindSigner, "message": "签名服务失败"})
	case errors.Is(err, shortlink.ErrStoreUnavailable):
		c.JSON(http.StatusInternalServerError, gin.H{"error": KindStoreUnavailable, "message": "存储暂不可用"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": KindInternal, "message": "服务内部错误"})
	}
}
