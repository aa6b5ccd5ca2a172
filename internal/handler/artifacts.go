package handler

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mario-aq/quotelink/internal/signer"
)

// ArtifactHandler 开发环境的产物下载路由, 校验本地签名后直接回文件。
// 生产环境签出的是对象存储直链, 不会打到这里
type ArtifactHandler struct {
	provider *signer.LocalProvider
	root     string
}

// NewArtifactHandler 创建产物下载处理器
func NewArtifactHandler(provider *signer.LocalProvider, root string) *ArtifactHandler {
	return &ArtifactHandler{provider: provider, root: root}
}

// Serve 校验签名与有效期, 通过后回产物文件
func (h *ArtifactHandler) Serve(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")

	expires, err := strconv.ParseInt(c.Query("expires"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": KindValidation, "message": "expires 参数非法"})
		return
	}

	if !h.provider.Verify(key, expires, c.Query("signature")) {
		c.JSON(http.StatusForbidden, gin.H{"error": KindUnauthorized, "message": "签名无效或已过期"})
		return
	}

	// 产物键来自外部输入, 不许越出产物根目录
	clean := filepath.Clean(key)
	if clean != key || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		c.JSON(http.StatusBadRequest, gin.H{"error": KindValidation, "message": "产物键非法"})
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.File(filepath.Join(h.root, clean))
}
