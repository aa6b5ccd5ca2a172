package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	auth "github.com/mario-aq/quotelink/pkg/jwt"
)

// AuthHandler 服务间认证处理器。调用方不是人而是渲染管线和文档服务,
// 所以没有用户注册, 只有一把预共享 api_key 换短期 JWT
type AuthHandler struct {
	jwtManager *auth.TokenManager
	apiKeyHash string // bcrypt 哈希, 来自配置, 明文不进程序
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(jwtManager *auth.TokenManager, apiKeyHash string) *AuthHandler {
	return &AuthHandler{
		jwtManager: jwtManager,
		apiKeyHash: apiKeyHash,
	}
}

// TokenRequest 换取访问令牌
type TokenRequest struct {
	APIKey      string `json:"api_key" binding:"required" example:"s3rv1ce-k3y"`
	ServiceName string `json:"service_name" example:"document-pipeline"`
}

// TokenResponse 访问令牌
type TokenResponse struct {
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIs..."`
}

// IssueToken godoc
// @Summary 换取访问令牌
// @Description 用预共享 api_key 换一个短期 JWT, 之后的 /api 调用都带它
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param   credentials  body   TokenRequest  true  "服务凭证"
// @Success 200 {object} TokenResponse "成功响应"
// @Failure 400 {object} gin.H "请求无效"
// @Failure 401 {object} gin.H "凭证错误"
// @Failure 500 {object} gin.H "服务器内部错误"
// @Router /auth/token [post]
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": KindValidation, "message": "无效的请求数据: " + err.Error()})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(h.apiKeyHash), []byte(req.APIKey)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": KindUnauthorized, "message": "api_key 校验失败"})
		return
	}

	name := req.ServiceName
	if name == "" {
		name = "document-pipeline"
	}

	token, err := h.jwtManager.GenerateToken(name)
	if err != nil {
		zap.S().Errorf("签发令牌失败: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": KindInternal, "message": "服务内部错误"})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{Token: token})
}
