package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	auth "github.com/mario-aq/quotelink/pkg/jwt"
)

// AuthMiddleware JWT认证中间件, 只挂在 /api 分组上, 跳转路由不经过这里
func AuthMiddleware(jwtManager *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": "缺少认证令牌"})
			c.Abort()
			return
		}

		// 提取Bearer token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": "认证格式错误"})
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": "无效的认证令牌"})
			c.Abort()
			return
		}

		// 调用方身份存入上下文, 日志和统计要用
		c.Set("service_name", claims.ServiceName)

		c.Next()
	}
}
