package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mario-aq/quotelink/internal/middleware"
	auth "github.com/mario-aq/quotelink/pkg/jwt"
)

func setupAuthTest(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte("render-secret-key"), bcrypt.MinCost)
	require.NoError(t, err)

	jwtManager := auth.NewManager("test-secret", "quotelink", 1)
	h := NewAuthHandler(jwtManager, string(hash))

	router := gin.New()
	router.POST("/auth/token", h.IssueToken)

	api := router.Group("/api")
	api.Use(middleware.AuthMiddleware(jwtManager))
	api.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": c.GetString("service_name")})
	})

	return router
}

func postToken(router *gin.Engine, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	json.NewEncoder(&buf).Encode(body)
	req := httptest.NewRequest(http.MethodPost, "/auth/token", &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestIssueToken(t *testing.T) {
	router := setupAuthTest(t)

	w := postToken(router, TokenRequest{APIKey: "render-secret-key", ServiceName: "render-pipeline"})
	require.Equal(t, http.StatusOK, w.Code, "正确的 api_key 应换到令牌: %s", w.Body.String())

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
}

func TestIssueTokenWrongKey(t *testing.T) {
	router := setupAuthTest(t)

	w := postToken(router, TokenRequest{APIKey: "guessed-key"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, KindUnauthorized, body["error"])
}

func TestIssueTokenMissingBody(t *testing.T) {
	router := setupAuthTest(t)

	w := postToken(router, gin.H{"service_name": "render-pipeline"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "缺 api_key 应拒绝")
}

func TestAuthMiddlewareFlow(t *testing.T) {
	router := setupAuthTest(t)

	// 不带令牌
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code, "没有令牌应被拦下")

	// 格式错误
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("Authorization", "Basic abc123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "非 Bearer 格式应被拦下")

	// 伪造令牌
	req = httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "伪造令牌应被拦下")

	// 正常流程: 换令牌再访问
	tw := postToken(router, TokenRequest{APIKey: "render-secret-key", ServiceName: "document-service"})
	require.Equal(t, http.StatusOK, tw.Code)
	var resp TokenResponse
	require.NoError(t, json.Unmarshal(tw.Body.Bytes(), &resp))

	req = httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "document-service", "上下文里应能取到调用方名字")
}
