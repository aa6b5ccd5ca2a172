package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	_ "github.com/mario-aq/quotelink/docs"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redisClient "github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/mario-aq/quotelink/internal/config"
	"github.com/mario-aq/quotelink/internal/handler"
	"github.com/mario-aq/quotelink/internal/metrics"
	"github.com/mario-aq/quotelink/internal/middleware"
	"github.com/mario-aq/quotelink/internal/shortlink"
	"github.com/mario-aq/quotelink/internal/signer"
	"github.com/mario-aq/quotelink/internal/stats"
	"github.com/mario-aq/quotelink/internal/store"
	"github.com/mario-aq/quotelink/internal/trace"
	"github.com/mario-aq/quotelink/pkg/database"
	auth "github.com/mario-aq/quotelink/pkg/jwt"
	"github.com/mario-aq/quotelink/pkg/logger"
	"github.com/mario-aq/quotelink/pkg/redis"
	"github.com/mario-aq/quotelink/pkg/storage"
)

// @title QuoteLink API
// @version 1.0
// @description 报价文档短链服务, 为渲染产物维护稳定短链并按需签发限时下载地址
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "配置加载失败: %v\n", err)
		os.Exit(1)
	}

	logger.InitLogger(&logger.Options{
		Level:      cfg.Log.Level,
		Path:       cfg.Log.Path,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	defer func() {
		if err := logger.Logger.Sync(); err != nil {
			fmt.Println("日志同步失败:", err)
		}
	}()
	sugaredLogger := zap.S()

	db, err := database.InitMySQL(cfg.Database.Host, cfg.Database.Port,
		cfg.Database.User, cfg.Database.Password, cfg.Database.Name, cfg.Database.Charset)
	if err != nil {
		sugaredLogger.Fatalf("数据库初始化失败: %v", err)
	}
	sugaredLogger.Info("✅ 数据库连接成功, 表结构已迁移")

	var rdb *redisClient.Client
	if cfg.Cache.Host != "" {
		rdb, err = redis.NewRedisClient(&redis.Options{
			Host: cfg.Cache.Host, Port: cfg.Cache.Port, Password: cfg.Cache.Password, DB: cfg.Cache.DB,
		})
		if err != nil {
			// Redis 只承担按天计数和按端限流, 连不上服务照常跑
			sugaredLogger.Warnf("缓存连接失败: %v", err)
			rdb = nil
		} else {
			defer func() {
				if err := rdb.Close(); err != nil {
					sugaredLogger.Errorf("关闭 Redis 连接失败: %v", err)
				}
			}()
			sugaredLogger.Info("✅ 缓存连接成功")
		}
	}

	provider, localProvider, err := buildSigner(cfg)
	if err != nil {
		sugaredLogger.Fatalf("签名后端初始化失败: %v", err)
	}
	sugaredLogger.Info("✅ 签名后端就绪")

	metrics.Init()

	if cfg.Tracing.Enabled {
		shutdown, err := trace.Init(cfg.Tracing.Endpoint, cfg.App.Name)
		if err != nil {
			sugaredLogger.Warnf("链路追踪初始化失败: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					sugaredLogger.Errorf("链路追踪关闭失败: %v", err)
				}
			}()
			sugaredLogger.Info("✅ 链路追踪已接入")
		}
	}

	linkStore := store.NewGormLinkStore(db)
	resolver := shortlink.NewResolver(linkStore, provider, shortlink.ResolverConfig{
		PresignTTL:    time.Duration(cfg.Links.PresignTTLSeconds) * time.Second,
		RefreshBuffer: time.Duration(cfg.Links.RefreshBufferSeconds) * time.Second,
		SafetyMargin:  time.Duration(cfg.Links.SafetyMarginSeconds) * time.Second,
	}, logger.Logger)
	lifecycle := shortlink.NewLifecycle(linkStore, logger.Logger)

	recorder := stats.NewRecorder(linkStore, db, rdb, logger.Logger)
	recorder.Start()
	defer recorder.Stop()
	sugaredLogger.Info("✅ 解析统计已启动")

	tokenManager := auth.NewManager(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.ExpirationHours)

	if cfg.App.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.GinZapRecovery(logger.Logger, true))
	router.Use(middleware.GinZapLogger(logger.Logger))
	router.Use(middleware.Metrics())
	if cfg.Tracing.Enabled {
		router.Use(otelgin.Middleware(cfg.App.Name))
	}
	router.Use(middleware.RateLimit(rdb, &cfg.RateLimit))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	linkHandler := handler.NewLinkHandler(resolver, lifecycle, linkStore, recorder, cfg.Server.BaseURL)
	authHandler := handler.NewAuthHandler(tokenManager, cfg.Auth.APIKeyHash)
	authMiddleware := middleware.AuthMiddleware(tokenManager)

	registerRoutes(router, linkHandler, authHandler, authMiddleware)

	if localProvider != nil {
		artifactHandler := handler.NewArtifactHandler(localProvider, cfg.Storage.ArtifactRoot)
		router.GET("/artifacts/*key", artifactHandler.Serve)
		sugaredLogger.Info("✅ 本地产物路由已开启")
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	sugaredLogger.Infof("🚀 服务启动成功, 访问 http://localhost:%d", cfg.Server.Port)
	sugaredLogger.Infof("📚 Swagger 文档地址: http://localhost:%d/swagger/index.html", cfg.Server.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugaredLogger.Fatalf("服务启动失败: %v", err)
	}
}

// buildSigner 按配置选签名后端。生产走 S3 预签名直链,
// 开发环境可以切 local, 由本服务自签自验并直接回文件
func buildSigner(cfg *config.Config) (signer.Provider, *signer.LocalProvider, error) {
	switch cfg.Storage.Backend {
	case "s3", "":
		client, err := storage.NewMinioClient(&storage.Options{
			Endpoint:  cfg.Storage.Endpoint,
			Region:    cfg.Storage.Region,
			Bucket:    cfg.Storage.Bucket,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			return nil, nil, err
		}
		return signer.NewS3Provider(client, cfg.Storage.Bucket), nil, nil
	case "local":
		p := signer.NewLocalProvider(cfg.Server.BaseURL, cfg.Storage.SigningSecret)
		return p, p, nil
	default:
		return nil, nil, fmt.Errorf("未知的存储后端: %s", cfg.Storage.Backend)
	}
}

func registerRoutes(
	router *gin.Engine,
	linkHandler *handler.LinkHandler,
	authHandler *handler.AuthHandler,
	authMiddleware gin.HandlerFunc,
) {
	router.GET("/health", linkHandler.HealthCheck)
	router.GET("/link/:slug", linkHandler.Redirect)

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/token", authHandler.IssueToken)
	}

	api := router.Group("/api")
	api.Use(authMiddleware)
	{
		api.PUT("/links", linkHandler.UpsertLink)
		api.GET("/links/lookup", linkHandler.LookupLink)
		api.GET("/documents/:id/links", linkHandler.ListDocumentLinks)
		api.DELETE("/documents/:id/links", linkHandler.DeleteDocumentLinks)
		api.GET("/stats", linkHandler.GetStats)
	}
}
