package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cnb.cool/zhiqiangwang/pkg/logx"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eryajf/femcare/internal/apperr"
	"github.com/eryajf/femcare/internal/config"
	"github.com/eryajf/femcare/internal/llm"
	"github.com/eryajf/femcare/internal/memory"
	"github.com/eryajf/femcare/internal/middleware"
	"github.com/eryajf/femcare/internal/model"
	"github.com/eryajf/femcare/internal/subsync"
)

// HTTPGinServer 基于 Gin 的 HTTP 服务器
type HTTPGinServer struct {
	config *config.Config
	engine *gin.Engine
	server *http.Server

	aiHandler           *AIHandler
	authHandler         *AuthHandler
	subscriptionHandler *SubscriptionHandler
	historyHandler      *HistoryHandler
}

// NewHTTPGinServer 创建基于 Gin 的 HTTP 服务器
func NewHTTPGinServer(cfg *config.Config, db *gorm.DB, syncer *subsync.Syncer) *HTTPGinServer {
	// 设置 Gin 模式
	if cfg.Server.HTTP.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	llmClient := llm.NewClient(&llm.Config{
		Model:       cfg.LLM.Model,
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	})
	store := memory.NewStore(cfg.Cache)

	s := &HTTPGinServer{
		config:              cfg,
		engine:              gin.New(),
		aiHandler:           NewAIHandler(cfg, db, llmClient, store),
		authHandler:         NewAuthHandler(cfg, db),
		subscriptionHandler: NewSubscriptionHandler(db, syncer),
		historyHandler:      NewHistoryHandler(db, store),
	}

	// 注册中间件
	s.registerMiddlewares()

	// 注册路由
	s.registerRoutes()

	return s
}

// Engine 暴露底层引擎,供测试直接发请求
func (s *HTTPGinServer) Engine() *gin.Engine {
	return s.engine
}

// registerMiddlewares 注册中间件
func (s *HTTPGinServer) registerMiddlewares() {
	// 恢复中间件 - 从 panic 恢复
	s.engine.Use(gin.Recovery())

	// 自定义日志中间件
	s.engine.Use(s.loggingMiddleware())

	// CORS 中间件(如果需要)
	s.engine.Use(s.corsMiddleware())
}

// loggingMiddleware 自定义日志中间件,每个请求分配一个请求 ID
func (s *HTTPGinServer) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method
		requestID := uuid.NewString()
		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-Id", requestID)

		logx.Info("HTTP request, id %s, method %s, path %s, remote_addr %s", requestID, method, path, c.ClientIP())

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		logx.Info("HTTP response, id %s, method %s, path %s, status %d, duration %s",
			requestID, method, path, status, duration)
	}
}

// corsMiddleware CORS 中间件
func (s *HTTPGinServer) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// registerRoutes 注册路由
func (s *HTTPGinServer) registerRoutes() {
	jwtCfg := middleware.JWTConfig{
		Secret:    s.config.Auth.JWTSecret,
		ExpireHrs: s.config.Auth.ExpireHrs,
	}

	// API v1 路由组
	v1 := s.engine.Group("/api/v1")
	{
		// 健康检查
		v1.GET("/health", s.handleHealth)

		// 登录不要求认证
		v1.POST("/auth/login", s.authHandler.Login)

		// 受保护路由:认证失败时在任何业务逻辑之前拒绝
		authed := v1.Group("", middleware.JWTAuth(jwtCfg))
		{
			authed.GET("/auth/userinfo", s.authHandler.GetUserInfo)

			// AI 入口
			ai := authed.Group("/ai")
			{
				ai.POST("/response", s.aiHandler.GenerateResponse)
				ai.POST("/content", s.aiHandler.GenerateContent)
				ai.POST("/ingredient", s.aiHandler.AnalyzeIngredient)
				ai.POST("/skin-analysis", s.aiHandler.AnalyzeSkinImage)
			}

			// 订阅写入口,变更后由同步器维护用户镜像
			subs := authed.Group("/subscriptions")
			{
				subs.GET("/:user_id", s.subscriptionHandler.Get)
				subs.PUT("/:user_id", s.subscriptionHandler.Upsert)
				subs.DELETE("/:user_id", s.subscriptionHandler.Delete)
			}

			// 会话历史
			authed.GET("/conversations", s.historyHandler.ListConversations)
			authed.GET("/conversations/:id/messages", s.historyHandler.GetMessages)
			authed.DELETE("/conversations/:id", s.historyHandler.DeleteConversation)
			authed.GET("/chat-logs", s.historyHandler.ListChatLogs)
		}
	}
}

// Start 启动 HTTP 服务器
func (s *HTTPGinServer) Start() error {
	addr := fmt.Sprintf("0.0.0.0:%d", s.config.Server.HTTP.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	logx.Info("🛜 Starting HTTP Server (Gin), Addr %s", addr)
	return s.server.ListenAndServe()
}

// Stop 停止 HTTP 服务器
func (s *HTTPGinServer) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// success 返回成功响应
func success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, model.Response{
		Code:    200,
		Message: "Success",
		Data:    data,
	})
}

// fail 返回业务错误响应,HTTP 状态码由错误类别映射得到
func fail(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	c.JSON(status, model.Response{
		Code:    status,
		Message: err.Error(),
	})
}

// ==================== 健康检查 ====================

func (s *HTTPGinServer) handleHealth(c *gin.Context) {
	success(c, gin.H{
		"status": "healthy",
	})
}
