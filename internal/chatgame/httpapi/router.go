package httpapi

import (
	"log/slog"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

const healthPath = "/api/health"

// RouterConfig: 라우터 미들웨어 설정
type RouterConfig struct {
	AllowedOrigins []string
	LogLevel       string
}

// NewRouter: gin 엔진을 구성하고 모든 라우트를 등록한다.
func NewRouter(cfg RouterConfig, h *Handler, logger *slog.Logger) *gin.Engine {
	setGinMode(cfg.LogLevel)

	router := gin.New()
	router.Use(
		RequestID(),
		RequestLogger(logger),
		gin.Recovery(),
		cors.New(newCORSConfig(cfg.AllowedOrigins)),
		newGzipMiddleware(),
	)

	api := router.Group("/api")
	api.GET("/health", h.handleHealth)
	api.GET("/games", h.handleGames)
	api.POST("/start", h.handleStart)
	api.POST("/ask", h.handleAsk)
	api.POST("/end", h.handleEnd)

	api.POST("/admin/login", h.handleLogin)
	admin := api.Group("/admin", h.requireAdmin())
	admin.GET("/items", h.handleListItems)
	admin.POST("/items", h.handleCreateItem)
	admin.PUT("/items/:id", h.handleUpdateItem)
	admin.DELETE("/items/:id", h.handleDeleteItem)
	admin.GET("/prompt/:id", h.handleGetPrompt)
	admin.POST("/prompt/:id", h.handleSavePrompt)
	admin.GET("/sessions", h.handleListSessions)
	admin.DELETE("/sessions/:id", h.handleRemoveSession)
	admin.GET("/results", h.handleResults)
	admin.GET("/debug", h.handleDebug)

	return router
}

func newCORSConfig(origins []string) cors.Config {
	corsConfig := cors.DefaultConfig()
	if len(origins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	return corsConfig
}

// newGzipMiddleware: health 응답은 작아서 압축하지 않는다.
func newGzipMiddleware() gin.HandlerFunc {
	return gzip.Gzip(gzip.DefaultCompression, gzip.WithCustomShouldCompressFn(func(c *gin.Context) bool {
		return c.Request.URL.Path != healthPath
	}))
}

func setGinMode(level string) {
	if strings.EqualFold(strings.TrimSpace(level), "debug") {
		gin.SetMode(gin.DebugMode)
		return
	}
	gin.SetMode(gin.ReleaseMode)
}
