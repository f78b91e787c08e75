package handler

import (
	"net/http"

	"ChurnRadar_AnalyticsProject/internal/logger"
	"ChurnRadar_AnalyticsProject/internal/middleware"
	"ChurnRadar_AnalyticsProject/internal/storage"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type RouterConfig struct {
	AllowedOrigins     []string
	InviteCode         string
	LoginRatePerMinute int
	ChatRatePerMinute  int
	Logger             *zap.Logger
}

// NewRouter mounts every route on a fresh gin engine.
func NewRouter(h *Handler, rc RouterConfig) *gin.Engine {
	log := rc.Logger
	if log == nil {
		log = zap.L()
	}

	router := gin.New()
	router.Use(gin.Recovery(), logger.GinLogger(log), h.Metrics.Middleware())

	config := cors.DefaultConfig()
	if len(rc.AllowedOrigins) > 0 {
		config.AllowOrigins = rc.AllowedOrigins
		config.AllowCredentials = true
	} else {
		config.AllowAllOrigins = true
	}
	config.AllowHeaders = append(config.AllowHeaders, "Authorization", "X-Invite-Code")
	router.Use(cors.New(config))

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", middleware.InviteCodeMiddleware(rc.InviteCode), h.Register)
		authGroup.POST("/login", middleware.RateLimit(rc.LoginRatePerMinute), h.Login)
	}

	protected := router.Group("/", middleware.AuthMiddleware())
	{
		protected.POST("/csv", h.UploadCSV)
		protected.GET("/report", h.Report)
		protected.POST("/report/pdf", h.ReportPDF)
		protected.GET("/report/audio", h.ReportAudio)

		chatLimit := middleware.RateLimit(rc.ChatRatePerMinute)
		protected.POST("/chat", chatLimit, h.Chat)
		protected.POST("/chat/voice", chatLimit, h.ChatVoice)
		protected.GET("/chat/history", h.ChatHistory)

		protected.GET("/api/profile", h.Profile)
		protected.GET("/api/predictions", h.ListPredictions)
		protected.GET("/api/predictions/latest", h.LatestPrediction)
		protected.GET("/api/predictions/:id", h.GetPrediction)
		protected.GET("/api/predictions/:id/export", h.ExportPrediction)
	}

	router.GET("/ws/chat", middleware.QueryTokenMiddleware(), h.ChatSocket)

	router.GET("/metrics", gin.WrapH(h.Metrics.Handler()))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/healthz", func(c *gin.Context) {
		if err := storage.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return router
}
