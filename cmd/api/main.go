package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "ChurnRadar_AnalyticsProject/docs"
	"ChurnRadar_AnalyticsProject/internal/auth"
	"ChurnRadar_AnalyticsProject/internal/config"
	"ChurnRadar_AnalyticsProject/internal/handler"
	"ChurnRadar_AnalyticsProject/internal/llm"
	"ChurnRadar_AnalyticsProject/internal/logger"
	"ChurnRadar_AnalyticsProject/internal/metrics"
	"ChurnRadar_AnalyticsProject/internal/predictor"
	"ChurnRadar_AnalyticsProject/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @title           ChurnRadar API
// @version         1.0
// @description     고객 이탈 예측, 리포트, 챗봇 API
// @host            localhost:8000
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
// @description     "Bearer " 뒤에 JWT 토큰을 입력하세요.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	key, fallback := cfg.JWTSecret()
	if fallback {
		log.Warn("JWT_SECRET_KEY is not set, using the built-in development key")
	}
	auth.Init(key, cfg.TokenTTL)

	if err := storage.InitDB(cfg.DatabaseDriver, cfg.DatabaseDSN); err != nil {
		log.Fatal("database init failed", zap.Error(err))
	}
	defer storage.CloseDB()

	ctx := context.Background()
	deps := handler.Deps{
		Metrics:        metrics.New(),
		UploadDir:      cfg.UploadDir,
		OutputDir:      cfg.OutputDir,
		MaxUploadBytes: cfg.MaxUploadBytes,
		ReportCacheTTL: cfg.ReportCacheTTL,
	}

	if cfg.ModelServerURL != "" {
		deps.Predictor = predictor.NewHTTPPredictor(cfg.ModelServerURL, cfg.ModelBatchSize, cfg.ModelConcurrency, cfg.ModelTimeout)
		log.Info("using model server", zap.String("url", cfg.ModelServerURL))
	} else {
		deps.Predictor = predictor.BaselinePredictor{}
		log.Warn("MODEL_SERVER_URL is not set, using the built-in baseline scorer")
	}

	if gemini, err := llm.NewGeminiClient(ctx, cfg.GoogleAPIKey, cfg.GeminiModel); err != nil {
		log.Warn("Gemini chat disabled, answering offline", zap.Error(err))
		deps.ChatClient = llm.OfflineChat{}
	} else {
		deps.ChatClient = gemini
	}

	if stt, err := llm.NewSpeechClient(ctx, cfg.GoogleCredentials, cfg.SpeechLanguageCode); err != nil {
		log.Warn("voice chat disabled", zap.Error(err))
	} else {
		defer stt.Close()
		deps.Transcriber = stt
	}
	if tts, err := llm.NewTTSClient(ctx, cfg.GoogleCredentials, cfg.SpeechLanguageCode); err != nil {
		log.Warn("audio reports disabled", zap.Error(err))
	} else {
		defer tts.Close()
		deps.Narrator = tts
	}

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := handler.NewRouter(handler.New(deps), handler.RouterConfig{
		AllowedOrigins:     cfg.AllowedOrigins,
		InviteCode:         cfg.InviteCode,
		LoginRatePerMinute: cfg.LoginRatePerMinute,
		ChatRatePerMinute:  cfg.ChatRatePerMinute,
		Logger:             log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
