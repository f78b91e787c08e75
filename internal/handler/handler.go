/**
* Name: 			handler.go
* Description: 		HTTP 핸들러 공통 의존성 및 응답 타입
 */
package handler

import (
	"time"

	"ChurnRadar_AnalyticsProject/internal/llm"
	"ChurnRadar_AnalyticsProject/internal/metrics"
	"ChurnRadar_AnalyticsProject/internal/predictor"

	"github.com/patrickmn/go-cache"
)

// Deps wires the handlers to their collaborators. Transcriber and Narrator
// may be nil when speech is not configured.
type Deps struct {
	Predictor   predictor.Predictor
	ChatClient  llm.ChatClient
	Transcriber llm.Transcriber
	Narrator    llm.Narrator
	Metrics     *metrics.Metrics

	UploadDir      string
	OutputDir      string
	MaxUploadBytes int64
	ReportCacheTTL time.Duration

	Now func() time.Time
}

type Handler struct {
	Deps
	pdfCache *cache.Cache
}

func New(d Deps) *Handler {
	if d.ChatClient == nil {
		d.ChatClient = llm.OfflineChat{}
	}
	if d.Predictor == nil {
		d.Predictor = predictor.BaselinePredictor{}
	}
	if d.Metrics == nil {
		d.Metrics = metrics.New()
	}
	if d.MaxUploadBytes <= 0 {
		d.MaxUploadBytes = 32 << 20
	}
	if d.ReportCacheTTL <= 0 {
		d.ReportCacheTTL = 10 * time.Minute
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Handler{
		Deps:     d,
		pdfCache: cache.New(d.ReportCacheTTL, 2*d.ReportCacheTTL),
	}
}

type ErrorResponse struct {
	Error string `json:"error" example:"에러 원인 및 설명"`
}

type MessageResponse struct {
	Msg string `json:"msg" example:"User registered successfully"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	TokenType   string `json:"token_type" example:"bearer"`
}

// 예측 컬럼 누락 응답
type MissingColumnResponse struct {
	Error  string                        `json:"error" example:"Prediction column not found in output CSV."`
	Detail *predictor.MissingColumnError `json:"detail"`
}
