/**
* Name: 			report_handler.go
* Description: 		텍스트, PDF, 음성 리포트 생성
 */
package handler

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"ChurnRadar_AnalyticsProject/internal/middleware"
	"ChurnRadar_AnalyticsProject/internal/models"
	"ChurnRadar_AnalyticsProject/internal/report"
	"ChurnRadar_AnalyticsProject/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const pdfFileName = "prediction_report.pdf"

type ReportResponse struct {
	Report string `json:"report"`
	HTML   string `json:"html,omitempty"`
}

// latestOrNil returns the user's latest prediction, or nil when there is none.
func latestOrNil(c *gin.Context, username string) (*models.PredictionPayload, error) {
	p, err := storage.LatestPrediction(c.Request.Context(), username)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	return p, err
}

// Report godoc
// @Summary      텍스트 리포트 (Report)
// @Description  이탈 예측 요약 리포트를 반환합니다. 최신 예측이 있으면 해당 지표가 포함됩니다.
// @Tags         Report
// @Produce      json
// @Security     BearerAuth
// @Param        format query string false "html 지정 시 HTML 렌더링 포함"
// @Success      200 {object} handler.ReportResponse
// @Failure      401 {object} handler.ErrorResponse "인증 실패"
// @Failure      500 {object} handler.ErrorResponse
// @Router       /report [get]
func (h *Handler) Report(c *gin.Context) {
	username := middleware.Username(c)
	latest, err := latestOrNil(c, username)
	if err != nil {
		zap.L().Error("Report(): failed to load latest prediction", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load prediction"})
		return
	}

	text := report.Text(username, h.Now(), latest)
	if c.Query("format") == "html" {
		h.Metrics.ReportsGenerated.WithLabelValues("html").Inc()
		c.JSON(http.StatusOK, ReportResponse{Report: text, HTML: report.HTML(text)})
		return
	}
	h.Metrics.ReportsGenerated.WithLabelValues("text").Inc()
	c.JSON(http.StatusOK, ReportResponse{Report: text})
}

// ReportPDF godoc
// @Summary      PDF 리포트 (Report PDF)
// @Description  예측 결과 전체(records 포함)를 보내면 PDF 리포트를 생성합니다.
// @Description  records 없이 file_name만 보내면 저장된 예측 중 해당 파일의 최신 결과를, 둘 다 없으면 최신 예측을 사용합니다.
// @Tags         Report
// @Accept       json
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        request body models.PredictionPayload true "예측 결과"
// @Success      200 {file} file "PDF 문서"
// @Failure      400 {object} handler.ErrorResponse "잘못된 요청 또는 예측 컬럼 누락"
// @Failure      404 {object} handler.ErrorResponse "저장된 예측 없음"
// @Failure      500 {object} handler.ErrorResponse
// @Router       /report/pdf [post]
func (h *Handler) ReportPDF(c *gin.Context) {
	ctx := c.Request.Context()
	username := middleware.Username(c)

	var payload models.PredictionPayload
	rawData, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}
	if len(bytes.TrimSpace(rawData)) > 0 {
		if err := json.Unmarshal(rawData, &payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "JSON parsing error: " + err.Error()})
			return
		}
	}

	p := &payload
	if len(payload.Records) == 0 {
		if payload.FileName != "" {
			p, err = storage.PredictionByFileName(ctx, username, payload.FileName)
		} else {
			p, err = storage.LatestPrediction(ctx, username)
		}
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "No stored prediction to report on"})
				return
			}
			zap.L().Error("ReportPDF(): failed to load prediction", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load prediction"})
			return
		}
	}

	key, err := cacheKey(p)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid prediction payload"})
		return
	}
	if cached, ok := h.pdfCache.Get(key); ok {
		h.Metrics.PDFCacheHits.Inc()
		sendPDF(c, cached.([]byte))
		return
	}

	var buf bytes.Buffer
	if err := report.PDF(&buf, p, h.Now()); err != nil {
		var missing *report.MissingColumnError
		if errors.Is(err, report.ErrNoRecords) || errors.As(err, &missing) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		zap.L().Error("ReportPDF(): failed to render pdf", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
		return
	}

	pdf := buf.Bytes()
	h.pdfCache.Set(key, pdf, cache.DefaultExpiration)
	h.Metrics.ReportsGenerated.WithLabelValues("pdf").Inc()
	sendPDF(c, pdf)
}

func sendPDF(c *gin.Context, pdf []byte) {
	c.Header("Content-Disposition", "attachment; filename="+pdfFileName)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// cacheKey hashes the parts of a payload that change the rendered PDF.
func cacheKey(p *models.PredictionPayload) (string, error) {
	body, err := json.Marshal(struct {
		Records          []models.Record `json:"records"`
		Columns          []string        `json:"columns"`
		PredictionColumn string          `json:"prediction_column"`
		ModelUsed        string          `json:"model_used"`
		FileName         string          `json:"file_name"`
	}{p.Records, p.Columns, p.PredictionColumn, p.ModelUsed, p.FileName})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:]), nil
}

// ReportAudio godoc
// @Summary      음성 리포트 (Report Audio)
// @Description  최신 예측 요약을 음성(MP3)으로 변환하여 반환합니다.
// @Tags         Report
// @Produce      audio/mpeg
// @Security     BearerAuth
// @Success      200 {file} file "MP3 오디오"
// @Failure      401 {object} handler.ErrorResponse "인증 실패"
// @Failure      503 {object} handler.ErrorResponse "TTS 미설정"
// @Router       /report/audio [get]
func (h *Handler) ReportAudio(c *gin.Context) {
	if h.Narrator == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Text-to-speech is not configured"})
		return
	}
	latest, err := latestOrNil(c, middleware.Username(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load prediction"})
		return
	}

	audio, err := h.Narrator.Narrate(c.Request.Context(), report.Narration(latest))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to synthesize audio"})
		return
	}
	h.Metrics.ReportsGenerated.WithLabelValues("audio").Inc()
	c.Data(http.StatusOK, "audio/mpeg", audio)
}
