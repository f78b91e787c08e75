package handler

import (
	"errors"
	"net/http"
	"os"
	"strconv"

	"ChurnRadar_AnalyticsProject/internal/middleware"
	"ChurnRadar_AnalyticsProject/internal/models"
	"ChurnRadar_AnalyticsProject/internal/storage"
	"ChurnRadar_AnalyticsProject/internal/table"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 예측 기록 목록 응답 (Wrapper)
type HistoryResponse struct {
	History []models.PredictionSummary `json:"history"`
}

// ListPredictions godoc
// @Summary      사용자 예측 기록 조회
// @Description  사용자의 과거 업로드 예측 기록 요약을 최신순으로 반환합니다.
// @Tags         History
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "최대 개수 (기본값 20)"
// @Success      200 {object} handler.HistoryResponse "history: [기록 배열]"
// @Failure      401 {object} handler.ErrorResponse "인증 실패"
// @Failure      500 {object} handler.ErrorResponse "DB 조회 실패 등 서버 오류"
// @Router       /api/predictions [get]
func (h *Handler) ListPredictions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	history, err := storage.ListPredictions(c.Request.Context(), middleware.Username(c), limit)
	if err != nil {
		zap.L().Error("ListPredictions(): failed to fetch predictions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch predictions"})
		return
	}
	c.JSON(http.StatusOK, HistoryResponse{History: history})
}

// LatestPrediction godoc
// @Summary      최신 예측 조회
// @Description  사용자의 가장 최근 예측 결과 전체를 반환합니다.
// @Tags         History
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} models.PredictionPayload
// @Failure      401 {object} handler.ErrorResponse "인증 실패"
// @Failure      404 {object} handler.ErrorResponse "예측 기록 없음"
// @Router       /api/predictions/latest [get]
func (h *Handler) LatestPrediction(c *gin.Context) {
	p, err := storage.LatestPrediction(c.Request.Context(), middleware.Username(c))
	h.respondPrediction(c, p, err)
}

// GetPrediction godoc
// @Summary      예측 단건 조회
// @Tags         History
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "예측 ID"
// @Success      200 {object} models.PredictionPayload
// @Failure      404 {object} handler.ErrorResponse "예측 기록 없음"
// @Router       /api/predictions/{id} [get]
func (h *Handler) GetPrediction(c *gin.Context) {
	p, err := storage.PredictionByID(c.Request.Context(), middleware.Username(c), c.Param("id"))
	h.respondPrediction(c, p, err)
}

func (h *Handler) respondPrediction(c *gin.Context, p *models.PredictionPayload, err error) {
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No prediction found"})
			return
		}
		zap.L().Error("failed to load prediction", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load prediction"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// ExportPrediction godoc
// @Summary      예측 결과 파일 다운로드
// @Description  저장된 예측 결과를 CSV 또는 XLSX 파일로 내려받습니다.
// @Tags         History
// @Produce      text/csv
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security     BearerAuth
// @Param        id     path  string true  "예측 ID"
// @Param        format query string false "csv | xlsx (기본값 csv)"
// @Success      200 {file} file "결과 파일"
// @Failure      400 {object} handler.ErrorResponse "지원하지 않는 형식"
// @Failure      404 {object} handler.ErrorResponse "예측 기록 없음"
// @Router       /api/predictions/{id}/export [get]
func (h *Handler) ExportPrediction(c *gin.Context) {
	username := middleware.Username(c)
	id := c.Param("id")
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx"})
		return
	}

	p, err := storage.PredictionByID(c.Request.Context(), username, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No prediction found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load prediction"})
		return
	}

	if format == "xlsx" {
		c.Header("Content-Disposition", `attachment; filename="predictions.xlsx"`)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Status(http.StatusOK)
		if err := table.ExportXLSX(c.Writer, p.Headers(), p.Records); err != nil {
			zap.L().Error("ExportPrediction(): xlsx export failed", zap.Error(err))
		}
		return
	}

	// the annotated file written at upload time is served as-is when present
	if h.OutputDir != "" {
		path := h.outputPath(username, p.ID)
		if _, err := os.Stat(path); err == nil {
			c.FileAttachment(path, "predictions.csv")
			return
		}
	}
	c.Header("Content-Disposition", `attachment; filename="predictions.csv"`)
	c.Header("Content-Type", "text/csv")
	c.Status(http.StatusOK)
	if err := table.ExportCSV(c.Writer, p.Headers(), p.Records); err != nil {
		zap.L().Error("ExportPrediction(): csv export failed", zap.Error(err))
	}
}
