/**
* Name: 			predict_handler.go
* Description: 		고객 파일 업로드 및 이탈 예측
* Workflow: 		파일 수신, 파싱, 모델 예측, 결과 저장 및 반환
 */
package handler

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"ChurnRadar_AnalyticsProject/internal/churn"
	"ChurnRadar_AnalyticsProject/internal/dataset"
	"ChurnRadar_AnalyticsProject/internal/middleware"
	"ChurnRadar_AnalyticsProject/internal/models"
	"ChurnRadar_AnalyticsProject/internal/predictor"
	"ChurnRadar_AnalyticsProject/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UploadCSV godoc
// @Summary      고객 파일 예측 (Predict)
// @Description  CSV 또는 XLSX 고객 파일을 업로드하면 이탈 예측 결과를 반환하고 최신 예측으로 저장합니다.
// @Tags         Prediction
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file         formData file   true  "고객 데이터 파일 (.csv, .xlsx)"
// @Param        model_choice formData string false "General | Life_Insurance | Automobile_Insurance (기본값 General)"
// @Success      200 {object} models.PredictionPayload
// @Failure      400 {object} handler.ErrorResponse "파일 누락, 형식 오류, 잘못된 모델"
// @Failure      401 {object} handler.ErrorResponse "인증 실패"
// @Failure      413 {object} handler.ErrorResponse "파일 크기 초과"
// @Failure      500 {object} handler.MissingColumnResponse "예측 컬럼 누락 또는 모델 오류"
// @Router       /csv [post]
func (h *Handler) UploadCSV(c *gin.Context) {
	ctx := c.Request.Context()
	username := middleware.Username(c)
	if c.Request.ContentLength > h.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Uploaded file is too large"})
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Uploaded file is too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	choice, err := predictor.ParseModelChoice(c.PostForm("model_choice"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	model, _ := choice.ModelFile()

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return
	}

	fileName := filepath.Base(fileHeader.Filename)
	h.saveUpload(username, fileName, data)

	tbl, err := dataset.Read(fileName, bytes.NewReader(data))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payload, err := predictor.Run(ctx, h.Predictor, predictor.Request{
		Username: username,
		FileName: fileName,
		Choice:   choice,
		Table:    tbl,
	}, h.Now())
	if err != nil {
		h.Metrics.RecordPredictionFailure(model)
		var missing *predictor.MissingColumnError
		switch {
		case errors.Is(err, predictor.ErrNoRows):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.As(err, &missing):
			c.JSON(http.StatusInternalServerError, MissingColumnResponse{Error: missing.Error(), Detail: missing})
		default:
			zap.L().Error("UploadCSV(): prediction failed", zap.String("username", username), zap.String("model", model), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Prediction failed: " + err.Error()})
		}
		return
	}

	if err := storage.SavePrediction(ctx, payload); err != nil {
		// the caller still gets its result; only the server-side copy is lost
		zap.L().Error("UploadCSV(): failed to store prediction", zap.String("username", username), zap.Error(err))
	}
	h.saveOutput(username, payload)

	m := churn.ForPayload(payload)
	h.Metrics.RecordPrediction(model, m.Total, m.ChurnRate)
	zap.L().Info("prediction completed",
		zap.String("username", username),
		zap.String("file", fileName),
		zap.String("model", model),
		zap.Int("records", m.Total),
		zap.Float64("churn_rate", m.ChurnRate))

	c.JSON(http.StatusOK, payload)
}

// userDir maps a username to a single safe path element.
func userDir(username string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.', r == '@':
			return r
		default:
			return '_'
		}
	}, username)
	if name == "" || name == "." || name == ".." {
		return "_"
	}
	return name
}

// 업로드 원본 보관
func (h *Handler) saveUpload(username, fileName string, data []byte) {
	if h.UploadDir == "" {
		return
	}
	dir := filepath.Join(h.UploadDir, userDir(username))
	if err := os.MkdirAll(dir, 0755); err != nil {
		zap.L().Warn("saveUpload(): failed to create upload dir", zap.Error(err))
		return
	}
	path := filepath.Join(dir, uuid.NewString()+"_"+fileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		zap.L().Warn("saveUpload(): failed to store upload", zap.String("path", path), zap.Error(err))
	}
}

func (h *Handler) outputPath(username, id string) string {
	return filepath.Join(h.OutputDir, userDir(username), filepath.Base(id)+".csv")
}

// 예측 결과 CSV 저장
func (h *Handler) saveOutput(username string, p *models.PredictionPayload) {
	if h.OutputDir == "" || p.ID == "" {
		return
	}
	if err := dataset.WriteCSV(h.outputPath(username, p.ID), p.Headers(), p.Records); err != nil {
		zap.L().Warn("saveOutput(): failed to write output csv", zap.Error(err))
	}
}
