/**
* Name: 			chat_handler.go
* Description: 		챗봇 HTTP 핸들러 (텍스트, 음성, 기록)
 */
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"ChurnRadar_AnalyticsProject/internal/llm"
	"ChurnRadar_AnalyticsProject/internal/middleware"
	"ChurnRadar_AnalyticsProject/internal/models"
	"ChurnRadar_AnalyticsProject/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// /chat 요청 바디
type ChatRequest struct {
	Message string `json:"message" example:"How can I reduce churn?"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

type ChatHistoryResponse struct {
	History []models.ChatMessage `json:"history"`
}

// Chat godoc
// @Summary      챗봇 질의 (Chat)
// @Description  질문을 보내면 최신 예측 결과를 참고한 답변을 반환합니다.
// @Tags         Chat
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body handler.ChatRequest true "질문"
// @Success      200 {object} handler.ChatResponse
// @Failure      400 {object} handler.ErrorResponse "빈 메시지"
// @Failure      429 {object} handler.ErrorResponse "요청 과다"
// @Failure      500 {object} handler.ErrorResponse "LLM 오류"
// @Router       /chat [post]
func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	rawData, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}
	if err := json.Unmarshal(rawData, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "JSON parsing error: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message cannot be empty"})
		return
	}

	reply, err := h.answer(c.Request.Context(), middleware.Username(c), storage.ChannelText, req.Message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ChatResponse{Response: reply})
}

// ChatVoice godoc
// @Summary      음성 챗봇 질의 (Voice Chat)
// @Description  16kHz 모노 LINEAR16(PCM 또는 WAV) 음성 질문을 텍스트로 변환한 뒤 답변합니다.
// @Tags         Chat
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        audio formData file true "음성 파일"
// @Success      200 {object} handler.VoiceChatResponse
// @Failure      400 {object} handler.ErrorResponse "오디오 누락 또는 음성 인식 실패"
// @Failure      503 {object} handler.ErrorResponse "STT 미설정"
// @Router       /chat/voice [post]
func (h *Handler) ChatVoice(c *gin.Context) {
	if h.Transcriber == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": ErrVoiceUnavailable.Error()})
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio is required"})
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read audio"})
		return
	}
	defer f.Close()
	audio, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read audio"})
		return
	}

	resp, err := h.answerVoice(c.Request.Context(), middleware.Username(c), storage.ChannelVoice, audio)
	if err != nil {
		if errors.Is(err, llm.ErrNoSpeech) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		zap.L().Error("ChatVoice(): failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ChatHistory godoc
// @Summary      챗봇 대화 기록 조회
// @Tags         Chat
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "최대 개수 (기본값 20)"
// @Success      200 {object} handler.ChatHistoryResponse
// @Failure      500 {object} handler.ErrorResponse
// @Router       /chat/history [get]
func (h *Handler) ChatHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	history, err := storage.ListChatMessages(c.Request.Context(), middleware.Username(c), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch chat history"})
		return
	}
	c.JSON(http.StatusOK, ChatHistoryResponse{History: history})
}
