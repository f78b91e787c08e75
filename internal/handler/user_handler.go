/**
* Name: 			user_handler.go
* Description: 		인증된 사용자 프로필 조회
 */
package handler

import (
	"errors"
	"net/http"

	"ChurnRadar_AnalyticsProject/internal/middleware"
	"ChurnRadar_AnalyticsProject/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 프로필 조회 응답
type ProfileResponse struct {
	Username string `json:"username" example:"gildong"`
	Email    string `json:"email" example:"gildong@example.com"`
	Uploads  int    `json:"uploads" example:"3"`
}

// Profile godoc
// @Summary      프로필 조회 (Profile)
// @Description  인증된 사용자의 프로필과 저장된 예측 수를 조회합니다. (JWT 필요)
// @Tags         API (Protected)
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} handler.ProfileResponse
// @Failure      401 {object} handler.ErrorResponse "인증 토큰 누락 또는 만료"
// @Failure      404 {object} handler.ErrorResponse "사용자 없음"
// @Router       /api/profile [get]
func (h *Handler) Profile(c *gin.Context) {
	ctx := c.Request.Context()
	username := middleware.Username(c)

	user, err := storage.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		zap.L().Error("Profile(): GetUserByUsername failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	uploads, err := storage.ListPredictions(ctx, username, 1000)
	if err != nil {
		zap.L().Error("Profile(): ListPredictions failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{Username: user.Username, Email: user.Email, Uploads: len(uploads)})
}
