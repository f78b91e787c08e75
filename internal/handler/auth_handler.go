/**
* Name: 			auth_handler.go
* Description: 		회원가입, 로그인 HTTP 핸들러
 */
package handler

import (
	"errors"
	"net/http"
	"strings"

	"ChurnRadar_AnalyticsProject/internal/auth"
	"ChurnRadar_AnalyticsProject/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Register godoc
// @Summary      회원가입 (Register)
// @Description  새로운 사용자 계정을 생성합니다. 파라미터는 쿼리 문자열로 전달합니다.
// @Tags         Auth
// @Produce      json
// @Param        username query string true "사용자명"
// @Param        email    query string true "이메일"
// @Param        password query string true "비밀번호"
// @Param        X-Invite-Code header string false "초대 코드 (서버 설정 시 필수)"
// @Success      200 {object} handler.MessageResponse
// @Failure      400 {object} handler.ErrorResponse "빈 값 또는 중복 사용자"
// @Failure      403 {object} handler.ErrorResponse "초대 코드 불일치"
// @Failure      500 {object} handler.ErrorResponse
// @Router       /auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	username := c.Query("username")
	email := c.Query("email")
	password := c.Query("password")

	// " "으로 입력되는 케이스 방지
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username, email and password are required"})
		return
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}

	if _, err := storage.CreateUser(c.Request.Context(), username, email, hashed); err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username or email already registered"})
			return
		}
		zap.L().Error("Register(): failed to create user", zap.String("username", username), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user (database error)"})
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Msg: "User registered successfully"})
}

// Login godoc
// @Summary      로그인 (Login)
// @Description  폼 데이터(username, password)로 로그인하고 bearer 토큰을 발급받습니다.
// @Tags         Auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username formData string true "사용자명"
// @Param        password formData string true "비밀번호"
// @Success      200 {object} handler.TokenResponse
// @Failure      401 {object} handler.ErrorResponse "인증 실패 (자격 증명 오류)"
// @Failure      429 {object} handler.ErrorResponse "요청 과다"
// @Failure      500 {object} handler.ErrorResponse "서버 내부 오류"
// @Router       /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	if username == "" || password == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	user, err := storage.GetUserByUsername(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}
		zap.L().Error("Login(): GetUserByUsername failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if !auth.VerifyPassword(user.PasswordHash, password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
		return
	}

	tokenString, err := auth.GenerateToken(user.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{AccessToken: tokenString, TokenType: "bearer"})
}
