package handler

import (
	"net/http"

	"ChurnRadar_AnalyticsProject/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Upgrade HTTP connection to WebSocket
var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// origin is enforced by CORS on the HTTP routes; the token query carries auth
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ChatSocket godoc
// @Summary      챗봇 WebSocket 연결
// @Description  실시간 챗봇 대화를 위한 WebSocket 연결을 시작합니다.
// @Description  <br>
// @Description  **참고: 이것은 표준 HTTP API가 아닙니다.**
// @Description  클라이언트는 `ws://` 또는 `wss://` 스킴을 사용하여 이 엔드포인트에 연결해야 합니다.
// @Description  인증은 HTTP Header가 아닌 **쿼리 파라미터('token')**를 통해 수행됩니다.
// @Description  텍스트 프레임은 텍스트 답변으로, 바이너리(LINEAR16 16kHz) 프레임은 `{transcript, response}` JSON으로 응답합니다.
// @Tags         WebSocket (Chat)
// @Param        token query string true "로그인 시 발급받은 JWT 토큰"
// @Success      101 {string} string "101 Switching Protocols (WebSocket으로 프로토콜 전환 성공)"
// @Failure      401 {object} handler.ErrorResponse "토큰 누락 또는 유효하지 않은 토큰"
// @Router       /ws/chat [get]
func (h *Handler) ChatSocket(c *gin.Context) {
	username := middleware.Username(c)

	// WebSocket 연결 업그레이드
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Warn("ChatSocket(): failed to upgrade to WebSocket", zap.String("username", username), zap.Error(err))
		return
	}
	zap.L().Info("WebSocket connection established", zap.String("username", username))

	h.manageChatSession(c.Request.Context(), conn, username)
}
