package handler

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const pumpBuffer = 16

type frame struct {
	messageType int
	data        []byte
}

// manageChatSession runs the read, answer and write loops of one socket
// until the client leaves or a write fails.
func (h *Handler) manageChatSession(parentCtx context.Context, conn *websocket.Conn, username string) {
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(3)

	clientChan := make(chan frame, pumpBuffer)
	serverChan := make(chan frame, pumpBuffer)

	// Client -> Server, 읽기 전담
	go func() {
		defer wg.Done()
		clientReadPump(ctx, conn, username, clientChan)
	}()

	// 질의 처리
	go func() {
		defer wg.Done()
		defer close(serverChan)
		h.orchestrateChatSession(ctx, username, clientChan, serverChan)
	}()

	// Server -> Client, 쓰기 전담
	go func() {
		defer wg.Done()
		defer cancel()
		// closing the socket unblocks the read pump
		defer conn.Close()
		clientWritePump(ctx, conn, username, serverChan)
	}()

	wg.Wait()
	zap.L().Info("chat session ended", zap.String("username", username))
}

func clientReadPump(ctx context.Context, conn *websocket.Conn, username string, clientChan chan<- frame) {
	defer close(clientChan)
	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				zap.L().Warn("clientReadPump(): read failed", zap.String("username", username), zap.Error(err))
			}
			return
		}
		if messageType != websocket.TextMessage && messageType != websocket.BinaryMessage {
			continue
		}
		select {
		case clientChan <- frame{messageType: messageType, data: message}:
		case <-ctx.Done():
			return
		}
	}
}

func clientWritePump(ctx context.Context, conn *websocket.Conn, username string, serverChan <-chan frame) {
	closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	for {
		select {
		case <-ctx.Done():
			conn.WriteMessage(websocket.CloseMessage, closeMsg)
			return

		case out, ok := <-serverChan:
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, closeMsg)
				return
			}
			if err := conn.WriteMessage(out.messageType, out.data); err != nil {
				zap.L().Warn("clientWritePump(): write failed", zap.String("username", username), zap.Error(err))
				return
			}
		}
	}
}
