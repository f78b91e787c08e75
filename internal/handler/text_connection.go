package handler

import (
	"context"
	"encoding/json"

	"ChurnRadar_AnalyticsProject/internal/storage"

	"github.com/gorilla/websocket"
)

// orchestrateChatSession answers each client frame in order. Text frames get
// a text reply; binary frames are treated as speech and get a JSON reply.
func (h *Handler) orchestrateChatSession(ctx context.Context, username string, clientChan <-chan frame, serverChan chan<- frame) {
	for in := range clientChan {
		var out frame
		switch in.messageType {
		case websocket.TextMessage:
			out = h.textReply(ctx, username, string(in.data))
		case websocket.BinaryMessage:
			out = h.voiceReply(ctx, username, in.data)
		}

		select {
		case serverChan <- out:
		case <-ctx.Done():
			return
		}
	}
}

func (h *Handler) textReply(ctx context.Context, username, message string) frame {
	reply, err := h.answer(ctx, username, storage.ChannelWebSocket, message)
	if err != nil {
		return jsonFrame(ErrorResponse{Error: err.Error()})
	}
	return frame{messageType: websocket.TextMessage, data: []byte(reply)}
}

func (h *Handler) voiceReply(ctx context.Context, username string, audio []byte) frame {
	resp, err := h.answerVoice(ctx, username, storage.ChannelWebSocket, audio)
	if err != nil {
		return jsonFrame(ErrorResponse{Error: err.Error()})
	}
	return jsonFrame(resp)
}

func jsonFrame(v any) frame {
	data, _ := json.Marshal(v)
	return frame{messageType: websocket.TextMessage, data: data}
}
