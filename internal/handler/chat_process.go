/**
* Name: 			chat_process.go
* Description: 		챗봇 질의 처리 (텍스트, 음성 공통)
* Workflow: 		최신 예측 조회, 프롬프트 구성, LLM 응답, 대화 기록 저장
 */
package handler

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"

	"ChurnRadar_AnalyticsProject/internal/llm"
	"ChurnRadar_AnalyticsProject/internal/storage"

	"go.uber.org/zap"
)

// ErrVoiceUnavailable is returned when no transcriber is configured.
var ErrVoiceUnavailable = errors.New("speech-to-text is not configured")

type VoiceChatResponse struct {
	Transcript string `json:"transcript"`
	Response   string `json:"response"`
}

// answer asks the chat client about message with the user's latest
// prediction as context, and records the exchange.
func (h *Handler) answer(ctx context.Context, username, channel, message string) (string, error) {
	latest, err := storage.LatestPrediction(ctx, username)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			zap.L().Warn("answer(): failed to load latest prediction", zap.String("username", username), zap.Error(err))
		}
		latest = nil
	}

	reply, err := h.ChatClient.Reply(ctx, llm.BuildPrompt(message, latest))
	h.Metrics.RecordChat(channel, err)
	if err != nil {
		zap.L().Error("answer(): chat failed", zap.String("username", username), zap.String("channel", channel), zap.Error(err))
		return "", err
	}

	if err := storage.SaveChatMessage(ctx, username, channel, message, reply); err != nil {
		zap.L().Warn("answer(): failed to record chat", zap.Error(err))
	}
	return reply, nil
}

// answerVoice transcribes 16 kHz LINEAR16 audio and answers the transcript.
func (h *Handler) answerVoice(ctx context.Context, username, channel string, audio []byte) (VoiceChatResponse, error) {
	if h.Transcriber == nil {
		return VoiceChatResponse{}, ErrVoiceUnavailable
	}
	transcript, err := h.Transcriber.Transcribe(ctx, pcmFromWAV(audio))
	if err != nil {
		return VoiceChatResponse{}, err
	}
	reply, err := h.answer(ctx, username, channel, transcript)
	if err != nil {
		return VoiceChatResponse{Transcript: transcript}, err
	}
	return VoiceChatResponse{Transcript: transcript, Response: reply}, nil
}

// pcmFromWAV returns the samples of a RIFF/WAVE file, or data unchanged when
// it is not one.
func pcmFromWAV(data []byte) []byte {
	if len(data) < 12 || !bytes.Equal(data[0:4], []byte("RIFF")) || !bytes.Equal(data[8:12], []byte("WAVE")) {
		return data
	}
	for off := 12; off+8 <= len(data); {
		id := data[off : off+4]
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if bytes.Equal(id, []byte("data")) {
			end := body + size
			if end > len(data) {
				end = len(data)
			}
			return data[body:end]
		}
		// chunks are padded to an even size
		off = body + size + size%2
	}
	return data
}
