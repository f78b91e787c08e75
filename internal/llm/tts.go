/**
* Name: 			tts.go
* Description: 		리포트 요약을 음성으로 변환
* Workflow: 		TTS 클라이언트 생성, 텍스트 전송, MP3 오디오 수신
 */

package llm

import (
	"context"
	"errors"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Narrator reads text aloud and returns MP3 audio.
type Narrator interface {
	Narrate(ctx context.Context, text string) ([]byte, error)
}

// TTS 연결 정보
type TTSClient struct {
	client       *texttospeech.Client
	languageCode string
}

// TTS 클라이언트 초기화
func NewTTSClient(ctx context.Context, credentialsFile, languageCode string) (*TTSClient, error) {
	if credentialsFile == "" {
		return nil, errors.New("NewTTSClient(): GOOGLE_APPLICATION_CREDENTIALS is not set")
	}
	client, err := texttospeech.NewClient(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, errors.New("NewTTSClient(): failed to create TTS client: " + err.Error())
	}
	if languageCode == "" {
		languageCode = "en-US"
	}
	return &TTSClient{client: client, languageCode: languageCode}, nil
}

// 텍스트를 MP3 오디오로 변환
func (t *TTSClient) Narrate(ctx context.Context, text string) ([]byte, error) {
	req := &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: t.languageCode,
			SsmlGender:   texttospeechpb.SsmlVoiceGender_NEUTRAL,
		},
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_MP3,
		},
	}

	resp, err := t.client.SynthesizeSpeech(ctx, req)
	if err != nil {
		zap.L().Error("Narrate(): SynthesizeSpeech failed", zap.Error(err))
		return nil, err
	}
	zap.L().Debug("Narrate(): SynthesizeSpeech succeeded", zap.Int("bytes", len(resp.AudioContent)))
	return resp.AudioContent, nil
}

// TTS 클라이언트 종료
func (t *TTSClient) Close() error {
	if t.client != nil {
		return t.client.Close()
	}
	return nil
}
