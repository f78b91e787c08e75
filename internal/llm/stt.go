/**
* Name: 			stt.go
* Description: 		음성 질문을 텍스트로 변환
* Workflow: 		Speech 클라이언트 생성, 오디오 전송, 최종 텍스트 수신
 */

package llm

import (
	"context"
	"errors"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	speechpb "cloud.google.com/go/speech/apiv1/speechpb"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Transcriber turns recorded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// ErrNoSpeech is returned when the audio holds no recognizable speech.
var ErrNoSpeech = errors.New("no speech recognized")

// SpeechClient transcribes 16 kHz mono LINEAR16 audio.
type SpeechClient struct {
	client       *speech.Client
	languageCode string
}

// STT 클라이언트 초기화
func NewSpeechClient(ctx context.Context, credentialsFile, languageCode string) (*SpeechClient, error) {
	if credentialsFile == "" {
		return nil, errors.New("NewSpeechClient(): GOOGLE_APPLICATION_CREDENTIALS is not set")
	}
	client, err := speech.NewClient(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		zap.L().Error("NewSpeechClient(): failed to create speech client", zap.Error(err))
		return nil, err
	}
	if languageCode == "" {
		languageCode = "en-US"
	}
	return &SpeechClient{client: client, languageCode: languageCode}, nil
}

func (s *SpeechClient) Transcribe(ctx context.Context, audio []byte) (string, error) {
	resp, err := s.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:          speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:   16000,
			AudioChannelCount: 1,
			LanguageCode:      s.languageCode,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	})
	if err != nil {
		zap.L().Error("Transcribe(): recognize failed", zap.Error(err))
		return "", err
	}

	var parts []string
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			parts = append(parts, result.Alternatives[0].Transcript)
		}
	}
	text := strings.TrimSpace(strings.Join(parts, " "))
	if text == "" {
		return "", ErrNoSpeech
	}
	zap.L().Debug("Transcribe(): final result", zap.String("text", text))
	return text, nil
}

// STT 클라이언트 종료
func (s *SpeechClient) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
