package llm

import (
	"context"
	"testing"

	"ChurnRadar_AnalyticsProject/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func latest() *models.PredictionPayload {
	return &models.PredictionPayload{
		FileName:          "customers.csv",
		ModelUsed:         "catboost_model.cbm",
		PredictionColumn:  "Predicted_Target",
		ClassDistribution: models.Distribution{"1": 1, "0": 3},
	}
}

func TestBuildPrompt(t *testing.T) {
	assert.Equal(t, "hello", BuildPrompt("hello", nil))

	prompt := BuildPrompt("why?", latest())
	assert.Contains(t, prompt, "Context: ")
	assert.Contains(t, prompt, `"customers.csv"`)
	assert.Contains(t, prompt, "1 predicted to churn (25.0%)")
	assert.Contains(t, prompt, "\n\nwhy?")
}

func TestOfflineChat(t *testing.T) {
	ctx := context.Background()
	var chat ChatClient = OfflineChat{}

	reply, err := chat.Reply(ctx, "hello")
	require.NoError(t, err)
	assert.Contains(t, reply, "Upload a customer CSV")

	reply, err = chat.Reply(ctx, BuildPrompt("How do I reduce churn?", latest()))
	require.NoError(t, err)
	assert.Contains(t, reply, "25.0%")
	assert.Contains(t, reply, "high-risk customers")

	reply, err = chat.Reply(ctx, BuildPrompt("hi", latest()))
	require.NoError(t, err)
	assert.Contains(t, reply, "Ask me how to reduce churn")
}

func TestNewGeminiClientRequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), "", "")
	assert.Error(t, err)
}
