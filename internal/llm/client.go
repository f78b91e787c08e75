package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ChurnRadar_AnalyticsProject/internal/churn"
	"ChurnRadar_AnalyticsProject/internal/models"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-1.5-flash"

// ChatClient answers one prompt.
type ChatClient interface {
	Reply(ctx context.Context, prompt string) (string, error)
}

// GeminiClient sends prompts to the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("NewGeminiClient(): GOOGLE_API_KEY is not set")
	}
	if model == "" {
		model = DefaultModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("NewGeminiClient(): failed to create client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (g *GeminiClient) Reply(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		zap.L().Error("gemini request failed", zap.String("model", g.model), zap.Error(err))
		return "", err
	}
	text := resp.Text()
	if text == "" {
		return "", errors.New("gemini returned an empty response")
	}
	return text, nil
}

// OfflineChat answers without a language model, from the churn context line
// that BuildPrompt puts in front of the question.
type OfflineChat struct{}

func (OfflineChat) Reply(_ context.Context, prompt string) (string, error) {
	ctxLine, question := splitPrompt(prompt)
	q := strings.ToLower(question)

	if ctxLine == "" {
		return "I don't have any predictions for you yet. Upload a customer CSV and I can talk through the churn results.", nil
	}
	switch {
	case strings.Contains(q, "reduce") || strings.Contains(q, "retain") || strings.Contains(q, "improve"):
		return ctxLine + " To reduce churn, reach out to the high-risk customers first, review pricing for short-tenure accounts and follow up on recent complaints.", nil
	default:
		return ctxLine + " Ask me how to reduce churn or about any customer segment.", nil
	}
}

const contextPrefix = "Context: "

// BuildPrompt puts a one-line summary of the user's latest prediction in
// front of message. A nil prediction leaves message unchanged.
func BuildPrompt(message string, latest *models.PredictionPayload) string {
	if latest == nil {
		return message
	}
	return contextPrefix + Summary(latest) + "\n\n" + message
}

// Summary describes a prediction in one sentence.
func Summary(p *models.PredictionPayload) string {
	m := churn.ForPayload(p)
	return fmt.Sprintf("The latest prediction for %q used %s on %d customers: %d predicted to churn (%.1f%%), %d retained (%.1f%%).",
		p.FileName, p.ModelUsed, m.Total, m.Churned, m.ChurnRate, m.Retained, m.RetentionRate)
}

func splitPrompt(prompt string) (ctxLine, question string) {
	if !strings.HasPrefix(prompt, contextPrefix) {
		return "", prompt
	}
	head, rest, _ := strings.Cut(prompt, "\n\n")
	return strings.TrimPrefix(head, contextPrefix), rest
}
