package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ChurnRadar_AnalyticsProject/internal/models"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// PredictRequest is the body posted to the model server.
type PredictRequest struct {
	Model   string          `json:"model"`
	Records []models.Record `json:"records"`
}

// PredictResponse carries one label per record and, for classifiers that
// expose them, the positive-class probabilities.
type PredictResponse struct {
	Predictions   []any     `json:"predictions"`
	Probabilities []float64 `json:"probabilities,omitempty"`
}

// HTTPPredictor sends records to an external model server in batches.
type HTTPPredictor struct {
	BaseURL     string
	BatchSize   int
	Concurrency int
	Client      *http.Client
}

func NewHTTPPredictor(baseURL string, batchSize, concurrency int, timeout time.Duration) *HTTPPredictor {
	if batchSize <= 0 {
		batchSize = 500
	}
	if concurrency <= 0 {
		concurrency = 4
	}
	return &HTTPPredictor{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		BatchSize:   batchSize,
		Concurrency: concurrency,
		Client:      &http.Client{Timeout: timeout},
	}
}

func (p *HTTPPredictor) Predict(ctx context.Context, model string, records []models.Record) ([]Prediction, error) {
	out := make([]Prediction, len(records))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Concurrency)
	for start := 0; start < len(records); start += p.BatchSize {
		end := start + p.BatchSize
		if end > len(records) {
			end = len(records)
		}
		start, batch := start, records[start:end]
		g.Go(func() error {
			preds, err := p.predictBatch(ctx, model, batch)
			if err != nil {
				return fmt.Errorf("batch at row %d: %w", start, err)
			}
			copy(out[start:], preds)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *HTTPPredictor) predictBatch(ctx context.Context, model string, batch []models.Record) ([]Prediction, error) {
	reqBody, err := json.Marshal(PredictRequest{Model: model, Records: batch})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/predict", bytes.NewReader(reqBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("model server returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var pr PredictResponse
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&pr); err != nil {
		return nil, fmt.Errorf("decode model response: %w", err)
	}
	if len(pr.Predictions) != len(batch) {
		return nil, fmt.Errorf("model server returned %d predictions for %d records", len(pr.Predictions), len(batch))
	}
	if len(pr.Probabilities) != 0 && len(pr.Probabilities) != len(batch) {
		zap.L().Warn("ignoring probabilities with mismatched length",
			zap.Int("probabilities", len(pr.Probabilities)), zap.Int("records", len(batch)))
		pr.Probabilities = nil
	}

	preds := make([]Prediction, len(batch))
	for i, label := range pr.Predictions {
		preds[i].Label = labelValue(label)
		if pr.Probabilities != nil {
			prob := pr.Probabilities[i]
			preds[i].Probability = &prob
		}
	}
	return preds, nil
}

func labelValue(v any) any {
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return i
		}
		if f, err := n.Float64(); err == nil {
			return f
		}
	}
	return v
}
