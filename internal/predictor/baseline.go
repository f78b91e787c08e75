package predictor

import (
	"context"
	"math"
	"strings"

	"ChurnRadar_AnalyticsProject/internal/churn"
	"ChurnRadar_AnalyticsProject/internal/models"

	"gonum.org/v1/gonum/stat"
)

// labelColumns are passed through when the upload is already labelled.
var labelColumns = []string{"Churn", "churn", "Exited", "Target"}

// featureWeights give the direction a numeric column pushes churn risk,
// matched against lower-cased column names.
var featureWeights = []struct {
	keyword string
	weight  float64
}{
	{"tenure", -1.2},
	{"years", -0.6},
	{"age", -0.3},
	{"complain", 1.0},
	{"support", 0.8},
	{"calls", 0.6},
	{"charge", 0.7},
	{"balance", 0.5},
	{"late", 0.9},
}

// BaselinePredictor scores records without a model server. Labelled uploads
// keep their label; otherwise known numeric features are z-scored and pushed
// through a logistic.
type BaselinePredictor struct{}

func (BaselinePredictor) Predict(_ context.Context, _ string, records []models.Record) ([]Prediction, error) {
	if len(records) == 0 {
		return nil, nil
	}
	if col, ok := labelColumn(records[0]); ok {
		return passThrough(records, col), nil
	}

	weights := make(map[string]float64)
	for _, k := range records[0].Keys() {
		if w, ok := weightFor(k); ok {
			weights[k] = w
		}
	}

	type moments struct{ mean, std float64 }
	cols := make(map[string]moments, len(weights))
	for k := range weights {
		xs := make([]float64, 0, len(records))
		for _, r := range records {
			if f, ok := models.Number(r.Value(k)); ok {
				xs = append(xs, f)
			}
		}
		if len(xs) < 2 {
			continue
		}
		mean, std := stat.MeanStdDev(xs, nil)
		if std == 0 || math.IsNaN(std) {
			continue
		}
		cols[k] = moments{mean, std}
	}

	preds := make([]Prediction, len(records))
	for i, r := range records {
		score := 0.0
		for k, m := range cols {
			f, ok := models.Number(r.Value(k))
			if !ok {
				continue
			}
			score += weights[k] * (f - m.mean) / m.std
		}
		p := 1 / (1 + math.Exp(-score))
		p = math.Round(p*1e4) / 1e4
		preds[i] = Prediction{Label: binaryLabel(p >= 0.5), Probability: &p}
	}
	return preds, nil
}

func labelColumn(r models.Record) (string, bool) {
	for _, c := range labelColumns {
		if _, ok := r.Get(c); ok {
			return c, true
		}
	}
	return "", false
}

func passThrough(records []models.Record, col string) []Prediction {
	preds := make([]Prediction, len(records))
	for i, r := range records {
		p := 0.0
		if churn.IsChurn(r.Value(col)) {
			p = 1
		}
		preds[i] = Prediction{Label: binaryLabel(p == 1), Probability: &p}
	}
	return preds
}

func weightFor(column string) (float64, bool) {
	name := strings.ToLower(column)
	for _, fw := range featureWeights {
		if strings.Contains(name, fw.keyword) {
			return fw.weight, true
		}
	}
	return 0, false
}

func binaryLabel(churned bool) int64 {
	if churned {
		return 1
	}
	return 0
}
