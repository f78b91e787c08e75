// Package predictor scores uploaded customers with a churn model and shapes
// the result into the prediction payload served by /csv.
package predictor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ChurnRadar_AnalyticsProject/internal/dataset"
	"ChurnRadar_AnalyticsProject/internal/models"
)

const (
	UserIDColumn      = "User_ID"
	TargetColumn      = "Predicted_Target"
	ProbabilityColumn = "churn_probability"
)

// candidatePredictionColumns is the lookup order for the label column.
var candidatePredictionColumns = []string{
	"prediction",
	TargetColumn,
	"predicted",
	"Predicted",
	"target",
	"label",
}

// Prediction is the model output for one record.
type Prediction struct {
	Label       any      `json:"label"`
	Probability *float64 `json:"probability,omitempty"`
}

// Predictor scores records with the named model file.
type Predictor interface {
	Predict(ctx context.Context, model string, records []models.Record) ([]Prediction, error)
}

// MissingColumnError is returned when the output has no recognizable label
// column.
type MissingColumnError struct {
	Expected  []string `json:"expected_any_of"`
	Available []string `json:"available_columns"`
}

func (e *MissingColumnError) Error() string {
	return "Prediction column not found in output CSV."
}

// DetectPredictionColumn returns the first candidate label column present.
func DetectPredictionColumn(columns []string) (string, error) {
	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}
	for _, c := range candidatePredictionColumns {
		if present[c] {
			return c, nil
		}
	}
	return "", &MissingColumnError{
		Expected:  append([]string(nil), candidatePredictionColumns...),
		Available: append([]string(nil), columns...),
	}
}

// Annotate returns new records with a leading User_ID and the model output
// appended. The returned column list matches the new key order.
func Annotate(columns []string, records []models.Record, preds []Prediction) ([]string, []models.Record, error) {
	if len(preds) != len(records) {
		return nil, nil, fmt.Errorf("model returned %d predictions for %d records", len(preds), len(records))
	}

	hasProb := false
	for _, p := range preds {
		if p.Probability != nil {
			hasProb = true
			break
		}
	}

	out := make([]models.Record, len(records))
	for i, src := range records {
		rec := models.NewRecord()
		rec.Set(UserIDColumn, fmt.Sprintf("U%04d", i+1))
		for _, c := range columns {
			if c == UserIDColumn {
				continue
			}
			rec.Set(c, src.Value(c))
		}
		rec.Set(TargetColumn, preds[i].Label)
		if hasProb {
			var v any
			if preds[i].Probability != nil {
				v = *preds[i].Probability
			}
			rec.Set(ProbabilityColumn, v)
		}
		out[i] = *rec
	}

	cols := []string{UserIDColumn}
	for _, c := range columns {
		if c != UserIDColumn && c != TargetColumn && c != ProbabilityColumn {
			cols = append(cols, c)
		}
	}
	cols = append(cols, TargetColumn)
	if hasProb {
		cols = append(cols, ProbabilityColumn)
	}
	return cols, out, nil
}

// ClassDistribution counts records per label of column.
func ClassDistribution(records []models.Record, column string) models.Distribution {
	d := make(models.Distribution)
	for _, r := range records {
		v, ok := r.Get(column)
		if !ok || v == nil {
			continue
		}
		d[models.FormatValue(v)]++
	}
	return d
}

// ErrNoRows is returned by Run for an upload without data rows.
var ErrNoRows = errors.New("uploaded file has no data rows")

// Request is one upload to score.
type Request struct {
	Username string
	FileName string
	Choice   ModelChoice
	Table    *dataset.Table
}

// Run scores the upload and assembles the payload.
func Run(ctx context.Context, p Predictor, req Request, now time.Time) (*models.PredictionPayload, error) {
	if req.Table == nil || len(req.Table.Records) == 0 {
		return nil, ErrNoRows
	}
	model, err := req.Choice.ModelFile()
	if err != nil {
		return nil, err
	}

	preds, err := p.Predict(ctx, model, req.Table.Records)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}

	columns, records, err := Annotate(req.Table.Columns, req.Table.Records, preds)
	if err != nil {
		return nil, err
	}

	predCol, err := DetectPredictionColumn(columns)
	if err != nil {
		return nil, err
	}

	return &models.PredictionPayload{
		User:              req.Username,
		Timestamp:         now.Format(time.RFC3339),
		Records:           records,
		Columns:           columns,
		PredictionColumn:  predCol,
		ClassDistribution: ClassDistribution(records, predCol),
		ModelUsed:         model,
		FileName:          req.FileName,
	}, nil
}

// ModelChoice is the model family picked on upload.
type ModelChoice string

const (
	General             ModelChoice = "General"
	LifeInsurance       ModelChoice = "Life_Insurance"
	AutomobileInsurance ModelChoice = "Automobile_Insurance"
)

var modelFiles = map[ModelChoice]string{
	General:             "catboost_model.cbm",
	LifeInsurance:       "life_insurance.cbm",
	AutomobileInsurance: "automobile_insurance.joblib",
}

// ErrUnknownModel is returned for a model choice outside the known set.
var ErrUnknownModel = errors.New("unknown model_choice, expected one of General, Life_Insurance, Automobile_Insurance")

// ParseModelChoice maps form input to a choice. Empty input means General.
func ParseModelChoice(s string) (ModelChoice, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return General, nil
	}
	c := ModelChoice(s)
	if _, ok := modelFiles[c]; !ok {
		return "", ErrUnknownModel
	}
	return c, nil
}

func (c ModelChoice) ModelFile() (string, error) {
	if c == "" {
		c = General
	}
	f, ok := modelFiles[c]
	if !ok {
		return "", ErrUnknownModel
	}
	return f, nil
}
