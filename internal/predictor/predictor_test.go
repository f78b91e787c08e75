package predictor

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"ChurnRadar_AnalyticsProject/internal/dataset"
	"ChurnRadar_AnalyticsProject/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModelChoice(t *testing.T) {
	c, err := ParseModelChoice("")
	require.NoError(t, err)
	assert.Equal(t, General, c)

	c, err = ParseModelChoice("Life_Insurance")
	require.NoError(t, err)
	f, err := c.ModelFile()
	require.NoError(t, err)
	assert.Equal(t, "life_insurance.cbm", f)

	f, err = AutomobileInsurance.ModelFile()
	require.NoError(t, err)
	assert.Equal(t, "automobile_insurance.joblib", f)

	_, err = ParseModelChoice("Pet_Insurance")
	assert.ErrorIs(t, err, ErrUnknownModel)
}

func TestDetectPredictionColumn(t *testing.T) {
	col, err := DetectPredictionColumn([]string{"User_ID", "label", "Predicted_Target"})
	require.NoError(t, err)
	assert.Equal(t, "Predicted_Target", col)

	_, err = DetectPredictionColumn([]string{"User_ID", "score"})
	var missing *MissingColumnError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"User_ID", "score"}, missing.Available)
	assert.Contains(t, missing.Expected, "prediction")
}

func TestAnnotateAddsIDsAndOutputs(t *testing.T) {
	p := 0.8
	records := []models.Record{
		models.RecordOf("plan", "pro"),
		models.RecordOf("plan", "basic"),
	}
	cols, out, err := Annotate([]string{"plan"}, records, []Prediction{
		{Label: int64(1), Probability: &p},
		{Label: int64(0)},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{UserIDColumn, "plan", TargetColumn, ProbabilityColumn}, cols)
	assert.Equal(t, cols, out[0].Keys())
	assert.Equal(t, "U0001", out[0].Value(UserIDColumn))
	assert.Equal(t, "U0002", out[1].Value(UserIDColumn))
	assert.Equal(t, 0.8, out[0].Value(ProbabilityColumn))
	assert.Nil(t, out[1].Value(ProbabilityColumn))
	assert.Equal(t, []string{"plan"}, records[0].Keys(), "input records are left untouched")

	_, _, err = Annotate([]string{"plan"}, records, nil)
	assert.Error(t, err)
}

func TestClassDistribution(t *testing.T) {
	records := []models.Record{
		models.RecordOf(TargetColumn, int64(1)),
		models.RecordOf(TargetColumn, int64(0)),
		models.RecordOf(TargetColumn, int64(0)),
		models.RecordOf(TargetColumn, nil),
	}

	assert.Equal(t, models.Distribution{"0": 2, "1": 1}, ClassDistribution(records, TargetColumn))
}

func TestBaselinePassesLabelsThrough(t *testing.T) {
	records := []models.Record{
		models.RecordOf("id", int64(1), "Churn", "Yes"),
		models.RecordOf("id", int64(2), "Churn", "No"),
	}

	preds, err := BaselinePredictor{}.Predict(context.Background(), "catboost_model.cbm", records)
	require.NoError(t, err)
	assert.Equal(t, int64(1), preds[0].Label)
	assert.Equal(t, int64(0), preds[1].Label)
}

func TestBaselineScoresByFeatureDirection(t *testing.T) {
	records := []models.Record{
		models.RecordOf("tenure", int64(1), "MonthlyCharges", 110.0),
		models.RecordOf("tenure", int64(30), "MonthlyCharges", 60.0),
		models.RecordOf("tenure", int64(70), "MonthlyCharges", 20.0),
	}

	preds, err := BaselinePredictor{}.Predict(context.Background(), "", records)
	require.NoError(t, err)
	require.Len(t, preds, 3)

	assert.Equal(t, int64(1), preds[0].Label)
	assert.Equal(t, int64(0), preds[2].Label)
	assert.Greater(t, *preds[0].Probability, *preds[1].Probability)
	assert.Greater(t, *preds[1].Probability, *preds[2].Probability)
}

func TestHTTPPredictorBatchesInOrder(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/predict", r.URL.Path)

		var req PredictRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "catboost_model.cbm", req.Model)

		resp := PredictResponse{}
		for _, rec := range req.Records {
			n, _ := models.Number(rec.Value("n"))
			resp.Predictions = append(resp.Predictions, int64(n)%2)
			resp.Probabilities = append(resp.Probabilities, n/100)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	records := make([]models.Record, 7)
	for i := range records {
		records[i] = models.RecordOf("n", int64(i))
	}

	p := NewHTTPPredictor(srv.URL+"/", 3, 2, 5*time.Second)
	preds, err := p.Predict(context.Background(), "catboost_model.cbm", records)
	require.NoError(t, err)

	assert.Equal(t, int32(3), calls.Load())
	require.Len(t, preds, 7)
	for i, pr := range preds {
		assert.Equal(t, int64(i%2), pr.Label)
		require.NotNil(t, pr.Probability)
		assert.InDelta(t, float64(i)/100, *pr.Probability, 1e-9)
	}
}

func TestHTTPPredictorSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewHTTPPredictor(srv.URL, 10, 1, time.Second)
	_, err := p.Predict(context.Background(), "m", []models.Record{models.RecordOf("a", 1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not loaded")
}

func TestRunBuildsPayload(t *testing.T) {
	tbl, err := dataset.Read("c.csv", strings.NewReader("CustomerID,Churn\nC1,Yes\nC2,No\nC3,No\n"))
	require.NoError(t, err)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	payload, err := Run(context.Background(), BaselinePredictor{}, Request{
		Username: "ada",
		FileName: "c.csv",
		Table:    tbl,
	}, now)
	require.NoError(t, err)

	assert.Equal(t, "ada", payload.User)
	assert.Equal(t, "catboost_model.cbm", payload.ModelUsed)
	assert.Equal(t, TargetColumn, payload.PredictionColumn)
	assert.Equal(t, models.Distribution{"1": 1, "0": 2}, payload.ClassDistribution)
	assert.Equal(t, "2026-03-01T12:00:00Z", payload.Timestamp)
	assert.Equal(t, []string{UserIDColumn, "CustomerID", "Churn", TargetColumn, ProbabilityColumn}, payload.Columns)
	assert.Len(t, payload.Records, 3)
}

func TestRunRejectsEmptyUpload(t *testing.T) {
	_, err := Run(context.Background(), BaselinePredictor{}, Request{Table: &dataset.Table{}}, time.Now())
	assert.ErrorIs(t, err, ErrNoRows)
}
