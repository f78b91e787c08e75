package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ChurnRadar_AnalyticsProject/internal/churn"
	"ChurnRadar_AnalyticsProject/internal/models"

	"github.com/google/uuid"
)

const defaultListLimit = 20

type predictionRow struct {
	ID               string  `db:"id"`
	Username         string  `db:"username"`
	FileName         string  `db:"file_name"`
	ModelUsed        string  `db:"model_used"`
	PredictionColumn string  `db:"prediction_column"`
	TotalRecords     int     `db:"total_records"`
	ChurnRate        float64 `db:"churn_rate"`
	Payload          string  `db:"payload"`
	CreatedAt        int64   `db:"created_at"`
}

func (r predictionRow) summary() models.PredictionSummary {
	return models.PredictionSummary{
		ID:               r.ID,
		Username:         r.Username,
		FileName:         r.FileName,
		ModelUsed:        r.ModelUsed,
		PredictionColumn: r.PredictionColumn,
		TotalRecords:     r.TotalRecords,
		ChurnRate:        r.ChurnRate,
		CreatedAt:        time.Unix(0, r.CreatedAt).UTC(),
	}
}

func (r predictionRow) payload() (*models.PredictionPayload, error) {
	var p models.PredictionPayload
	if err := json.Unmarshal([]byte(r.Payload), &p); err != nil {
		return nil, fmt.Errorf("decode stored prediction %s: %w", r.ID, err)
	}
	p.ID = r.ID
	return &p, nil
}

// SavePrediction stores p for its user. p.ID is assigned when empty.
func SavePrediction(ctx context.Context, p *models.PredictionPayload) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode prediction: %w", err)
	}
	m := churn.ForPayload(p)

	_, err = db.ExecContext(ctx, rebind(`
		INSERT INTO predictions(id, username, file_name, model_used, prediction_column, total_records, churn_rate, payload, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		p.ID, p.User, p.FileName, p.ModelUsed, p.PredictionColumn, len(p.Records), m.ChurnRate, string(body), time.Now().UnixNano())
	return err
}

func getPrediction(ctx context.Context, query string, args ...any) (*models.PredictionPayload, error) {
	var row predictionRow
	if err := db.GetContext(ctx, &row, rebind(query), args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return row.payload()
}

// LatestPrediction returns the user's most recent upload.
func LatestPrediction(ctx context.Context, username string) (*models.PredictionPayload, error) {
	return getPrediction(ctx, `
		SELECT * FROM predictions
		WHERE username = ?
		ORDER BY created_at DESC
		LIMIT 1`, username)
}

// PredictionByFileName returns the user's most recent upload of fileName.
func PredictionByFileName(ctx context.Context, username, fileName string) (*models.PredictionPayload, error) {
	return getPrediction(ctx, `
		SELECT * FROM predictions
		WHERE username = ? AND file_name = ?
		ORDER BY created_at DESC
		LIMIT 1`, username, fileName)
}

func PredictionByID(ctx context.Context, username, id string) (*models.PredictionPayload, error) {
	return getPrediction(ctx, `SELECT * FROM predictions WHERE username = ? AND id = ?`, username, id)
}

// ListPredictions returns summaries newest first. limit <= 0 uses the default.
func ListPredictions(ctx context.Context, username string, limit int) ([]models.PredictionSummary, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	var rows []predictionRow
	err := db.SelectContext(ctx, &rows, rebind(`
		SELECT id, username, file_name, model_used, prediction_column, total_records, churn_rate, '' AS payload, created_at
		FROM predictions
		WHERE username = ?
		ORDER BY created_at DESC
		LIMIT ?`), username, limit)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.PredictionSummary, 0, len(rows))
	for _, r := range rows {
		summaries = append(summaries, r.summary())
	}
	return summaries, nil
}
