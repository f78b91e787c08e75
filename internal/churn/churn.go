// Package churn holds the churn-label rule and the churn-rate computation
// shared by the API, the report generator and churnctl.
package churn

import (
	"strings"

	"ChurnRadar_AnalyticsProject/internal/models"
)

// DefaultColumn is read when no prediction column is known.
const DefaultColumn = "churn"

var churnLabels = map[string]struct{}{
	"1":        {},
	"yes":      {},
	"true":     {},
	"churn":    {},
	"positive": {},
}

// positiveKeys are the distribution labels summed as churned. Matching here is
// exact; label casing from the backend is not normalized.
var positiveKeys = []string{"1", "Yes", "True", "Churn"}

// IsChurn reports whether a raw label counts as churned.
func IsChurn(v any) bool {
	_, ok := churnLabels[strings.ToLower(models.FormatValue(v))]
	return ok
}

type Metrics struct {
	Total         int     `json:"total"`
	Churned       int     `json:"churned"`
	Retained      int     `json:"retained"`
	ChurnRate     float64 `json:"churn_rate"`
	RetentionRate float64 `json:"retention_rate"`
}

func newMetrics(total, churned int) Metrics {
	if churned < 0 {
		churned = 0
	}
	m := Metrics{Total: total, Churned: churned, Retained: total - churned}
	if total > 0 {
		m.ChurnRate = float64(churned) / float64(total) * 100
		m.RetentionRate = 100 - m.ChurnRate
	}
	return m
}

// FromDistribution derives metrics from a label distribution. When none of the
// positive labels are present but a "0" label is, everything that is not "0"
// counts as churned.
func FromDistribution(d models.Distribution) Metrics {
	total := d.Total()
	churned := 0
	for _, k := range positiveKeys {
		churned += d[k]
	}
	if churned == 0 && total > 0 {
		if zero, ok := d["0"]; ok {
			churned = total - zero
		}
	}
	return newMetrics(total, churned)
}

// FromRecords counts churned rows by reading column from every record.
func FromRecords(records []models.Record, column string) Metrics {
	if column == "" {
		column = DefaultColumn
	}
	churned := 0
	for _, r := range records {
		if IsChurn(r.Value(column)) {
			churned++
		}
	}
	return newMetrics(len(records), churned)
}

// Compute prefers the backend distribution and falls back to scanning records.
func Compute(records []models.Record, column string, d models.Distribution) Metrics {
	if len(d) > 0 {
		return FromDistribution(d)
	}
	return FromRecords(records, column)
}

// ForPayload computes metrics for a prediction payload.
func ForPayload(p *models.PredictionPayload) Metrics {
	if p == nil {
		return Metrics{}
	}
	return Compute(p.Records, p.PredictionColumn, p.ClassDistribution)
}
